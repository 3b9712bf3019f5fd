// Package video turns a compilation's ordered clip artifacts into a single
// ffmpeg invocation: an ordered input list plus a filter_complex expression.
//
// The compiler works in two passes. BuildTimeline produces typed timeline
// segments from clips and feature flags; Compile lowers the segments into
// the input list and filter string. Keeping the passes apart keeps the
// input-index bookkeeping testable without running ffmpeg: every optional
// flag changes how many inputs a clip consumes, and a miscount pairs the
// wrong audio with the wrong video.
package video

import (
	"fmt"
	"strconv"
	"strings"
)

type SegmentKind int

const (
	SegmentIntro SegmentKind = iota
	SegmentClip
	SegmentTransition
	SegmentOutro
)

// Segment is one timeline unit contributing its own video+audio branch to
// the final concat. Frame and icon paths are overlay assets composited onto
// a clip segment; they consume input slots but are not segments themselves.
type Segment struct {
	Kind        SegmentKind
	Path        string
	DisplayName string
	FramePath   string
	IconPath    string
}

// ClipSource is one clip artifact in final order.
type ClipSource struct {
	Path        string
	DisplayName string
	Platform    string
}

// Options are the compilation-level feature flags and their asset paths.
type Options struct {
	Width  int
	Height int

	UseIntro  bool
	IntroPath string

	UseOutro  bool
	OutroPath string

	UseTransition  bool
	TransitionPath string

	UseFrame  bool
	FramePath string

	UsePlatformIcon bool
	IconPaths       map[string]string // platform -> icon asset
}

// Graph is the compiled render plan.
type Graph struct {
	Inputs       []string
	Filter       string
	SegmentCount int
}

// BuildTimeline lays out the linear compilation: intro, then each clip with
// its overlays and an inter-clip transition, then outro. Transitions are
// omitted after the last clip.
func BuildTimeline(clips []ClipSource, opts Options) []Segment {
	var segments []Segment

	if opts.UseIntro {
		segments = append(segments, Segment{Kind: SegmentIntro, Path: opts.IntroPath})
	}

	for i, clip := range clips {
		segment := Segment{
			Kind:        SegmentClip,
			Path:        clip.Path,
			DisplayName: clip.DisplayName,
		}
		if opts.UseFrame {
			segment.FramePath = opts.FramePath
		}
		if opts.UsePlatformIcon {
			segment.IconPath = opts.IconPaths[clip.Platform]
		}
		segments = append(segments, segment)

		if opts.UseTransition && i < len(clips)-1 {
			segments = append(segments, Segment{Kind: SegmentTransition, Path: opts.TransitionPath})
		}
	}

	if opts.UseOutro {
		segments = append(segments, Segment{Kind: SegmentOutro, Path: opts.OutroPath})
	}

	return segments
}

// Compile lowers timeline segments into the ordered input list and the
// filter_complex string. inputIndex always points at the next unconsumed
// input; overlay assets advance it without adding a concat segment.
func Compile(segments []Segment, width, height int) Graph {
	var inputs []string
	var filters []string

	scale := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		width, height, width, height,
	)

	inputIndex := 0
	segmentIndex := 0

	for _, segment := range segments {
		mediaInput := inputIndex
		inputs = append(inputs, segment.Path)
		inputIndex++

		videoLabel := fmt.Sprintf("v%d", segmentIndex)

		if segment.Kind == SegmentClip {
			chain := fmt.Sprintf(
				"[%d:v]%s,drawtext=text='%s':fontcolor=white:fontsize=%d:box=1:boxcolor=black@0.5:boxborderw=12:x=48:y=h-th-48",
				mediaInput, scale, sanitizeDrawText(segment.DisplayName), height/20,
			)

			hasOverlays := segment.FramePath != "" || segment.IconPath != ""
			if !hasOverlays {
				filters = append(filters, chain+"["+videoLabel+"]")
			} else {
				last := fmt.Sprintf("base%d", segmentIndex)
				filters = append(filters, chain+"["+last+"]")

				if segment.FramePath != "" {
					frameInput := inputIndex
					inputs = append(inputs, segment.FramePath)
					inputIndex++

					scaled := fmt.Sprintf("frame%d", segmentIndex)
					composited := fmt.Sprintf("framed%d", segmentIndex)
					filters = append(filters,
						fmt.Sprintf("[%d:v]scale=%d:%d[%s]", frameInput, width, height, scaled),
						fmt.Sprintf("[%s][%s]overlay=0:0[%s]", last, scaled, composited),
					)
					last = composited
				}

				if segment.IconPath != "" {
					iconInput := inputIndex
					inputs = append(inputs, segment.IconPath)
					inputIndex++

					scaled := fmt.Sprintf("icon%d", segmentIndex)
					composited := fmt.Sprintf("iconed%d", segmentIndex)
					filters = append(filters,
						fmt.Sprintf("[%d:v]scale=%d:-1[%s]", iconInput, width/16, scaled),
						fmt.Sprintf("[%s][%s]overlay=W-w-48:48[%s]", last, scaled, composited),
					)
					last = composited
				}

				filters = append(filters, fmt.Sprintf("[%s]null[%s]", last, videoLabel))
			}
		} else {
			filters = append(filters, fmt.Sprintf("[%d:v]%s[%s]", mediaInput, scale, videoLabel))
		}

		filters = append(filters, fmt.Sprintf("[%d:a]asetpts=PTS-STARTPTS[a%d]", mediaInput, segmentIndex))
		segmentIndex++
	}

	var concat strings.Builder
	for i := 0; i < segmentIndex; i++ {
		concat.WriteString("[v" + strconv.Itoa(i) + "][a" + strconv.Itoa(i) + "]")
	}
	concat.WriteString(fmt.Sprintf("concat=n=%d:v=1:a=1[outv][outa]", segmentIndex))
	filters = append(filters, concat.String())

	return Graph{
		Inputs:       inputs,
		Filter:       strings.Join(filters, ";"),
		SegmentCount: segmentIndex,
	}
}

// ParseResolution parses a WxH string, falling back to 1920x1080.
func ParseResolution(res string) (int, int) {
	parts := strings.Split(res, "x")
	if len(parts) != 2 {
		return 1920, 1080
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 1920, 1080
	}
	return w, h
}

var drawTextSanitizer = strings.NewReplacer(
	"\\", "",
	"'", "",
	":", "",
	";", "",
	"[", "",
	"]", "",
	",", "",
)

// sanitizeDrawText strips characters that break ffmpeg filter syntax from a
// display name.
func sanitizeDrawText(s string) string {
	return drawTextSanitizer.Replace(s)
}
