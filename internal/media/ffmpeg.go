package media

import (
	"context"
	"fmt"
	"time"
)

const defaultFFmpegPath = "ffmpeg"

// FFmpeg runs trim and final-assembly invocations with a fixed
// device/quality encoder configuration.
type FFmpeg struct {
	binPath  string
	settings EncoderSettings
	timeout  time.Duration
}

func NewFFmpeg(device Device, quality Quality, timeout time.Duration) (*FFmpeg, error) {
	settings, err := SettingsFor(device, quality)
	if err != nil {
		return nil, err
	}
	return &FFmpeg{
		binPath:  defaultFFmpegPath,
		settings: settings,
		timeout:  timeout,
	}, nil
}

// Trim re-encodes the [start, end) window of inPath into outPath.
func (f *FFmpeg) Trim(ctx context.Context, inPath, outPath string, start, end float64) error {
	args := f.trimArgs(inPath, outPath, start, end)
	if output, err := runCommand(ctx, f.timeout, f.binPath, args...); err != nil {
		return &TransformError{Stage: "trim", Output: string(output), Err: err}
	}
	return nil
}

func (f *FFmpeg) trimArgs(inPath, outPath string, start, end float64) []string {
	args := []string{
		"-y",
		"-i", inPath,
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
	}
	args = append(args, f.settings.args()...)
	return append(args, outPath)
}

// Render assembles the ordered input list through a filter graph into
// outPath. The graph is expected to label its outputs [outv] and [outa].
func (f *FFmpeg) Render(ctx context.Context, inputs []string, filterComplex, outPath string) error {
	args := f.renderArgs(inputs, filterComplex, outPath)
	if output, err := runCommand(ctx, f.timeout, f.binPath, args...); err != nil {
		return &TransformError{Stage: "render", Output: string(output), Err: err}
	}
	return nil
}

func (f *FFmpeg) renderArgs(inputs []string, filterComplex, outPath string) []string {
	args := []string{"-y"}
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	args = append(args,
		"-filter_complex", filterComplex,
		"-map", "[outv]",
		"-map", "[outa]",
	)
	args = append(args, f.settings.args()...)
	return append(args, outPath)
}
