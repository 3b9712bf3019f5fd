package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const defaultFFprobePath = "ffprobe"

// FFprobe reads durations and stream metadata from media files.
type FFprobe struct {
	binPath string
	timeout time.Duration
}

func NewFFprobe(timeout time.Duration) *FFprobe {
	return &FFprobe{binPath: defaultFFprobePath, timeout: timeout}
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

// Info is the render-time report of a media file.
type Info struct {
	Container  string
	Duration   float64
	BitRate    string
	VideoCodec string
	Width      int
	Height     int
	AudioCodec string
	SampleRate string
}

// Duration returns a file's duration in seconds, rounded down to
// millisecond precision.
func (p *FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.probe(ctx, path, false)
	if err != nil {
		return 0, err
	}
	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, &ProbeError{Path: path, Output: out.Format.Duration, Err: fmt.Errorf("parse duration: %w", err)}
	}
	return math.Floor(duration*1000) / 1000, nil
}

// Info returns container and stream metadata for a media file.
func (p *FFprobe) Info(ctx context.Context, path string) (*Info, error) {
	out, err := p.probe(ctx, path, true)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Container: out.Format.FormatName,
		BitRate:   out.Format.BitRate,
	}
	if duration, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = math.Floor(duration*1000) / 1000
	}
	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			info.VideoCodec = stream.CodecName
			info.Width = stream.Width
			info.Height = stream.Height
		case "audio":
			info.AudioCodec = stream.CodecName
			info.SampleRate = stream.SampleRate
		}
	}
	return info, nil
}

func (p *FFprobe) probe(ctx context.Context, path string, streams bool) (*probeOutput, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
	}
	if streams {
		args = append(args, "-show_streams")
	}
	args = append(args, path)

	raw, err := runCommand(ctx, p.timeout, p.binPath, args...)
	if err != nil {
		return nil, &ProbeError{Path: path, Output: string(raw), Err: err}
	}

	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ProbeError{Path: path, Output: string(raw), Err: fmt.Errorf("parse ffprobe output: %w", err)}
	}
	return &out, nil
}
