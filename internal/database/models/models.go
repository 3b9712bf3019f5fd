package models

import "time"

// Step is the last pipeline stage a video entered.
type Step string

const (
	StepDownload  Step = "download"
	StepRendering Step = "rendering"
)

// Video is one compilation.
type Video struct {
	ID        string
	Step      Step
	Output    string // set only after a successful render
	CreatedAt time.Time
}

// Rendered reports whether a final output file has been recorded.
func (v *Video) Rendered() bool {
	return v.Output != ""
}

// Streamer is a distinct (username, platform) channel identity. Streamers
// are shared across compilations and never duplicated.
type Streamer struct {
	ID         string
	Username   string
	Platform   string
	PlatformID string
}

// Clip is one processed segment within one compilation. Order values are
// dense (0..N-1) within a video and determine the final sequence.
type Clip struct {
	ID          string
	VideoID     string
	StreamerID  string
	Order       int
	Platform    string
	PlatformID  string
	PlatformURL string
	Duration    float64 // seconds, post-trim, millisecond precision
	FilePath    string
	TrimStart   float64
	TrimEnd     float64
	TrimAction  bool
	CreatedAt   time.Time
}
