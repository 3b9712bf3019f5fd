package media

import (
	"context"
	"time"
)

const defaultYtDlpPath = "yt-dlp"

// YtDlp fetches raw clip media from its platform URL.
type YtDlp struct {
	binPath string
	timeout time.Duration
}

func NewYtDlp(timeout time.Duration) *YtDlp {
	return &YtDlp{binPath: defaultYtDlpPath, timeout: timeout}
}

// Fetch downloads url into outputTemplate. The template may carry a
// yt-dlp extension placeholder, e.g. raw_0_foo_bar.%(ext)s.
func (d *YtDlp) Fetch(ctx context.Context, url, outputTemplate string) error {
	args := []string{
		"--quiet",
		"--no-progress",
		"--no-cache-dir",
		"--remux-video", "mp4",
		"--output", outputTemplate,
		url,
	}
	if output, err := runCommand(ctx, d.timeout, d.binPath, args...); err != nil {
		return &FetchError{URL: url, Output: string(output), Err: err}
	}
	return nil
}
