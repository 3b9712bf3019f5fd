// Package media wraps the external executables the pipeline depends on:
// yt-dlp for fetching, ffprobe for probing, ffmpeg for trimming and final
// assembly, and ffmpeg-normalize for loudness normalization.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// FetchError wraps a non-zero exit from the downloader.
type FetchError struct {
	URL    string
	Output string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v: %s", e.URL, e.Err, e.Output)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProbeError wraps a failed media probe.
type ProbeError struct {
	Path   string
	Output string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v: %s", e.Path, e.Err, e.Output)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// TransformError wraps a non-zero exit from a trim, normalize or assembly
// invocation.
type TransformError struct {
	Stage  string
	Output string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Stage, e.Err, e.Output)
}

func (e *TransformError) Unwrap() error { return e.Err }

// runCommand executes an external tool, honoring an optional timeout.
// Timeout 0 means no deadline beyond the caller's context.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
