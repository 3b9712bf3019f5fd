package media

import (
	"context"
	"time"
)

const defaultNormalizePath = "ffmpeg-normalize"

// Normalizer levels clip audio so compilations don't jump in loudness
// between segments.
type Normalizer struct {
	binPath string
	timeout time.Duration
}

func NewNormalizer(timeout time.Duration) *Normalizer {
	return &Normalizer{binPath: defaultNormalizePath, timeout: timeout}
}

// Normalize writes a loudness-normalized copy of inPath to outPath.
func (n *Normalizer) Normalize(ctx context.Context, inPath, outPath string) error {
	args := []string{
		inPath,
		"-c:a", "aac",
		"-b:a", "320k",
		"-o", outPath,
		"-f",
	}
	if output, err := runCommand(ctx, n.timeout, n.binPath, args...); err != nil {
		return &TransformError{Stage: "normalize", Output: string(output), Err: err}
	}
	return nil
}
