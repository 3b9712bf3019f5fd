// Package assets resolves overlay and bumper media (intro, outro,
// transition, frame, platform icons) to local file paths, either straight
// from disk or through a cached GCS bucket.
package assets

import "context"

// Provider resolves an asset name to a local path usable as an ffmpeg input.
type Provider interface {
	Resolve(ctx context.Context, name string) (string, error)
	ResolveDir(ctx context.Context, dir string) (map[string]string, error)
}
