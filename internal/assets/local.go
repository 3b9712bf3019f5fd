package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider serves assets from a directory on disk.
type LocalProvider struct {
	baseDir string
}

func NewLocalProvider(baseDir string) *LocalProvider {
	return &LocalProvider{baseDir: baseDir}
}

// Resolve returns the on-disk path for name, failing when the file is
// missing. Absolute names are taken as-is.
func (p *LocalProvider) Resolve(_ context.Context, name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, name)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("asset %s: %w", name, err)
	}
	return path, nil
}

// ResolveDir maps each file in dir to its path, keyed by the file's base
// name without extension. Used for platform icon lookup.
func (p *LocalProvider) ResolveDir(_ context.Context, dir string) (map[string]string, error) {
	path := dir
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, dir)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read asset directory %s: %w", dir, err)
	}

	resolved := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		key := strings.TrimSuffix(name, filepath.Ext(name))
		resolved[key] = filepath.Join(path, name)
	}
	return resolved, nil
}
