package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSProvider serves assets from a GCS bucket, caching downloads locally
// so repeated renders don't refetch.
type GCSProvider struct {
	client   *storage.Client
	bucket   string
	baseDir  string
	cacheDir string
}

func NewGCSProvider(ctx context.Context, bucket, baseDir, cacheDir string) (*GCSProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSProvider{
		client:   client,
		bucket:   bucket,
		baseDir:  baseDir,
		cacheDir: cacheDir,
	}, nil
}

func (p *GCSProvider) Close() error {
	return p.client.Close()
}

// Resolve downloads the object for name into the cache directory, reusing
// a previously cached copy when present.
func (p *GCSProvider) Resolve(ctx context.Context, name string) (string, error) {
	remotePath := name
	if p.baseDir != "" {
		remotePath = p.baseDir + "/" + name
	}

	localPath := filepath.Join(p.cacheDir, filepath.FromSlash(remotePath))
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := p.download(ctx, remotePath, localPath); err != nil {
		return "", fmt.Errorf("asset gs://%s/%s: %w", p.bucket, remotePath, err)
	}
	return localPath, nil
}

// ResolveDir downloads every object under dir and maps base names without
// extension to their cached paths.
func (p *GCSProvider) ResolveDir(ctx context.Context, dir string) (map[string]string, error) {
	prefix := dir
	if p.baseDir != "" {
		prefix = p.baseDir + "/" + dir
	}

	bkt := p.client.Bucket(p.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})

	resolved := make(map[string]string)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", p.bucket, prefix, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		localPath := filepath.Join(p.cacheDir, filepath.FromSlash(attrs.Name))
		if _, err := os.Stat(localPath); err != nil {
			if err := p.download(ctx, attrs.Name, localPath); err != nil {
				return nil, fmt.Errorf("asset gs://%s/%s: %w", p.bucket, attrs.Name, err)
			}
		}

		base := filepath.Base(attrs.Name)
		key := strings.TrimSuffix(base, filepath.Ext(base))
		resolved[key] = localPath
	}
	return resolved, nil
}

func (p *GCSProvider) download(ctx context.Context, remotePath, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	r, err := p.client.Bucket(p.bucket).Object(remotePath).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open object: %w", err)
	}
	defer func() { _ = r.Close() }()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("download object: %w", err)
	}
	return nil
}
