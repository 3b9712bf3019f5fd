package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalProviderResolve(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "intro.mp4")
	if err := os.WriteFile(asset, []byte("x"), 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	p := NewLocalProvider(dir)

	path, err := p.Resolve(context.Background(), "intro.mp4")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if path != asset {
		t.Errorf("Resolve = %q, want %q", path, asset)
	}

	if _, err := p.Resolve(context.Background(), "missing.mp4"); err == nil {
		t.Error("missing asset must fail")
	}
}

func TestLocalProviderResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "outro.mp4")
	if err := os.WriteFile(asset, []byte("x"), 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	p := NewLocalProvider("/somewhere/else")
	path, err := p.Resolve(context.Background(), asset)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if path != asset {
		t.Errorf("Resolve = %q, want %q", path, asset)
	}
}

func TestLocalProviderResolveDir(t *testing.T) {
	dir := t.TempDir()
	iconDir := filepath.Join(dir, "icons")
	if err := os.MkdirAll(iconDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"twitch.png", "youtube.png"} {
		if err := os.WriteFile(filepath.Join(iconDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write icon: %v", err)
		}
	}

	p := NewLocalProvider(dir)
	icons, err := p.ResolveDir(context.Background(), "icons")
	if err != nil {
		t.Fatalf("ResolveDir error: %v", err)
	}
	if len(icons) != 2 {
		t.Fatalf("got %d icons, want 2: %v", len(icons), icons)
	}
	if icons["twitch"] != filepath.Join(iconDir, "twitch.png") {
		t.Errorf("twitch icon = %q", icons["twitch"])
	}
	if icons["youtube"] != filepath.Join(iconDir, "youtube.png") {
		t.Errorf("youtube icon = %q", icons["youtube"])
	}
}
