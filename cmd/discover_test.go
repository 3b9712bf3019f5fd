package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/twitch"
)

func TestClipLine(t *testing.T) {
	line := clipLine(twitch.Clip{ID: "SomeClipID", BroadcasterName: "SomeBody"})
	if line != "https://www.twitch.tv/somebody/clip/SomeClipID" {
		t.Errorf("clipLine = %q", line)
	}
}

func TestMergeDownloadsFileReplaceKeepsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to_download.txt")
	seed := "# keep me\nhttps://www.twitch.tv/old/clip/OldClip\n"
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	lines := []string{"https://www.twitch.tv/new/clip/NewClip"}
	if _, err := mergeDownloadsFile(path, lines, "replace"); err != nil {
		t.Fatalf("mergeDownloadsFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# keep me") {
		t.Error("replace policy must keep comment lines")
	}
	if strings.Contains(content, "OldClip") {
		t.Error("replace policy must drop old clip lines")
	}
	if !strings.Contains(content, "NewClip") {
		t.Error("new clip line missing")
	}
}

func TestMergeDownloadsFileAppendDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to_download.txt")
	seed := "https://www.twitch.tv/old/clip/OldClip\n"
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	lines := []string{
		"https://www.twitch.tv/old/clip/OldClip",
		"https://www.twitch.tv/new/clip/NewClip",
	}
	if _, err := mergeDownloadsFile(path, lines, "append"); err != nil {
		t.Fatalf("mergeDownloadsFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	content := string(data)
	if got := strings.Count(content, "OldClip"); got != 1 {
		t.Errorf("OldClip appears %d times, want 1", got)
	}
	if !strings.Contains(content, "NewClip") {
		t.Error("new clip line missing")
	}
}

func TestMergeDownloadsFileAppendToWhitespaceOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to_download.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := mergeDownloadsFile(path, []string{"https://www.twitch.tv/a/clip/B"}, "append"); err != nil {
		t.Fatalf("mergeDownloadsFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := string(data); got != "https://www.twitch.tv/a/clip/B\n" {
		t.Errorf("content = %q, want the clip line with no blank padding", got)
	}
}

func TestMergeDownloadsFileUnknownPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to_download.txt")
	if _, err := mergeDownloadsFile(path, []string{"x"}, "merge"); err == nil {
		t.Fatal("unknown merge policy must fail")
	}
}

func TestMergeDownloadsFileCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to_download.txt")
	if _, err := mergeDownloadsFile(path, []string{"https://www.twitch.tv/a/clip/B"}, "append"); err != nil {
		t.Fatalf("mergeDownloadsFile error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("downloads file not created: %v", err)
	}
}
