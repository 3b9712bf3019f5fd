package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"clipforge/internal/database"
	"clipforge/internal/database/repository"
)

type fakeMedia struct {
	mu         sync.Mutex
	fetched    []string
	trimmed    []string
	normalized []string

	rawDuration  float64
	trimDuration float64
	fetchErr     error
}

func (f *fakeMedia) Fetch(_ context.Context, url, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return f.fetchErr
	}
	f.fetched = append(f.fetched, url)
	return nil
}

func (f *fakeMedia) Duration(_ context.Context, path string) (float64, error) {
	if strings.HasPrefix(filepath.Base(path), "trim_") {
		return f.trimDuration, nil
	}
	return f.rawDuration, nil
}

func (f *fakeMedia) Trim(_ context.Context, inPath, _ string, _, _ float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trimmed = append(f.trimmed, inPath)
	return nil
}

func (f *fakeMedia) Normalize(_ context.Context, inPath, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.normalized = append(f.normalized, inPath)
	return nil
}

func (f *fakeMedia) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

type testEnv struct {
	processor *Processor
	media     *fakeMedia
	videos    *repository.VideoRepository
	clips     *repository.ClipRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	videos := repository.NewVideoRepository(db)
	streamers := repository.NewStreamerRepository(db)
	clips := repository.NewClipRepository(db)
	media := &fakeMedia{rawDuration: 30, trimDuration: 5}

	processor := NewProcessor(
		videos, streamers, clips,
		media, media, media, media,
		filepath.Join(dir, "results"), 4, nil,
	)
	return &testEnv{processor: processor, media: media, videos: videos, clips: clips}
}

func TestIngestTrimWindow(t *testing.T) {
	env := newTestEnv(t)

	lines := []string{"s:00:00:05.000,e:00:00:10.000,https://www.twitch.tv/somebody/clip/abc"}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	clips, err := env.clips.ListForVideo("vid1")
	if err != nil {
		t.Fatalf("ListForVideo error: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("got %d clips, want 1", len(clips))
	}

	clip := clips[0]
	if !clip.TrimAction {
		t.Error("trim window requested but trim_action is false")
	}
	if clip.TrimStart != 5 || clip.TrimEnd != 10 {
		t.Errorf("trim window = [%v, %v], want [5, 10]", clip.TrimStart, clip.TrimEnd)
	}
	if clip.Duration != 5 {
		t.Errorf("duration = %v, want re-probed trimmed duration 5", clip.Duration)
	}
	if len(env.media.trimmed) != 1 {
		t.Errorf("trim called %d times, want 1", len(env.media.trimmed))
	}
}

func TestIngestNoTrimWindow(t *testing.T) {
	env := newTestEnv(t)
	env.media.rawDuration = 12.345

	lines := []string{"https://www.twitch.tv/somebody/clip/abc"}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	clips, err := env.clips.ListForVideo("vid1")
	if err != nil {
		t.Fatalf("ListForVideo error: %v", err)
	}
	clip := clips[0]
	if clip.TrimAction {
		t.Error("full-duration clip must not set trim_action")
	}
	if clip.TrimEnd != 12.345 {
		t.Errorf("trim_end = %v, want probed duration 12.345", clip.TrimEnd)
	}
	if clip.Duration != 12.345 {
		t.Errorf("duration = %v, want 12.345", clip.Duration)
	}
	if len(env.media.trimmed) != 0 {
		t.Errorf("trim called %d times, want 0", len(env.media.trimmed))
	}
	// Normalization always runs, trim or not.
	if len(env.media.normalized) != 1 {
		t.Errorf("normalize called %d times, want 1", len(env.media.normalized))
	}
}

func TestIngestEndBeyondDurationStillTrims(t *testing.T) {
	env := newTestEnv(t)
	env.media.rawDuration = 12
	env.media.trimDuration = 12

	lines := []string{"e:00:01:00.000,https://www.twitch.tv/somebody/clip/abc"}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	clips, err := env.clips.ListForVideo("vid1")
	if err != nil {
		t.Fatalf("ListForVideo error: %v", err)
	}
	clip := clips[0]
	if !clip.TrimAction {
		t.Error("end beyond the probed duration must still set trim_action")
	}
	if clip.TrimEnd != 60 {
		t.Errorf("trim_end = %v, want requested 60", clip.TrimEnd)
	}
	if clip.Duration != 12 {
		t.Errorf("duration = %v, want re-probed 12", clip.Duration)
	}
	if len(env.media.trimmed) != 1 {
		t.Errorf("trim called %d times, want 1", len(env.media.trimmed))
	}
}

func TestIngestOrderIsDense(t *testing.T) {
	env := newTestEnv(t)

	lines := []string{
		"https://www.twitch.tv/alpha/clip/one",
		"https://www.twitch.tv/beta/clip/two",
		"https://www.twitch.tv/alpha/clip/three",
	}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	clips, err := env.clips.ListForVideo("vid1")
	if err != nil {
		t.Fatalf("ListForVideo error: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("got %d clips, want 3", len(clips))
	}
	for i, clip := range clips {
		if clip.Order != i {
			t.Errorf("clip %d has order %d", i, clip.Order)
		}
	}
	if clips[1].Username != "beta" {
		t.Errorf("clip 1 username = %q, want beta", clips[1].Username)
	}
}

func TestIngestExistingVideoConflict(t *testing.T) {
	env := newTestEnv(t)
	lines := []string{"https://www.twitch.tv/somebody/clip/abc"}

	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("first Ingest error: %v", err)
	}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); !errors.Is(err, ErrVideoExists) {
		t.Fatalf("second Ingest error = %v, want ErrVideoExists", err)
	}
	if got := env.media.fetchCount(); got != 1 {
		t.Errorf("fetch called %d times, want 1 (conflict must not re-fetch)", got)
	}
}

func TestIngestForceReprocesses(t *testing.T) {
	env := newTestEnv(t)
	lines := []string{"https://www.twitch.tv/somebody/clip/abc"}

	if err := env.processor.Ingest(context.Background(), "vid1", lines, false); err != nil {
		t.Fatalf("first Ingest error: %v", err)
	}
	if err := env.processor.Ingest(context.Background(), "vid1", lines, true); err != nil {
		t.Fatalf("forced Ingest error: %v", err)
	}

	count, err := env.clips.CountForVideo("vid1")
	if err != nil {
		t.Fatalf("CountForVideo error: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d clips after forced reprocess, want 1", count)
	}
	if got := env.media.fetchCount(); got != 2 {
		t.Errorf("fetch called %d times, want 2", got)
	}
}

func TestIngestMalformedLineAbortsBeforeFetch(t *testing.T) {
	env := newTestEnv(t)

	lines := []string{
		"https://www.twitch.tv/somebody/clip/abc",
		"s:00:00:05.000", // no url
	}
	err := env.processor.Ingest(context.Background(), "vid1", lines, false)

	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("Ingest error = %v, want MalformedLineError", err)
	}
	if got := env.media.fetchCount(); got != 0 {
		t.Errorf("fetch called %d times, want 0 (validation precedes all media work)", got)
	}
	if _, err := env.videos.Find("vid1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("video record created despite aborted validation")
	}
}

func TestIngestUnsupportedPlatformAborts(t *testing.T) {
	env := newTestEnv(t)

	err := env.processor.Ingest(context.Background(), "vid1", []string{"https://vimeo.com/12345"}, false)
	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("Ingest error = %v, want MalformedLineError", err)
	}
}

func TestIngestEmptyInput(t *testing.T) {
	env := newTestEnv(t)
	if err := env.processor.Ingest(context.Background(), "vid1", nil, false); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Ingest error = %v, want ErrEmptyInput", err)
	}
}

func TestIngestInvalidWindowRejected(t *testing.T) {
	env := newTestEnv(t)

	lines := []string{"s:00:00:10.000,e:00:00:05.000,https://www.twitch.tv/somebody/clip/abc"}
	err := env.processor.Ingest(context.Background(), "vid1", lines, false)
	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("Ingest error = %v, want MalformedLineError", err)
	}
}
