// Package pipeline ingests clip specifications into processed, normalized
// clip artifacts and their database records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"clipforge/internal/database/models"
	"clipforge/internal/database/repository"
	"clipforge/internal/source"
	"clipforge/internal/spec"
)

// Fetcher downloads a clip URL into an output path template.
type Fetcher interface {
	Fetch(ctx context.Context, url, outputTemplate string) error
}

// Prober reads a media file's duration in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Trimmer cuts a media file to a [start, end] window in seconds.
type Trimmer interface {
	Trim(ctx context.Context, inPath, outPath string, start, end float64) error
}

// Normalizer levels a media file's audio loudness.
type Normalizer interface {
	Normalize(ctx context.Context, inPath, outPath string) error
}

// Processor runs the ingest stage: validate every line, then fetch, trim
// and normalize clips concurrently, persisting one clip record per line.
type Processor struct {
	videos     *repository.VideoRepository
	streamers  *repository.StreamerRepository
	clips      *repository.ClipRepository
	fetcher    Fetcher
	prober     Prober
	trimmer    Trimmer
	normalizer Normalizer
	resultsDir string
	workers    int
	logger     *slog.Logger
}

func NewProcessor(
	videos *repository.VideoRepository,
	streamers *repository.StreamerRepository,
	clips *repository.ClipRepository,
	fetcher Fetcher,
	prober Prober,
	trimmer Trimmer,
	normalizer Normalizer,
	resultsDir string,
	workers int,
	logger *slog.Logger,
) *Processor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		videos:     videos,
		streamers:  streamers,
		clips:      clips,
		fetcher:    fetcher,
		prober:     prober,
		trimmer:    trimmer,
		normalizer: normalizer,
		resultsDir: resultsDir,
		workers:    workers,
		logger:     logger,
	}
}

// task is one validated clip line, ready to process.
type task struct {
	order int
	clip  *source.Clip
	start float64
	end   float64 // 0 means "through the clip's full duration"
}

// ClipsDir returns the directory holding a video's clip artifacts.
func (p *Processor) ClipsDir(videoID string) string {
	return filepath.Join(p.resultsDir, videoID, "clips")
}

// Ingest processes the given clip lines for videoID. An existing video is
// a conflict unless force is set, in which case its clip records and
// artifacts are discarded and rebuilt. All lines are validated before any
// media work begins; a single malformed line aborts the run.
func (p *Processor) Ingest(ctx context.Context, videoID string, lines []string, force bool) error {
	if len(lines) == 0 {
		return ErrEmptyInput
	}

	tasks, err := p.validate(lines)
	if err != nil {
		return err
	}

	created, err := p.videos.CreateIfAbsent(&models.Video{ID: videoID, Step: models.StepDownload})
	if err != nil {
		return err
	}
	if !created {
		if !force {
			return ErrVideoExists
		}
		p.logger.Info("reprocessing existing video", "video", videoID)
		if err := p.videos.SetStep(videoID, models.StepDownload); err != nil {
			return err
		}
		if err := p.clips.DeleteForVideo(videoID); err != nil {
			return err
		}
		if err := os.RemoveAll(p.ClipsDir(videoID)); err != nil {
			return fmt.Errorf("clear clips dir for video %s: %w", videoID, err)
		}
	}

	clipsDir := p.ClipsDir(videoID)
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return fmt.Errorf("create clips dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, t := range tasks {
		g.Go(func() error {
			return p.processClip(ctx, videoID, clipsDir, t)
		})
	}
	return g.Wait()
}

// validate parses and resolves every line up front. The task order matches
// line order, which becomes the clip order in the final compilation.
func (p *Processor) validate(lines []string) ([]task, error) {
	tasks := make([]task, 0, len(lines))
	for i, line := range lines {
		req := spec.Parse(line)
		if req.URL == "" {
			return nil, &MalformedLineError{Line: line, Err: errors.New("no clip url")}
		}

		clip, err := source.Resolve(req)
		if err != nil {
			return nil, &MalformedLineError{Line: line, Err: err}
		}

		start, err := spec.ParseTimestamp(req.Start)
		if err != nil {
			return nil, &MalformedLineError{Line: line, Err: err}
		}
		end, err := spec.ParseTimestamp(req.End)
		if err != nil {
			return nil, &MalformedLineError{Line: line, Err: err}
		}
		if end != 0 && end <= start {
			return nil, &MalformedLineError{Line: line, Err: fmt.Errorf("trim end %s not after start %s", req.End, req.Start)}
		}

		tasks = append(tasks, task{order: i, clip: clip, start: start, end: end})
	}
	return tasks, nil
}

// processClip runs the full media sequence for one clip: fetch raw media,
// probe its duration, trim when a window was requested, normalize audio
// into the final artifact, then persist the record. Intermediate files are
// removed best-effort once the final artifact exists.
func (p *Processor) processClip(ctx context.Context, videoID, clipsDir string, t task) error {
	logger := p.logger.With("video", videoID, "clip", t.order, "platform", string(t.clip.Platform), "streamer", t.clip.Username)

	streamer, err := p.streamers.GetOrCreate(t.clip.Username, string(t.clip.Platform), t.clip.PlatformID)
	if err != nil {
		return err
	}

	base := fmt.Sprintf("%d_%s_%s", t.order, t.clip.Username, t.clip.PlatformID)
	rawPath := filepath.Join(clipsDir, "raw_"+base+".mp4")
	trimPath := filepath.Join(clipsDir, "trim_"+base+".mp4")
	finalPath := filepath.Join(clipsDir, base+".mp4")

	logger.Info("fetching clip", "url", t.clip.URL)
	if err := p.fetcher.Fetch(ctx, t.clip.URL, filepath.Join(clipsDir, "raw_"+base+".%(ext)s")); err != nil {
		return err
	}

	duration, err := p.prober.Duration(ctx, rawPath)
	if err != nil {
		return err
	}

	// An end past the probed duration still counts as a trim request; the
	// encoder stops at the stream's end and the re-probe below records the
	// real duration.
	start, end := t.start, t.end
	if end == 0 {
		end = duration
	}
	trimmed := start != 0 || end != duration

	normalizeInput := rawPath
	if trimmed {
		logger.Info("trimming clip", "start", spec.FormatTimestamp(start), "end", spec.FormatTimestamp(end))
		if err := p.trimmer.Trim(ctx, rawPath, trimPath, start, end); err != nil {
			return err
		}
		// The trimmed file's probed duration is authoritative: encoders
		// land keyframes near, not exactly on, the requested window.
		if duration, err = p.prober.Duration(ctx, trimPath); err != nil {
			return err
		}
		normalizeInput = trimPath
	}

	logger.Info("normalizing clip audio")
	if err := p.normalizer.Normalize(ctx, normalizeInput, finalPath); err != nil {
		return err
	}

	clip := &models.Clip{
		VideoID:     videoID,
		StreamerID:  streamer.ID,
		Order:       t.order,
		Platform:    string(t.clip.Platform),
		PlatformID:  t.clip.PlatformID,
		PlatformURL: t.clip.URL,
		Duration:    duration,
		FilePath:    finalPath,
		TrimStart:   start,
		TrimEnd:     end,
		TrimAction:  trimmed,
	}
	if err := p.clips.Create(clip); err != nil {
		return err
	}

	for _, intermediate := range []string{rawPath, trimPath} {
		if err := os.Remove(intermediate); err != nil && !os.IsNotExist(err) {
			logger.Warn("could not remove intermediate file", "path", intermediate, "error", err)
		}
	}

	logger.Info("clip ready", "path", finalPath, "duration", duration)
	return nil
}
