package video

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"clipforge/internal/database/models"
	"clipforge/internal/database/repository"
	"clipforge/internal/media"
)

// ErrAlreadyRendered signals a render against a video that already has an
// output file recorded. A conflict, not a failure.
var ErrAlreadyRendered = errors.New("video already rendered")

// ErrNoClips signals a render against a video with no processed clips.
var ErrNoClips = errors.New("video has no clips")

// Encoder runs the final filter-graph assembly.
type Encoder interface {
	Render(ctx context.Context, inputs []string, filterComplex, outPath string) error
}

// InfoProber reads container and stream metadata for the render report.
type InfoProber interface {
	Info(ctx context.Context, path string) (*media.Info, error)
}

// Renderer assembles a video's processed clips into one output file.
type Renderer struct {
	videos     *repository.VideoRepository
	clips      *repository.ClipRepository
	encoder    Encoder
	prober     InfoProber
	resultsDir string
	opts       Options
	logger     *slog.Logger
}

func NewRenderer(
	videos *repository.VideoRepository,
	clips *repository.ClipRepository,
	encoder Encoder,
	prober InfoProber,
	resultsDir string,
	opts Options,
	logger *slog.Logger,
) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		videos:     videos,
		clips:      clips,
		encoder:    encoder,
		prober:     prober,
		resultsDir: resultsDir,
		opts:       opts,
		logger:     logger,
	}
}

// Result reports a finished render.
type Result struct {
	OutputPath string
	ClipCount  int
	Info       *media.Info
}

// OutputPath returns where a video's final file is written.
func (r *Renderer) OutputPath(videoID string) string {
	return filepath.Join(r.resultsDir, videoID, "output.mp4")
}

// Render compiles and encodes the compilation for videoID. An existing
// output is a conflict unless overwrite is set.
func (r *Renderer) Render(ctx context.Context, videoID string, overwrite bool) (*Result, error) {
	vid, err := r.videos.Find(videoID)
	if err != nil {
		return nil, err
	}
	if vid.Rendered() && !overwrite {
		return nil, ErrAlreadyRendered
	}

	records, err := r.clips.ListForVideo(videoID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoClips
	}

	clips := make([]ClipSource, len(records))
	for i, record := range records {
		clips[i] = ClipSource{
			Path:        record.FilePath,
			DisplayName: record.Username,
			Platform:    record.Platform,
		}
	}

	width, height := r.opts.Width, r.opts.Height
	if width == 0 || height == 0 {
		width, height = 1920, 1080
	}
	graph := Compile(BuildTimeline(clips, r.opts), width, height)

	if err := r.videos.SetStep(videoID, models.StepRendering); err != nil {
		return nil, err
	}

	outPath := r.OutputPath(videoID)
	r.logger.Info("rendering video", "video", videoID, "clips", len(records), "inputs", len(graph.Inputs), "output", outPath)
	if err := r.encoder.Render(ctx, graph.Inputs, graph.Filter, outPath); err != nil {
		return nil, err
	}

	if err := r.videos.SetOutput(videoID, outPath); err != nil {
		return nil, err
	}

	result := &Result{OutputPath: outPath, ClipCount: len(records)}
	if r.prober != nil {
		info, err := r.prober.Info(ctx, outPath)
		if err != nil {
			// The file rendered fine; a failed report probe is only noise.
			r.logger.Warn("could not probe rendered output", "video", videoID, "error", err)
		} else {
			result.Info = info
		}
	}

	return result, nil
}
