package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"clipforge/internal/assets"
	"clipforge/internal/database/repository"
	"clipforge/internal/media"
	"clipforge/internal/video"
	"clipforge/pkg/config"
)

var (
	renderOverwrite bool
	renderDevice    string
	renderQuality   string
)

var renderCmd = &cobra.Command{
	Use:   "render <video-id>",
	Short: "Assemble a video's processed clips into the final compilation",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVarP(&renderOverwrite, "overwrite", "o", false, "Re-render over an existing output")
	renderCmd.Flags().StringVar(&renderDevice, "device", "", "Encoder device: cpu or gpu")
	renderCmd.Flags().StringVar(&renderQuality, "quality", "", "Encoder quality: high, good or low")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	videoID := args[0]
	cfg := config.Load()

	if renderDevice != "" {
		cfg.Device = renderDevice
	}
	if renderQuality != "" {
		cfg.Quality = renderQuality
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts, cleanup, err := buildRenderOptions(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ffmpeg, err := media.NewFFmpeg(media.Device(cfg.Device), media.Quality(cfg.Quality), cfg.Timeouts.TransformDuration())
	if err != nil {
		return err
	}

	renderer := video.NewRenderer(
		st.videos, st.clips,
		ffmpeg,
		media.NewFFprobe(cfg.Timeouts.ProbeDuration()),
		cfg.ResultsDir, opts, nil,
	)

	var result *video.Result
	render := func() { result, err = renderer.Render(cmd.Context(), videoID, renderOverwrite) }
	if verbose {
		render()
	} else {
		_ = spinner.New().Title(fmt.Sprintf("Rendering %s...", videoID)).Action(render).Run()
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		fmt.Println(warnStyle.Render(fmt.Sprintf("Video %s not found. Run download first.", videoID)))
		return nil
	case errors.Is(err, video.ErrNoClips):
		fmt.Println(warnStyle.Render(fmt.Sprintf("Video %s has no processed clips.", videoID)))
		return nil
	case errors.Is(err, video.ErrAlreadyRendered):
		fmt.Println(infoStyle.Render(fmt.Sprintf("Video %s is already rendered. Use --overwrite to render again.", videoID)))
		return nil
	case err != nil:
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Rendered %d clips to %s", result.ClipCount, result.OutputPath)))
	if result.Info != nil {
		fmt.Println("  " + formatMediaInfo(result.Info))
	}
	return nil
}

// buildRenderOptions resolves every enabled asset to a local path through
// the configured provider. The returned cleanup closes the GCS client when
// one was opened.
func buildRenderOptions(ctx context.Context, cfg *config.Config) (video.Options, func(), error) {
	cleanup := func() {}

	var provider assets.Provider
	if cfg.GCS.Enabled {
		gcs, err := assets.NewGCSProvider(ctx, cfg.GCSBucket, cfg.GCS.AssetDir, cfg.GCS.CacheDir)
		if err != nil {
			return video.Options{}, cleanup, err
		}
		cleanup = func() { _ = gcs.Close() }
		provider = gcs
	} else {
		provider = assets.NewLocalProvider(cfg.AssetsDir)
	}

	width, height := video.ParseResolution(cfg.Resolution)
	opts := video.Options{
		Width:           width,
		Height:          height,
		UseIntro:        cfg.UseIntro,
		UseOutro:        cfg.UseOutro,
		UseTransition:   cfg.UseTransition,
		UseFrame:        cfg.UseFrame,
		UsePlatformIcon: cfg.UsePlatformIcon,
	}

	resolve := func(enabled bool, name string, dst *string) error {
		if !enabled {
			return nil
		}
		path, err := provider.Resolve(ctx, name)
		if err != nil {
			return err
		}
		*dst = path
		return nil
	}

	if err := resolve(cfg.UseIntro, cfg.IntroPath, &opts.IntroPath); err != nil {
		return video.Options{}, cleanup, err
	}
	if err := resolve(cfg.UseOutro, cfg.OutroPath, &opts.OutroPath); err != nil {
		return video.Options{}, cleanup, err
	}
	if err := resolve(cfg.UseTransition, cfg.TransitionPath, &opts.TransitionPath); err != nil {
		return video.Options{}, cleanup, err
	}
	if err := resolve(cfg.UseFrame, cfg.FramePath, &opts.FramePath); err != nil {
		return video.Options{}, cleanup, err
	}

	if cfg.UsePlatformIcon {
		icons, err := provider.ResolveDir(ctx, cfg.PlatformIconDir)
		if err != nil {
			return video.Options{}, cleanup, err
		}
		opts.IconPaths = icons
	}

	return opts, cleanup, nil
}
