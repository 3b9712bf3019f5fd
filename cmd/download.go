package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"clipforge/internal/media"
	"clipforge/internal/pipeline"
	"clipforge/internal/spec"
	"clipforge/pkg/config"
)

var downloadForce bool

var downloadCmd = &cobra.Command{
	Use:   "download <video-id>",
	Short: "Download and process the clips listed in the downloads file",
	Long: `Download reads the downloads file, fetches every listed clip,
trims and audio-normalizes each one, and records the results under the
given video id.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadForce, "force", "f", false, "Reprocess an existing video from scratch")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	videoID := args[0]
	cfg := config.Load()

	content, err := os.ReadFile(cfg.DownloadsFile)
	if err != nil {
		return fmt.Errorf("read downloads file: %w", err)
	}
	lines := spec.Lines(string(content))

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ffmpeg, err := media.NewFFmpeg(media.Device(cfg.Device), media.Quality(cfg.Quality), cfg.Timeouts.TransformDuration())
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessor(
		st.videos, st.streamers, st.clips,
		media.NewYtDlp(cfg.Timeouts.DownloadDuration()),
		media.NewFFprobe(cfg.Timeouts.ProbeDuration()),
		ffmpeg,
		media.NewNormalizer(cfg.Timeouts.TransformDuration()),
		cfg.ResultsDir, cfg.Workers, slog.Default(),
	)

	err = processor.Ingest(cmd.Context(), videoID, lines, downloadForce)
	switch {
	case errors.Is(err, pipeline.ErrVideoExists):
		fmt.Println(infoStyle.Render(fmt.Sprintf("Video %s already exists. Use --force to reprocess it.", videoID)))
		return nil
	case errors.Is(err, pipeline.ErrEmptyInput):
		fmt.Println(infoStyle.Render(fmt.Sprintf("Nothing to download: %s has no clip lines.", cfg.DownloadsFile)))
		return nil
	case err != nil:
		return err
	}

	count, err := st.clips.CountForVideo(videoID)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Processed %d clips for video %s", count, videoID)))
	return nil
}
