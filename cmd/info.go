package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipforge/internal/database/repository"
	"clipforge/internal/media"
	"clipforge/internal/spec"
	"clipforge/pkg/config"
)

var infoCmd = &cobra.Command{
	Use:   "info <video-id>",
	Short: "Show a video's clips, files and render state",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	videoID := args[0]
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	vid, err := st.videos.Find(videoID)
	if errors.Is(err, repository.ErrNotFound) {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Video %s not found.", videoID)))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Video %s", vid.ID)))
	fmt.Printf("Step:    %s\n", vid.Step)
	if vid.Rendered() {
		fmt.Printf("Output:  %s\n", vid.Output)
	} else {
		fmt.Println("Output:  not rendered")
	}
	fmt.Printf("Created: %s\n\n", vid.CreatedAt.Format("2006-01-02 15:04:05"))

	clips, err := st.clips.ListForVideo(videoID)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Println(infoStyle.Render("No processed clips."))
	} else {
		var total float64
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSTREAMER\tPLATFORM\tDURATION\tTRIM\tSOURCE")
		for _, clip := range clips {
			trim := "-"
			if clip.TrimAction {
				trim = fmt.Sprintf("%s-%s", spec.FormatTimestamp(clip.TrimStart), spec.FormatTimestamp(clip.TrimEnd))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%.3fs\t%s\t%s\n",
				clip.Order, clip.Username, clip.Platform, clip.Duration, trim, clip.PlatformURL)
			total += clip.Duration
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d clips, %s total\n", len(clips), spec.FormatTimestamp(total))
	}

	files, err := resultFiles(filepath.Join(cfg.ResultsDir, videoID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(files) > 0 {
		fmt.Println("\nFiles:")
		for _, f := range files {
			fmt.Printf("  %9s  %s\n", formatSize(f.Size), f.Path)
		}
	}

	if vid.Rendered() {
		prober := media.NewFFprobe(cfg.Timeouts.ProbeDuration())
		info, err := prober.Info(cmd.Context(), vid.Output)
		if err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Could not probe output: %v", err)))
			return nil
		}
		fmt.Println("\nOutput media:")
		fmt.Println("  " + formatMediaInfo(info))
	}
	return nil
}

// resultFile is one artifact under a video's results directory.
type resultFile struct {
	Path string // relative to the video's results directory
	Size int64
}

// resultFiles walks a video's results directory. A missing directory is
// reported via os.IsNotExist so callers can treat it as "no files".
func resultFiles(dir string) ([]resultFile, error) {
	var files []resultFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, resultFile{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatMediaInfo(info *media.Info) string {
	return fmt.Sprintf("%s, %.3fs, %s %dx%d, audio %s",
		info.Container, info.Duration,
		info.VideoCodec, info.Width, info.Height,
		info.AudioCodec,
	)
}
