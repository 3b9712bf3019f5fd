// Package cmd wires the clipforge CLI.
package cmd

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipforge/internal/database"
	"clipforge/internal/database/repository"
	"clipforge/pkg/config"
)

var verbose bool

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var rootCmd = &cobra.Command{
	Use:   "clipforge",
	Short: "Compile streamer clips into a single video",
	Long: `Clipforge downloads clips listed in a downloads file, trims and
normalizes each one, and assembles them into a single compilation video
with optional intro, outro, transitions and overlays.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// store bundles the database handle with its repositories.
type store struct {
	db        *database.DB
	videos    *repository.VideoRepository
	streamers *repository.StreamerRepository
	clips     *repository.ClipRepository
}

func openStore(cfg *config.Config) (*store, error) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return &store{
		db:        db,
		videos:    repository.NewVideoRepository(db),
		streamers: repository.NewStreamerRepository(db),
		clips:     repository.NewClipRepository(db),
	}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}
