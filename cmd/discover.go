package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/spec"
	"clipforge/internal/twitch"
	"clipforge/pkg/config"
)

var (
	discoverGameID      string
	discoverBroadcaster string
	discoverLimit       int
	discoverHoursAgo    int
)

var discoverCmd = &cobra.Command{
	Use:   "discover [logins...]",
	Short: "Fill the downloads file with top Twitch clips",
	Long: `Discover queries the Twitch API for the most viewed recent clips of
the given channel logins (or of discovery.game_id when none are given)
and writes them to the downloads file. The discovery.merge_policy setting
controls whether existing clip lines are replaced or appended to.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverGameID, "game-id", "", "Twitch game id to search clips for")
	discoverCmd.Flags().StringVar(&discoverBroadcaster, "broadcaster", "", "Twitch channel login to search clips for")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 0, "Maximum clips to collect")
	discoverCmd.Flags().IntVar(&discoverHoursAgo, "hours", 0, "Only consider clips created within the past N hours")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.TwitchClientID == "" || cfg.TwitchClientSecret == "" {
		return errors.New("twitch credentials missing: set TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET")
	}

	gameID := cfg.Discovery.GameID
	if discoverGameID != "" {
		gameID = discoverGameID
	}
	logins := args
	if len(logins) == 0 && cfg.Discovery.Broadcaster != "" {
		logins = []string{cfg.Discovery.Broadcaster}
	}
	if discoverBroadcaster != "" {
		logins = append(logins, discoverBroadcaster)
	}
	if gameID == "" && len(logins) == 0 {
		return errors.New("nothing to discover: pass channel logins, set discovery.game_id or use --game-id")
	}

	limit := cfg.Discovery.ClipLimit
	if discoverLimit > 0 {
		limit = discoverLimit
	}
	hoursAgo := cfg.Discovery.HoursAgo
	if discoverHoursAgo > 0 {
		hoursAgo = discoverHoursAgo
	}
	startedAt := time.Now().Add(-time.Duration(hoursAgo) * time.Hour)

	ctx := cmd.Context()
	client := twitch.NewClient(ctx, twitch.Config{
		ClientID:     cfg.TwitchClientID,
		ClientSecret: cfg.TwitchClientSecret,
	})

	var clips []twitch.Clip
	if len(logins) > 0 {
		// The clip limit applies per channel.
		for _, login := range logins {
			user, err := client.UserByLogin(ctx, login)
			if err != nil {
				return err
			}
			found, err := client.ClipsForBroadcaster(ctx, user.ID, startedAt, limit)
			if err != nil {
				return err
			}
			clips = append(clips, found...)
		}
	} else {
		found, err := client.ClipsForGame(ctx, gameID, startedAt, limit)
		if err != nil {
			return err
		}
		clips = found
	}

	if len(clips) == 0 {
		fmt.Println(infoStyle.Render("No clips found for the given criteria."))
		return nil
	}

	lines := make([]string, 0, len(clips))
	for _, clip := range clips {
		lines = append(lines, clipLine(clip))
	}

	added, err := mergeDownloadsFile(cfg.DownloadsFile, lines, cfg.Discovery.MergePolicy)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Wrote %d clip lines to %s", added, cfg.DownloadsFile)))
	return nil
}

// clipLine writes a discovered clip in the canonical downloads-file form.
func clipLine(clip twitch.Clip) string {
	return fmt.Sprintf("https://www.twitch.tv/%s/clip/%s", strings.ToLower(clip.BroadcasterName), clip.ID)
}

// mergeDownloadsFile applies the configured merge policy. "replace" keeps
// comment lines and swaps all clip lines out; "append" adds lines not
// already present.
func mergeDownloadsFile(path string, lines []string, policy string) (int, error) {
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}

	var out []string
	added := 0
	switch policy {
	case "append":
		seen := make(map[string]bool)
		for _, line := range spec.Lines(existing) {
			seen[line] = true
		}
		if strings.TrimSpace(existing) != "" {
			out = strings.Split(strings.TrimRight(existing, "\n"), "\n")
		}
		for _, line := range lines {
			if !seen[line] {
				out = append(out, line)
				seen[line] = true
				added++
			}
		}

	case "replace", "":
		for _, line := range strings.Split(existing, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				out = append(out, line)
			}
		}
		out = append(out, lines...)
		added = len(lines)

	default:
		return 0, fmt.Errorf("unknown discovery.merge_policy %q: want replace or append", policy)
	}

	content := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return 0, fmt.Errorf("write downloads file: %w", err)
	}
	return added, nil
}
