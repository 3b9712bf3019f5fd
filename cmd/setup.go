package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Clipforge",
	Long:  `Create the working directories, a starter config.yml and downloads file, and store API credentials in .env.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

const configTemplate = `# clipforge configuration
results_dir: ./results
assets_dir: ./assets
downloads_file: ./to_download.txt
database_path: ./clipforge.db

resolution: 1920x1080
device: cpu        # cpu or gpu
quality: good      # high, good or low
workers: 4

use_intro: false
intro_path: intro.mp4
use_outro: false
outro_path: outro.mp4
use_transition: false
transition_path: transition.mp4
use_frame: false
frame_path: frame.png
use_platform_icon: false
platform_icon_dir: icons

timeouts:
  download: 300
  probe: 30
  transform: 1800

discovery:
  game_id: ""
  broadcaster: ""
  hours_ago: 168
  clip_limit: 20
  merge_policy: replace   # replace or append

gcs:
  enabled: false
  asset_dir: assets
  cache_dir: ./.cache
`

const downloadsTemplate = `# One clip per line. Tokens are comma separated:
#   s:HH:MM:SS.mmm  trim start
#   e:HH:MM:SS.mmm  trim end
#   u:username      username override (required for youtube)
#   p:platform      platform override
# Example:
#   s:00:00:05.000,e:00:00:15.000,https://www.twitch.tv/somebody/clip/SomeClipID
`

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎞  Clipforge Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Writing starter files", writeStarterFiles},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	fmt.Println(successStyle.Render("✓ Setup complete. Add clip URLs to to_download.txt and run: clipforge download <video-id>"))
	return nil
}

func createDirectories() error {
	dirs := []string{"results", "assets", filepath.Join("assets", "icons")}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func writeStarterFiles() error {
	starters := map[string]string{
		"config.yml":      configTemplate,
		"to_download.txt": downloadsTemplate,
	}

	for name, content := range starters {
		if _, err := os.Stat(name); err == nil {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Kept existing %s", name)))
			continue
		}
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Wrote %s", name)))
	}
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var clientID, clientSecret, gcsBucket string

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Twitch Client ID").
				Description("Needed for clip discovery; leave empty to skip").
				Value(&clientID),
			huh.NewInput().
				Title("Twitch Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
			huh.NewInput().
				Title("GCS bucket").
				Description("Only needed when serving assets from GCS").
				Value(&gcsBucket),
		),
	).Run(); err != nil {
		return err
	}

	var b strings.Builder
	if clientID != "" {
		fmt.Fprintf(&b, "TWITCH_CLIENT_ID=%s\n", clientID)
	}
	if clientSecret != "" {
		fmt.Fprintf(&b, "TWITCH_CLIENT_SECRET=%s\n", clientSecret)
	}
	if gcsBucket != "" {
		fmt.Fprintf(&b, "GCS_BUCKET=%s\n", gcsBucket)
	}
	if b.Len() == 0 {
		fmt.Println(infoStyle.Render("No credentials entered, skipped .env"))
		return nil
	}

	if err := os.WriteFile(".env", []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Wrote .env"))
	return nil
}
