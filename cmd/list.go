package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipforge/pkg/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known videos and their pipeline state",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	videos, err := st.videos.List()
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		fmt.Println(infoStyle.Render("No videos yet. Run download to get started."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTEP\tCLIPS\tOUTPUT\tCREATED")
	for _, vid := range videos {
		count, err := st.clips.CountForVideo(vid.ID)
		if err != nil {
			return err
		}
		output := "-"
		if vid.Rendered() {
			output = vid.Output
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			vid.ID, vid.Step, count, output, vid.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
