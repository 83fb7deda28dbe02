package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the moods a dream can be tagged with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return moodsRun(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(moodsCmd)
}

type moodView struct {
	Mood dream.Mood `json:"mood"`
	Tone dream.Tone `json:"tone"`
}

func moodsRun(w io.Writer) error {
	if jsonOutput {
		out := make([]moodView, 0, len(dream.Moods()))
		for _, m := range dream.Moods() {
			out = append(out, moodView{Mood: m, Tone: m.Tone()})
		}
		return ui.FormatJSON(w, out)
	}
	ui.FormatMoods(w, ui.ResolveTheme(appConfig.Theme))
	return nil
}
