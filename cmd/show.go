package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/ui"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a dream and its interpretation",
	Long: `Display a dream with its interpretation, symbols and lucid dreaming guidance.
Replies that do not follow the expected layout are shown as written.`,
	Example: `  dreamctl show a3kf9x2m
  dreamctl show a3kf9x2m --raw
  dreamctl show a3kf9x2m --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the stored model reply unparsed")
	rootCmd.AddCommand(showCmd)
}

func showRun(ctx context.Context, w io.Writer, id string) error {
	e, err := svc.Get(ctx, appConfig.User, id)
	if err != nil {
		return err
	}

	if showRaw {
		_, err := fmt.Fprintln(w, e.Interpretation)
		return err
	}

	reading := svc.Reading(e)
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToDetail(e, reading))
	}

	theme := ui.ResolveTheme(appConfig.Theme)
	var buf bytes.Buffer
	ui.FormatDreamFull(&buf, e, reading, theme, contentWidth())
	return ui.OutputOrPage(w, buf.String(), false, pager(""))
}

func contentWidth() int {
	if appConfig.MaxWidth > 0 && appConfig.MaxWidth < 80 {
		return appConfig.MaxWidth
	}
	return 80
}
