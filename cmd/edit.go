package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var (
	editTitle string
	editMood  string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or mood of a dream",
	Long:  "Change the title or mood of a dream. The dream text and its interpretation are kept as recorded.",
	Example: `  dreamctl edit a3kf9x2m --title "The Glass City"
  dreamctl edit a3kf9x2m --mood confident`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in journal.EditInput
		if cmd.Flags().Changed("title") {
			in.Title = &editTitle
		}
		if cmd.Flags().Changed("mood") {
			m, err := dream.ParseMood(editMood)
			if err != nil {
				return fmt.Errorf("%w: %v", storage.ErrValidation, err)
			}
			in.Mood = &m
		}
		return editRun(cmd.Context(), cmd.OutOrStdout(), args[0], in)
	},
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editMood, "mood", "m", "", "new mood")
	rootCmd.AddCommand(editCmd)
}

func editRun(ctx context.Context, w io.Writer, id string, in journal.EditInput) error {
	if in.Title == nil && in.Mood == nil {
		if _, err := svc.Get(ctx, appConfig.User, id); err != nil {
			return err
		}
		ui.FormatNoChanges(w, id)
		return nil
	}

	e, err := svc.Edit(ctx, appConfig.User, id, in)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToSummaries([]dream.Entry{e})[0])
	}
	ui.FormatDreamUpdated(w, e)
	return nil
}
