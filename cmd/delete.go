package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/ui"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a dream",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !deleteForce {
			e, err := svc.Get(cmd.Context(), appConfig.User, id)
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("Delete dream %s (%s)?", e.ID, e.Title)
			ok, err := ui.Confirm(prompt, ui.ResolveTheme(appConfig.Theme))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
		}
		return deleteRun(cmd.Context(), cmd.OutOrStdout(), id)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func deleteRun(ctx context.Context, w io.Writer, id string) error {
	if err := svc.Delete(ctx, appConfig.User, id); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	ui.FormatDreamDeleted(w, id)
	return nil
}
