package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var interpretDrafts bool

var interpretCmd = &cobra.Command{
	Use:   "interpret [id]",
	Short: "Interpret a dream, or retry every draft",
	Long: `Ask the model to interpret a stored dream. An existing interpretation is
replaced. With --drafts every dream still waiting for an interpretation is
retried; failures are reported per dream and do not stop the batch.`,
	Example: `  dreamctl interpret a3kf9x2m
  dreamctl interpret --drafts`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if interpretDrafts {
			if len(args) > 0 {
				return fmt.Errorf("%w: --drafts takes no dream ID", storage.ErrValidation)
			}
			return interpretDraftsRun(cmd.Context(), cmd.OutOrStdout())
		}
		if len(args) == 0 {
			return fmt.Errorf("%w: a dream ID or --drafts is required", storage.ErrValidation)
		}
		return interpretRun(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	interpretCmd.Flags().BoolVar(&interpretDrafts, "drafts", false, "interpret every draft")
	rootCmd.AddCommand(interpretCmd)
}

func interpretRun(ctx context.Context, w io.Writer, id string) error {
	e, err := svc.Interpret(ctx, appConfig.User, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, journal.ErrNoClient) {
			return explain(err)
		}
		return failure(err)
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToDetail(e, svc.Reading(e)))
	}
	ui.FormatDreamInterpreted(w, e)
	return nil
}

func interpretDraftsRun(ctx context.Context, w io.Writer) error {
	res, err := svc.InterpretDrafts(ctx, appConfig.User)
	if err != nil {
		if errors.Is(err, journal.ErrNoClient) {
			return explain(err)
		}
		return failure(err)
	}

	if jsonOutput {
		failed := make(map[string]string, len(res.Failed))
		for id, ferr := range res.Failed {
			failed[id] = ferr.Error()
		}
		if err := ui.FormatJSON(w, map[string]any{
			"interpreted": ui.ToSummaries(res.Interpreted),
			"failed":      failed,
		}); err != nil {
			return err
		}
	} else {
		ui.FormatBatch(w, res)
	}

	if len(res.Failed) > 0 {
		return failure(fmt.Errorf("%d of %d drafts could not be interpreted",
			len(res.Failed), len(res.Failed)+len(res.Interpreted)))
	}
	return nil
}
