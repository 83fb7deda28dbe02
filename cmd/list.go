package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

type listOptions struct {
	mood   string
	drafts bool
	since  string
	until  string
	limit  int
	offset int
	idOnly bool
}

var listFlags listOptions

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded dreams",
	Long:  "List dreams, newest first. Drafts still waiting for an interpretation are marked with '*'.",
	Example: `  dreamctl list
  dreamctl list --mood anxious
  dreamctl list --drafts --id-only
  dreamctl list --since 2025-01-01 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd.Context(), cmd.OutOrStdout(), listFlags)
	},
}

func init() {
	listCmd.Flags().StringVar(&listFlags.mood, "mood", "", "only dreams with this mood")
	listCmd.Flags().BoolVar(&listFlags.drafts, "drafts", false, "only dreams without an interpretation")
	listCmd.Flags().StringVar(&listFlags.since, "since", "", "only dreams on or after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFlags.until, "until", "", "only dreams on or before this date (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listFlags.limit, "limit", 0, "maximum number of dreams (0 = all)")
	listCmd.Flags().IntVar(&listFlags.offset, "offset", 0, "skip this many dreams")
	listCmd.Flags().BoolVar(&listFlags.idOnly, "id-only", false, "print just dream IDs, one per line")
	rootCmd.AddCommand(listCmd)
}

func (o listOptions) storageOptions() (storage.ListOptions, error) {
	opts := storage.ListOptions{DraftsOnly: o.drafts, Limit: o.limit, Offset: o.offset}
	if o.limit < 0 || o.offset < 0 {
		return opts, fmt.Errorf("%w: --limit and --offset must not be negative", storage.ErrValidation)
	}
	if o.mood != "" {
		m, err := dream.ParseMood(o.mood)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", storage.ErrValidation, err)
		}
		opts.Mood = m
	}
	if o.since != "" {
		t, err := parseDay(o.since)
		if err != nil {
			return opts, err
		}
		opts.Since = &t
	}
	if o.until != "" {
		t, err := parseDay(o.until)
		if err != nil {
			return opts, err
		}
		t = t.AddDate(0, 0, 1)
		opts.Until = &t
	}
	return opts, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format (use YYYY-MM-DD): %s", storage.ErrValidation, s)
	}
	return t, nil
}

func listRun(ctx context.Context, w io.Writer, o listOptions) error {
	opts, err := o.storageOptions()
	if err != nil {
		return err
	}

	entries, err := svc.List(ctx, appConfig.User, opts)
	if err != nil {
		return failure(err)
	}

	switch {
	case o.idOnly:
		ui.FormatIDs(w, entries)
		return nil
	case jsonOutput:
		return ui.FormatJSON(w, ui.ToSummaries(entries))
	}

	var buf bytes.Buffer
	ui.FormatDreamList(&buf, entries)
	return ui.OutputOrPage(w, buf.String(), false, pager(""))
}

func pager(title string) ui.Pager {
	return ui.Pager{Theme: ui.ResolveTheme(appConfig.Theme), MaxWidth: appConfig.MaxWidth, Title: title}
}
