package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Fuzzy-search dream titles, text and moods",
	Example: `  dreamctl search flying
  dreamctl search "glass city" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return searchRun(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func searchRun(ctx context.Context, w io.Writer, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: empty search query", storage.ErrValidation)
	}
	hits, err := svc.Search(ctx, appConfig.User, query, searchLimit)
	if err != nil {
		return failure(err)
	}

	if jsonOutput {
		if hits == nil {
			hits = []journal.SearchResult{}
		}
		return ui.FormatJSON(w, hits)
	}
	ui.FormatSearchResults(w, hits)
	return nil
}
