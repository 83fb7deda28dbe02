package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole journal with parsed readings",
	Example: `  dreamctl export > dreams.json
  dreamctl export --format yaml --output dreams.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutput == "" || exportOutput == "-" {
			return exportRun(cmd.Context(), cmd.OutOrStdout(), exportFormat)
		}
		f, err := os.Create(exportOutput)
		if err != nil {
			return failure(fmt.Errorf("creating %s: %w", exportOutput, err))
		}
		if err := exportRun(cmd.Context(), f, exportFormat); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return failure(err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported journal to %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json|yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func exportRun(ctx context.Context, w io.Writer, format string) error {
	var write func(io.Writer, any) error
	switch format {
	case "json":
		write = ui.FormatJSON
	case "yaml", "yml":
		write = ui.FormatYAML
	default:
		return fmt.Errorf("%w: unknown export format %q (use json or yaml)", storage.ErrValidation, format)
	}

	entries, err := svc.List(ctx, appConfig.User, storage.ListOptions{})
	if err != nil {
		return failure(err)
	}
	details := make([]ui.DreamDetail, 0, len(entries))
	for _, e := range entries {
		details = append(details, ui.ToDetail(e, svc.Reading(e)))
	}
	return write(w, struct {
		User   string           `json:"user" yaml:"user"`
		Moods  []dream.Mood     `json:"moods" yaml:"moods"`
		Dreams []ui.DreamDetail `json:"dreams" yaml:"dreams"`
	}{appConfig.User, dream.Moods(), details})
}
