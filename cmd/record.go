package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/editor"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

type recordOptions struct {
	title    string
	mood     string
	deferred bool
}

var recordFlags recordOptions

var recordCmd = &cobra.Command{
	Use:     "record [text...]",
	Aliases: []string{"add", "new"},
	Short:   "Record a dream and interpret it",
	Long: `Record a new dream. The text comes from the arguments, from stdin when the
only argument is "-", or from your editor when no argument is given.

The dream is saved first and then interpreted. If interpretation fails the
dream stays saved as a draft; run 'dreamctl interpret <id>' to retry.`,
	Example: `  dreamctl record "I was flying over a city made of glass" --mood excited
  echo "Lost in a forest" | dreamctl record - --defer
  dreamctl record --title "The Flood"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := dreamText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if text == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing recorded.")
			return nil
		}
		return recordRun(cmd.Context(), cmd.OutOrStdout(), text, recordFlags)
	},
}

func init() {
	recordCmd.Flags().StringVarP(&recordFlags.title, "title", "t", "", "title (default: first words of the dream)")
	recordCmd.Flags().StringVarP(&recordFlags.mood, "mood", "m", "", "how you felt (see 'dreamctl moods')")
	recordCmd.Flags().BoolVar(&recordFlags.deferred, "defer", false, "save as a draft without interpreting")
	rootCmd.AddCommand(recordCmd)
}

// dreamText resolves the dream from args, stdin or the editor.
func dreamText(in io.Reader, args []string) (string, error) {
	switch {
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) > 0:
		return strings.TrimSpace(strings.Join(args, " ")), nil
	case !term.IsTerminal(int(os.Stdin.Fd())):
		return "", fmt.Errorf("%w: no dream text given (pass it as arguments or use '-' for stdin)", storage.ErrValidation)
	default:
		return editor.ComposeDream(editor.ResolveEditor(appConfig.Editor))
	}
}

func recordRun(ctx context.Context, w io.Writer, text string, o recordOptions) error {
	var mood dream.Mood
	if o.mood != "" {
		m, err := dream.ParseMood(o.mood)
		if err != nil {
			return fmt.Errorf("%w: %v", storage.ErrValidation, err)
		}
		mood = m
	}

	e, err := svc.Record(ctx, journal.RecordInput{
		UserID: appConfig.User,
		Text:   text,
		Title:  o.title,
		Mood:   mood,
		Defer:  o.deferred,
	})
	if e.ID == "" {
		return err
	}

	if jsonOutput {
		if ferr := ui.FormatJSON(w, ui.ToDetail(e, svc.Reading(e))); ferr != nil {
			return ferr
		}
	} else {
		ui.FormatDreamRecorded(w, e)
	}

	if err != nil {
		if errors.Is(err, journal.ErrNoClient) {
			return fmt.Errorf("dream saved as draft %s: %w", e.ID, explain(err))
		}
		return failure(fmt.Errorf("dream saved as draft %s, interpretation failed: %w", e.ID, err))
	}
	if !jsonOutput && !e.IsDraft() {
		fmt.Fprintf(w, "Run 'dreamctl show %s' to read the interpretation.\n", e.ID)
	}
	return nil
}
