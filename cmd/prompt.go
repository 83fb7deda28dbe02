package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [text...]",
	Short: "Print the instructions that would be sent to the model",
	Long: `Print the exact prompt built for a dream without calling the model.
Pass the dream as arguments or use '-' to read it from stdin.`,
	Example: `  dreamctl prompt "I was flying over a city made of glass"
  cat dream.txt | dreamctl prompt -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 1 && args[0] == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		}
		return promptRun(cmd.OutOrStdout(), text)
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func promptRun(w io.Writer, text string) error {
	p, err := svc.Prompt(text)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, p)
	return err
}
