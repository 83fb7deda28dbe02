package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
	theme     Theme
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.confirmed, m.done = true, true
			return m, tea.Quit
		case "n", "enter", "esc", "ctrl+c":
			m.confirmed, m.done = false, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary)
	return fmt.Sprintf("%s %s ",
		promptStyle.Render(m.prompt),
		m.theme.DangerStyle().Render("[y/N]"),
	)
}

// Confirm asks a yes/no question and defaults to no. On a terminal it uses
// an interactive prompt; otherwise it reads one line from stdin.
func Confirm(prompt string, theme Theme) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ConfirmFrom(os.Stdin, os.Stderr, prompt)
	}
	result, err := tea.NewProgram(confirmModel{prompt: prompt, theme: theme}).Run()
	if err != nil {
		return false, err
	}
	return result.(confirmModel).confirmed, nil
}

// ConfirmFrom writes prompt to w and reads an answer line from r. Only "y"
// or "yes" confirm.
func ConfirmFrom(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
