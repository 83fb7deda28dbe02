package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// DefaultMaxWidth caps the pager width when no max_width is configured.
const DefaultMaxWidth = 100

type pagerModel struct {
	viewport viewport.Model
	content  string
	title    string
	theme    Theme
	ready    bool
	maxWidth int // 0 = no limit
	width    int
	height   int
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - m.chromeHeight()
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.contentWidth(), h)
			m.ready = true
		} else {
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// chromeHeight is the number of lines taken by the title and footer.
func (m pagerModel) chromeHeight() int {
	if m.title != "" {
		return 2
	}
	return 1
}

func (m pagerModel) contentWidth() int {
	if m.maxWidth > 0 && m.width > m.maxWidth {
		return m.maxWidth
	}
	return m.width
}

// centerContent pads every line so the content sits in the middle of a
// terminal wider than maxWidth.
func (m pagerModel) centerContent(content string) string {
	if m.maxWidth <= 0 || m.width <= m.maxWidth {
		return content
	}
	leftPadding := (m.width - m.maxWidth) / 2
	if leftPadding <= 0 {
		return content
	}

	padding := strings.Repeat(" ", leftPadding)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = padding + line
	}
	return strings.Join(lines, "\n")
}

func (m pagerModel) View() string {
	if !m.ready {
		return m.centerContent("Loading...")
	}
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.theme.HeaderStyle().Render(m.title))
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.theme.HelpStyle().Render(fmt.Sprintf("↑/↓ scroll • q quit • %3.f%%", m.viewport.ScrollPercent()*100)))
	return m.centerContent(b.String())
}

// Pager writes long output through an interactive viewport when stdout is a
// terminal.
type Pager struct {
	Theme    Theme
	MaxWidth int
	Title    string
}

// Page writes content to w, switching to the full-screen pager only when w is
// the terminal's stdout and the content is taller than the screen.
func (p Pager) Page(w io.Writer, content string) error {
	if w != os.Stdout || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprint(w, content)
		return err
	}

	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || strings.Count(content, "\n")+1 <= height-2 {
		_, err := fmt.Fprint(w, content)
		return err
	}

	maxWidth := p.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	m := pagerModel{content: content, title: p.Title, theme: p.Theme, maxWidth: maxWidth}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// OutputOrPage writes content to w, using the pager if appropriate.
// JSON output is never paged.
func OutputOrPage(w io.Writer, content string, jsonOutput bool, p Pager) error {
	if jsonOutput {
		_, err := fmt.Fprint(w, content)
		return err
	}
	return p.Page(w, content)
}
