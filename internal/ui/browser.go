package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// Journal is the subset of the journal service the browser drives.
type Journal interface {
	List(ctx context.Context, userID string, opts storage.ListOptions) ([]dream.Entry, error)
	Record(ctx context.Context, in journal.RecordInput) (dream.Entry, error)
	Interpret(ctx context.Context, userID, id string) (dream.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	Reading(e dream.Entry) interpret.Reading
}

// BrowserConfig configures RunBrowser.
type BrowserConfig struct {
	UserID   string
	MaxWidth int // 0 = no limit
	Theme    Theme
}

type browserScreen int

const (
	screenList browserScreen = iota
	screenDetail
	screenRecord
)

const maxDreamInputLength = 10000

// dreamItem implements list.Item for dream.Entry.
type dreamItem struct {
	entry dream.Entry
}

func (d dreamItem) Title() string {
	marker := "●"
	if d.entry.IsDraft() {
		marker = "○"
	}
	return fmt.Sprintf("%s %s  %s", marker, d.entry.Date.Local().Format("2006-01-02"), d.entry.Title)
}

func (d dreamItem) Description() string {
	return fmt.Sprintf("%s · %s", d.entry.Mood, d.entry.Preview(70))
}

func (d dreamItem) FilterValue() string {
	return d.entry.Title + " " + string(d.entry.Mood) + " " + d.entry.DreamText
}

type dreamsLoadedMsg struct {
	entries []dream.Entry
	err     error
}

type interpretDoneMsg struct {
	entry dream.Entry
	err   error
}

type recordDoneMsg struct {
	entry dream.Entry
	err   error
}

type deleteDoneMsg struct {
	id  string
	err error
}

type browserModel struct {
	journal Journal
	cfg     BrowserConfig
	screen  browserScreen

	list     list.Model
	viewport viewport.Model
	input    textarea.Model
	entry    dream.Entry

	deleteActive bool
	busy         string // non-empty while a model call is in flight
	status       string

	width  int
	height int
	ready  bool
	err    error
}

func newBrowserModel(j Journal, cfg BrowserConfig) browserModel {
	l := cfg.Theme.NewList(nil, 0, 0)
	l.Title = "Dreams"
	l.SetShowHelp(false)
	return browserModel{journal: j, cfg: cfg, screen: screenList, list: l}
}

func (m browserModel) Init() tea.Cmd {
	return m.loadDreams
}

func (m browserModel) loadDreams() tea.Msg {
	entries, err := m.journal.List(context.Background(), m.cfg.UserID, storage.ListOptions{})
	return dreamsLoadedMsg{entries: entries, err: err}
}

func (m browserModel) interpretCmd(id string) tea.Cmd {
	return func() tea.Msg {
		e, err := m.journal.Interpret(context.Background(), m.cfg.UserID, id)
		return interpretDoneMsg{entry: e, err: err}
	}
}

func (m browserModel) recordCmd(text string) tea.Cmd {
	return func() tea.Msg {
		e, err := m.journal.Record(context.Background(), journal.RecordInput{
			UserID: m.cfg.UserID,
			Text:   text,
		})
		return recordDoneMsg{entry: e, err: err}
	}
}

func (m browserModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: m.journal.Delete(context.Background(), m.cfg.UserID, id)}
	}
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case dreamsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = dreamItem{entry: e}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case interpretDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.status = "interpretation failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "interpreted " + msg.entry.ID
		if m.screen == screenDetail && m.entry.ID == msg.entry.ID {
			m.showDetail(msg.entry)
		}
		return m, m.loadDreams

	case recordDoneMsg:
		m.busy = ""
		if msg.err != nil && msg.entry.ID == "" {
			m.status = "not saved: " + msg.err.Error()
			return m, nil
		}
		if msg.err != nil {
			m.status = "saved as draft: " + msg.err.Error()
		} else {
			m.status = "recorded " + msg.entry.ID
		}
		m.showDetail(msg.entry)
		return m, m.loadDreams

	case deleteDoneMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "deleted " + msg.id
		m.screen = screenList
		return m, m.loadDreams

	case tea.KeyMsg:
		if m.deleteActive {
			return m.updateDeleteConfirm(msg)
		}
		switch m.screen {
		case screenList:
			return m.updateList(msg)
		case screenDetail:
			return m.updateDetail(msg)
		case screenRecord:
			return m.updateRecord(msg)
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenList:
		m.list, cmd = m.list.Update(msg)
	case screenDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case screenRecord:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m browserModel) selected() (dream.Entry, bool) {
	item, ok := m.list.SelectedItem().(dreamItem)
	return item.entry, ok
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if e, ok := m.selected(); ok {
			m.showDetail(e)
		}
		return m, nil
	case "n":
		return m.startRecord()
	case "i":
		if e, ok := m.selected(); ok && m.busy == "" {
			m.busy = e.ID
			m.status = "interpreting " + e.ID + "..."
			return m, m.interpretCmd(e.ID)
		}
		return m, nil
	case "d":
		if e, ok := m.selected(); ok {
			m.entry = e
			m.deleteActive = true
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenList
		return m, nil
	case "i":
		if m.busy == "" {
			m.busy = m.entry.ID
			m.status = "interpreting " + m.entry.ID + "..."
			return m, m.interpretCmd(m.entry.ID)
		}
		return m, nil
	case "d":
		m.deleteActive = true
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browserModel) updateRecord(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "ctrl+s":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "dream text must not be empty"
			return m, nil
		}
		m.busy = "new"
		m.status = "interpreting..."
		m.screen = screenList
		return m, m.recordCmd(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browserModel) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.deleteActive = false
	if strings.ToLower(msg.String()) == "y" {
		return m, m.deleteCmd(m.entry.ID)
	}
	return m, nil
}

func (m browserModel) startRecord() (tea.Model, tea.Cmd) {
	ta := textarea.New()
	ta.Placeholder = "Describe your dream..."
	ta.CharLimit = maxDreamInputLength
	ta.SetWidth(max(m.contentWidth()-4, 10))
	ta.SetHeight(max(m.height-6, 3))
	ta.Focus()
	m.input = ta
	m.screen = screenRecord
	return m, textarea.Blink
}

func (m *browserModel) showDetail(e dream.Entry) {
	m.entry = e
	m.screen = screenDetail
	m.viewport = viewport.New(m.contentWidth(), max(m.height-4, 1))
	body := RenderMarkdownWithStyle(ReadingMarkdown(e, m.journal.Reading(e)), m.contentWidth(), m.cfg.Theme.MarkdownStyle)
	m.viewport.SetContent(body)
}

func (m *browserModel) layout() {
	m.list.SetSize(m.contentWidth(), max(m.height-3, 1))
	if m.screen == screenDetail {
		m.viewport.Width = m.contentWidth()
		m.viewport.Height = max(m.height-4, 1)
	}
}

func (m browserModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m browserModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	t := m.cfg.Theme
	cw := m.contentWidth()

	var result string
	switch m.screen {
	case screenList:
		footer := t.HelpStyle().Width(cw).Render("↑/↓ navigate • enter open • n new • i interpret • d delete • / filter • q quit")
		result = m.list.View() + "\n" + footer
	case screenDetail:
		header := t.HeaderStyle().Width(cw).Render(m.entry.Title)
		meta := t.HelpStyle().Width(cw).Render(fmt.Sprintf("%s  %s  %s",
			m.entry.ID, m.entry.Date.Local().Format("2006-01-02 15:04"), t.MoodBadge(m.entry.Mood)))
		footer := t.HelpStyle().Width(cw).Render("↑/↓ scroll • i interpret • d delete • esc back • q quit")
		result = header + "\n" + meta + "\n" + m.viewport.View() + "\n" + footer
	case screenRecord:
		header := t.HeaderStyle().Width(cw).Render("New dream  " + time.Now().Format("2006-01-02"))
		footer := t.HelpStyle().Width(cw).Render("ctrl+s save & interpret • esc cancel")
		result = header + "\n" + m.input.View() + "\n" + footer
	}

	if m.deleteActive {
		result += "\n" + t.DangerStyle().Width(cw).Render(fmt.Sprintf("Delete dream %s? [y/N] ", m.entry.ID))
	} else if m.status != "" {
		result += "\n" + t.AccentStyle().Width(cw).Render(m.status)
	}
	return result
}

// RunBrowser launches the interactive dream browser.
func RunBrowser(j Journal, cfg BrowserConfig) error {
	result, err := tea.NewProgram(newBrowserModel(j, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if bm, ok := result.(browserModel); ok && bm.err != nil {
		return bm.err
	}
	return nil
}
