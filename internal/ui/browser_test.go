package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chris-regnier/dreamctl/internal/config"
	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

type fakeJournal struct {
	mu          sync.Mutex
	entries     []dream.Entry
	interpreted []string
	deleted     []string
	recorded    []string
	interpErr   error
}

func (f *fakeJournal) List(_ context.Context, _ string, _ storage.ListOptions) ([]dream.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dream.Entry(nil), f.entries...), nil
}

func (f *fakeJournal) Record(_ context.Context, in journal.RecordInput) (dream.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, in.Text)
	e := dream.Entry{ID: "newdream", Title: dream.AutoTitle(in.Text), DreamText: in.Text, Interpretation: dream.DraftInterpretation}
	return e, nil
}

func (f *fakeJournal) Interpret(_ context.Context, _ string, id string) (dream.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.interpErr != nil {
		return dream.Entry{}, f.interpErr
	}
	f.interpreted = append(f.interpreted, id)
	for _, e := range f.entries {
		if e.ID == id {
			e.Interpretation = interpret.MarkerInterpretation + "\nOverall Theme\nChange."
			return e, nil
		}
	}
	return dream.Entry{}, storage.ErrNotFound
}

func (f *fakeJournal) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJournal) Reading(e dream.Entry) interpret.Reading {
	return interpret.Parse(e.Interpretation)
}

func newTestBrowser(t *testing.T, j *fakeJournal) browserModel {
	t.Helper()
	m := newBrowserModel(j, BrowserConfig{
		UserID: "dreamer",
		Theme:  ResolveTheme(config.ThemeConfig{Preset: "default-dark"}),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, m.Init()())
	return m
}

func update(t *testing.T, m browserModel, msg tea.Msg) browserModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(browserModel)
}

// press sends a key and feeds the resulting command's message back in.
func press(t *testing.T, m browserModel, key tea.KeyMsg) browserModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(browserModel)
	if cmd == nil {
		return m
	}
	if msg := cmd(); msg != nil {
		switch msg.(type) {
		case interpretDoneMsg, recordDoneMsg, deleteDoneMsg:
			m = update(t, m, msg)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func browserEntries() []dream.Entry {
	return []dream.Entry{
		{ID: "aaaa1111", Title: "Ocean", DreamText: "waves", Mood: dream.MoodPeaceful, Interpretation: dream.DraftInterpretation},
		{ID: "bbbb2222", Title: "Forest", DreamText: "trees", Mood: dream.MoodLonely, Interpretation: "plain reply"},
	}
}

func TestBrowserListsDreams(t *testing.T) {
	m := newTestBrowser(t, &fakeJournal{entries: browserEntries()})

	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Ocean") || !strings.Contains(view, "Forest") {
		t.Errorf("view missing titles:\n%s", view)
	}
}

func TestBrowserOpenDetail(t *testing.T) {
	m := newTestBrowser(t, &fakeJournal{entries: browserEntries()})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenDetail || m.entry.ID != "aaaa1111" {
		t.Fatalf("screen = %v entry = %q", m.screen, m.entry.ID)
	}
	if !strings.Contains(stripANSI(m.View()), "Ocean") {
		t.Error("detail view should show the title")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenList {
		t.Error("esc should return to the list")
	}
}

func TestBrowserInterpret(t *testing.T) {
	j := &fakeJournal{entries: browserEntries()}
	m := newTestBrowser(t, j)

	m = press(t, m, runes("i"))
	if len(j.interpreted) != 1 || j.interpreted[0] != "aaaa1111" {
		t.Fatalf("interpreted = %v", j.interpreted)
	}
	if m.busy != "" || m.status != "interpreted aaaa1111" {
		t.Errorf("busy = %q status = %q", m.busy, m.status)
	}
}

func TestBrowserInterpretFailure(t *testing.T) {
	j := &fakeJournal{entries: browserEntries(), interpErr: errors.New("provider down")}
	m := newTestBrowser(t, j)

	m = press(t, m, runes("i"))
	if !strings.Contains(m.status, "provider down") {
		t.Errorf("status = %q", m.status)
	}
	if m.err != nil {
		t.Error("a failed interpretation should not end the session")
	}
}

func TestBrowserDeleteConfirm(t *testing.T) {
	j := &fakeJournal{entries: browserEntries()}
	m := newTestBrowser(t, j)

	m = press(t, m, runes("d"))
	if !m.deleteActive {
		t.Fatal("d should ask for confirmation")
	}
	if !strings.Contains(stripANSI(m.View()), "Delete dream aaaa1111?") {
		t.Error("confirmation prompt missing")
	}
	m = press(t, m, runes("n"))
	if m.deleteActive || len(j.deleted) != 0 {
		t.Fatalf("n should cancel, deleted = %v", j.deleted)
	}

	m = press(t, m, runes("d"))
	press(t, m, runes("y"))
	if len(j.deleted) != 1 || j.deleted[0] != "aaaa1111" {
		t.Errorf("deleted = %v", j.deleted)
	}
}

func TestBrowserRecord(t *testing.T) {
	j := &fakeJournal{entries: browserEntries()}
	m := newTestBrowser(t, j)

	m = press(t, m, runes("n"))
	if m.screen != screenRecord {
		t.Fatalf("screen = %v, want record", m.screen)
	}
	m = press(t, m, runes("a falling dream"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if len(j.recorded) != 1 || j.recorded[0] != "a falling dream" {
		t.Fatalf("recorded = %v", j.recorded)
	}
	if m.screen != screenDetail || m.entry.ID != "newdream" {
		t.Errorf("screen = %v entry = %q", m.screen, m.entry.ID)
	}
}

func TestBrowserRecordRejectsEmpty(t *testing.T) {
	j := &fakeJournal{}
	m := newTestBrowser(t, j)

	m = press(t, m, runes("n"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if len(j.recorded) != 0 {
		t.Error("empty dream should not be recorded")
	}
	if m.screen != screenRecord {
		t.Error("should stay on the record screen")
	}
}

func TestBrowserQuit(t *testing.T) {
	m := newTestBrowser(t, &fakeJournal{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
