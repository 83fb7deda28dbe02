package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/dreamctl/internal/config"
	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/journal"
)

var outputDate = time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)

func outputEntries() []dream.Entry {
	return []dream.Entry{
		{
			ID: "aaaa1111", Title: "Ocean", DreamText: "waves everywhere",
			Interpretation: interpret.MarkerInterpretation + "\nOverall Theme\nCalm.",
			Mood:           dream.MoodPeaceful, Date: outputDate, UpdatedAt: outputDate,
		},
		{
			ID: "bbbb2222", Title: "Chase", DreamText: "running from a shadow",
			Interpretation: dream.DraftInterpretation,
			Mood:           dream.MoodScared, Date: outputDate, UpdatedAt: outputDate,
		},
	}
}

func TestFormatDreamList(t *testing.T) {
	var buf bytes.Buffer
	FormatDreamList(&buf, outputEntries())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], " aaaa1111") || !strings.Contains(lines[0], "Ocean") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "*bbbb2222") {
		t.Errorf("drafts should be marked, got %q", lines[1])
	}
}

func TestFormatDreamListEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatDreamList(&buf, nil)
	if buf.String() != "No dreams found.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatIDs(t *testing.T) {
	var buf bytes.Buffer
	FormatIDs(&buf, outputEntries())
	if buf.String() != "aaaa1111\nbbbb2222\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatConfirmations(t *testing.T) {
	e := outputEntries()[1]
	var buf bytes.Buffer

	FormatDreamRecorded(&buf, e)
	FormatDreamDeleted(&buf, e.ID)
	FormatNoChanges(&buf, e.ID)

	out := buf.String()
	for _, want := range []string{"Recorded dream bbbb2222", "draft", "Deleted dream bbbb2222.", "No changes for dream bbbb2222."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestFormatDreamFull(t *testing.T) {
	e := outputEntries()[0]
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark", MarkdownStyle: "notty"})

	var buf bytes.Buffer
	FormatDreamFull(&buf, e, interpret.Parse(e.Interpretation), theme, 80)

	out := stripANSI(buf.String())
	for _, want := range []string{"Dream: aaaa1111", "Mood: Peaceful", "Ocean", "Overall Theme", "Calm."} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Modified:") {
		t.Error("unmodified dream should not print a Modified line")
	}
}

func TestFormatMoods(t *testing.T) {
	var buf bytes.Buffer
	FormatMoods(&buf, ResolveTheme(config.ThemeConfig{}))

	out := stripANSI(buf.String())
	if countLines(strings.TrimSpace(out)) != len(dream.Moods()) {
		t.Errorf("expected one line per mood, got:\n%s", out)
	}
	if !strings.Contains(out, "Anxious") || !strings.Contains(out, "uneasy") {
		t.Errorf("missing mood or tone in:\n%s", out)
	}
}

func TestFormatSearchResults(t *testing.T) {
	var buf bytes.Buffer
	FormatSearchResults(&buf, []journal.SearchResult{{Entry: outputEntries()[1], Score: 10}})
	if !strings.Contains(buf.String(), "bbbb2222") || !strings.Contains(buf.String(), "running from a shadow") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	FormatSearchResults(&buf, nil)
	if buf.String() != "No matching dreams.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatBatch(t *testing.T) {
	var buf bytes.Buffer
	FormatBatch(&buf, journal.BatchResult{
		Interpreted: outputEntries()[:1],
		Failed: map[string]error{
			"zzzz9999": errors.New("timeout"),
			"cccc3333": errors.New("bad gateway"),
		},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "cccc3333") || !strings.Contains(lines[2], "zzzz9999") {
		t.Errorf("failures should be sorted by ID: %q", lines)
	}

	buf.Reset()
	FormatBatch(&buf, journal.BatchResult{})
	if buf.String() != "No drafts to interpret.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestToSummaries(t *testing.T) {
	got := ToSummaries(outputEntries())
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Draft || !got[1].Draft {
		t.Errorf("draft flags = %v, %v", got[0].Draft, got[1].Draft)
	}
	if got[1].Preview != "running from a shadow" {
		t.Errorf("preview = %q", got[1].Preview)
	}
}

func TestDreamDetailJSON(t *testing.T) {
	entries := outputEntries()

	var buf bytes.Buffer
	if err := FormatJSON(&buf, ToDetail(entries[0], interpret.Parse(entries[0].Interpretation))); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["id"] != "aaaa1111" || decoded["dream_text"] != "waves everywhere" {
		t.Errorf("entry fields not promoted: %v", decoded)
	}
	reading, ok := decoded["reading"].(map[string]any)
	if !ok {
		t.Fatalf("reading missing: %v", decoded)
	}
	if reading["mode"] != "structured" {
		t.Errorf("reading mode = %v", reading["mode"])
	}

	buf.Reset()
	if err := FormatJSON(&buf, ToDetail(entries[1], interpret.Parse(entries[1].Interpretation))); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	if strings.Contains(buf.String(), `"reading"`) {
		t.Errorf("draft should have no reading: %s", buf.String())
	}
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatYAML(&buf, ToSummaries(outputEntries())); err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}
	var decoded []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[1]["id"] != "bbbb2222" || decoded[1]["draft"] != true {
		t.Errorf("decoded = %v", decoded)
	}
}
