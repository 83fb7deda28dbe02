package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
)

func readingEntry(interpretation string) dream.Entry {
	return dream.Entry{
		ID:             "abc12345",
		Title:          "Flying Over Water",
		DreamText:      "I was flying\nover a dark lake",
		Interpretation: interpretation,
		Mood:           dream.MoodExcited,
	}
}

func TestReadingMarkdownStructured(t *testing.T) {
	raw := `=== INTERPRETATION SECTION ===
Overall Theme
You sought freedom.
Emotional Journey
Joy gave way to calm.
=== LUCID DREAM GUIDANCE ===
Reality Check Triggers
Look at the water twice.
=== SYMBOLS FORMAT ===
Symbol: Flying | Meaning: desire for freedom
Symbol: Lake | Meaning: hidden feelings
`
	e := readingEntry(raw)
	got := ReadingMarkdown(e, interpret.Parse(raw))

	for _, want := range []string{
		"# Flying Over Water",
		"> I was flying\n> over a dark lake",
		"## Interpretation",
		"### Overall Theme\n\nYou sought freedom.",
		"### Emotional Journey\n\nJoy gave way to calm.",
		"## Symbols",
		"- **Flying**: desire for freedom",
		"- **Lake**: hidden feelings",
		"## Lucid Dream Guidance",
		"### Reality Check Triggers\n\nLook at the water twice.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, interpret.MarkerInterpretation) {
		t.Error("markers should not be rendered")
	}
	if strings.Index(got, "## Symbols") > strings.Index(got, "## Lucid Dream Guidance") {
		t.Error("symbols should come before guidance")
	}
}

func TestReadingMarkdownCapsSymbols(t *testing.T) {
	var b strings.Builder
	b.WriteString(interpret.MarkerInterpretation + "\nOverall Theme\nMany images.\n")
	b.WriteString(interpret.MarkerSymbols + "\n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&b, "Symbol: S%d | Meaning: m%d\n", i, i)
	}
	raw := b.String()

	got := ReadingMarkdown(readingEntry(raw), interpret.Parse(raw))
	if n := strings.Count(got, "- **S"); n != interpret.MaxDisplaySymbols {
		t.Errorf("rendered %d symbols, want %d", n, interpret.MaxDisplaySymbols)
	}
	if strings.Contains(got, "S6") {
		t.Error("sixth symbol should not be shown")
	}
}

func TestReadingMarkdownUnstructured(t *testing.T) {
	raw := "Your dream is about change.\nTrust the process."
	got := ReadingMarkdown(readingEntry(raw), interpret.Parse(raw))

	if !strings.Contains(got, "## Interpretation\n\n"+raw) {
		t.Errorf("expected raw reply verbatim, got:\n%s", got)
	}
	if strings.Contains(got, "## Symbols") || strings.Contains(got, "Lucid Dream Guidance") {
		t.Error("unstructured reply should not produce sub-sections")
	}
}

func TestReadingMarkdownBlockWithoutHeadings(t *testing.T) {
	raw := interpret.MarkerInterpretation + "\nJust a paragraph with no headings."
	got := ReadingMarkdown(readingEntry(raw), interpret.Parse(raw))

	if !strings.Contains(got, "## Interpretation\n\nJust a paragraph with no headings.") {
		t.Errorf("expected block text fallback, got:\n%s", got)
	}
}

func TestReadingMarkdownDraft(t *testing.T) {
	e := readingEntry(dream.DraftInterpretation)
	got := ReadingMarkdown(e, interpret.Parse(e.Interpretation))

	if !strings.Contains(got, DraftNotice) {
		t.Errorf("expected draft notice, got:\n%s", got)
	}
	if strings.Contains(got, dream.DraftInterpretation) {
		t.Error("draft sentinel should not be shown as an interpretation")
	}
}
