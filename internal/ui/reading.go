package ui

import (
	"fmt"
	"strings"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
)

// DraftNotice is shown in place of an interpretation for drafts.
const DraftNotice = "_Not interpreted yet. Run `dreamctl interpret <id>` to ask for a reading._"

// ReadingMarkdown renders a dream and its reading as markdown. Structured
// replies are laid out section by section with at most
// interpret.MaxDisplaySymbols symbols; anything else is shown verbatim.
func ReadingMarkdown(e dream.Entry, r interpret.Reading) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", e.Title)
	b.WriteString(quote(e.DreamText))
	b.WriteString("\n\n")

	if e.IsDraft() {
		b.WriteString(DraftNotice)
		b.WriteString("\n")
		return b.String()
	}

	if !r.Structured() {
		b.WriteString("## Interpretation\n\n")
		b.WriteString(strings.TrimSpace(r.Raw))
		b.WriteString("\n")
		return b.String()
	}

	writeSections(&b, "Interpretation", r.Interpretation, r.InterpretationText)

	if symbols := r.DisplaySymbols(); len(symbols) > 0 {
		b.WriteString("## Symbols\n\n")
		for _, s := range symbols {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Meaning)
		}
		b.WriteString("\n")
	}

	writeSections(&b, "Lucid Dream Guidance", r.Guidance, r.GuidanceText)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeSections falls back to the block text when no heading matched.
func writeSections(b *strings.Builder, title string, sections []interpret.Section, fallback string) {
	if len(sections) == 0 && fallback == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(sections) == 0 {
		b.WriteString(fallback)
		b.WriteString("\n\n")
		return
	}
	for _, s := range sections {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", s.Heading, s.Body)
	}
}

func quote(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("> "+l, " ")
	}
	return strings.Join(lines, "\n")
}
