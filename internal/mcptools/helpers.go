package mcptools

import (
	"time"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
)

const (
	defaultLimit  = 10
	previewLength = 100
)

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func toDreamResult(e dream.Entry) DreamResult {
	return DreamResult{
		ID:      e.ID,
		Title:   e.Title,
		Mood:    string(e.Mood),
		Date:    e.Date.Local().Format("2006-01-02"),
		Draft:   e.IsDraft(),
		Preview: e.Preview(previewLength),
	}
}

// toReadingResult caps symbols the same way the terminal view does.
func toReadingResult(r interpret.Reading) ReadingResult {
	out := ReadingResult{
		Structured:     r.Structured(),
		Interpretation: make([]SectionResult, 0, len(r.Interpretation)),
		Symbols:        make([]SymbolResult, 0, len(r.Symbols)),
		Guidance:       make([]SectionResult, 0, len(r.Guidance)),
		Raw:            r.Raw,
	}
	for _, s := range r.Interpretation {
		out.Interpretation = append(out.Interpretation, SectionResult{Heading: s.Heading, Body: s.Body})
	}
	for _, s := range r.DisplaySymbols() {
		out.Symbols = append(out.Symbols, SymbolResult{Symbol: s.Name, Meaning: s.Meaning})
	}
	for _, s := range r.Guidance {
		out.Guidance = append(out.Guidance, SectionResult{Heading: s.Heading, Body: s.Body})
	}
	return out
}
