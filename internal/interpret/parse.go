package interpret

import (
	"fmt"
	"sort"
	"strings"
)

// Mode says how much structure Parse recovered.
type Mode int

const (
	// ModeUnstructured means the interpretation marker was missing and the
	// reply must be shown verbatim.
	ModeUnstructured Mode = iota
	// ModeStructured means the reply was split into its blocks.
	ModeStructured
)

func (m Mode) String() string {
	if m == ModeStructured {
		return "structured"
	}
	return "unstructured"
}

// MarshalText renders the mode as its name in JSON and YAML output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "structured":
		*m = ModeStructured
	case "unstructured":
		*m = ModeUnstructured
	default:
		return fmt.Errorf("unknown reading mode %q", b)
	}
	return nil
}

// Section is a heading with the body text that followed it.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Symbol is one glossary line: a dream image and its short meaning.
type Symbol struct {
	Name    string `json:"symbol"`
	Meaning string `json:"meaning"`
}

// Reading is the structured view of a raw model reply. It is derived on
// demand and never persisted.
type Reading struct {
	Mode Mode   `json:"mode"`
	Raw  string `json:"raw"`

	// Block contents after the level-1 split, trimmed. Empty when the
	// block's marker is missing.
	InterpretationText string `json:"interpretation_text,omitempty"`
	GuidanceText       string `json:"guidance_text,omitempty"`
	SymbolsText        string `json:"symbols_text,omitempty"`

	Interpretation []Section `json:"interpretation"`
	Symbols        []Symbol  `json:"symbols"`
	Guidance       []Section `json:"guidance"`
}

// Structured reports whether the reply carried the interpretation marker.
func (r Reading) Structured() bool {
	return r.Mode == ModeStructured
}

// DisplaySymbols returns at most MaxDisplaySymbols symbols for rendering.
func (r Reading) DisplaySymbols() []Symbol {
	if len(r.Symbols) <= MaxDisplaySymbols {
		return r.Symbols
	}
	return r.Symbols[:MaxDisplaySymbols]
}

// Parse splits a raw reply into its blocks and sub-parses each one. It never
// fails: missing markers, headings or separators only make the result
// coarser. Parse keeps no state between calls.
func Parse(raw string) Reading {
	r := Reading{Raw: raw}
	if !strings.Contains(raw, MarkerInterpretation) {
		r.Mode = ModeUnstructured
		return r
	}
	r.Mode = ModeStructured

	blocks := splitBlocks(raw, MarkerInterpretation, MarkerGuidance, MarkerSymbols)
	r.InterpretationText = blocks[MarkerInterpretation]
	r.GuidanceText = blocks[MarkerGuidance]
	r.SymbolsText = blocks[MarkerSymbols]

	r.Interpretation = ParseSections(r.InterpretationText, interpretationHeadings)
	r.Guidance = ParseSections(r.GuidanceText, guidanceHeadings)
	r.Symbols = ParseSymbols(r.SymbolsText)
	return r
}

// splitBlocks locates each marker by first occurrence and cuts the text
// between the end of a marker and the start of the next marker found after
// it, or the end of input. Markers that are absent have no entry.
func splitBlocks(raw string, markers ...string) map[string]string {
	type found struct {
		marker string
		start  int
	}
	var hits []found
	for _, m := range markers {
		if i := strings.Index(raw, m); i >= 0 {
			hits = append(hits, found{marker: m, start: i})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	blocks := make(map[string]string, len(hits))
	for i, h := range hits {
		from := h.start + len(h.marker)
		end := len(raw)
		if i+1 < len(hits) {
			end = max(hits[i+1].start, from)
		}
		blocks[h.marker] = strings.TrimSpace(raw[from:end])
	}
	return blocks
}

// ParseSections scans text line by line and groups body lines under the
// whitelisted heading that precedes them. Lines before the first heading are
// dropped; a section is emitted only if its body is non-empty. Order follows
// the text and repeated headings each produce their own section.
func ParseSections(text string, headings []string) []Section {
	known := make(map[string]struct{}, len(headings))
	for _, h := range headings {
		known[h] = struct{}{}
	}

	var (
		sections []Section
		heading  string
		body     []string
	)
	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if heading != "" && content != "" {
			sections = append(sections, Section{Heading: heading, Body: content})
		}
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if _, ok := known[trimmed]; ok {
			flush()
			heading = trimmed
			body = body[:0]
			continue
		}
		if trimmed == "" || heading == "" {
			continue
		}
		body = append(body, trimmed)
	}
	flush()

	return sections
}

// ParseSymbols extracts "Symbol: X | Meaning: Y" pairs. Lines without the
// separator, or with an empty symbol or meaning once labels are stripped, are
// skipped. No upper bound is applied.
func ParseSymbols(text string) []Symbol {
	var symbols []Symbol
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, symbolSep) {
			continue
		}
		left, right, _ := strings.Cut(line, symbolSep)
		name := stripLabel(strings.TrimSpace(left), SymbolLabel)
		meaning := stripLabel(strings.TrimSpace(right), MeaningLabel)
		if name == "" || meaning == "" {
			continue
		}
		symbols = append(symbols, Symbol{Name: name, Meaning: meaning})
	}
	return symbols
}

// stripLabel removes a leading label such as "Symbol:" (any case) and trims
// what remains.
func stripLabel(s, label string) string {
	if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
		s = s[len(label):]
	}
	return strings.TrimSpace(s)
}

// splitLines splits on \n and drops the \r of CRLF endings.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
