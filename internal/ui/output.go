package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/journal"
)

const stampLayout = "2006-01-02 15:04"

func stamp(t time.Time) string {
	return t.Local().Format(stampLayout)
}

func status(e dream.Entry) string {
	if e.IsDraft() {
		return "draft"
	}
	return "interpreted"
}

// FormatDreamRecorded formats a confirmation for a newly saved dream.
func FormatDreamRecorded(w io.Writer, e dream.Entry) {
	fmt.Fprintf(w, "Recorded dream %s (%s, %s)\n", e.ID, stamp(e.Date), status(e))
}

// FormatDreamInterpreted formats a confirmation for a fresh interpretation.
func FormatDreamInterpreted(w io.Writer, e dream.Entry) {
	fmt.Fprintf(w, "Interpreted dream %s (%s)\n", e.ID, e.Title)
}

// FormatDreamUpdated formats an update confirmation message.
func FormatDreamUpdated(w io.Writer, e dream.Entry) {
	fmt.Fprintf(w, "Updated dream %s (%s)\n", e.ID, stamp(e.UpdatedAt))
}

// FormatDreamDeleted formats a deletion confirmation message.
func FormatDreamDeleted(w io.Writer, id string) {
	fmt.Fprintf(w, "Deleted dream %s.\n", id)
}

// FormatNoChanges formats a "no changes" message.
func FormatNoChanges(w io.Writer, id string) {
	fmt.Fprintf(w, "No changes for dream %s.\n", id)
}

// FormatDreamFull writes the metadata header followed by the rendered
// dream and reading.
func FormatDreamFull(w io.Writer, e dream.Entry, r interpret.Reading, theme Theme, width int) {
	fmt.Fprintf(w, "Dream: %s\n", e.ID)
	fmt.Fprintf(w, "Date: %s\n", stamp(e.Date))
	if !e.UpdatedAt.Equal(e.Date) {
		fmt.Fprintf(w, "Modified: %s\n", stamp(e.UpdatedAt))
	}
	fmt.Fprintf(w, "Mood: %s\n", theme.MoodBadge(e.Mood))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMarkdownWithStyle(ReadingMarkdown(e, r), width, theme.MarkdownStyle))
}

// FormatDreamList formats a list of dreams, one per line.
func FormatDreamList(w io.Writer, entries []dream.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No dreams found.")
		return
	}
	for _, e := range entries {
		marker := " "
		if e.IsDraft() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%s  %s  %-10s  %s\n",
			marker,
			e.ID,
			stamp(e.Date),
			e.Mood,
			e.Title,
		)
	}
}

// FormatIDs writes one dream ID per line.
func FormatIDs(w io.Writer, entries []dream.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.ID)
	}
}

// FormatMoods lists every mood with its tone.
func FormatMoods(w io.Writer, theme Theme) {
	for _, m := range dream.Moods() {
		fmt.Fprintf(w, "%-10s  %s\n", theme.MoodBadge(m), m.Tone())
	}
}

// FormatSearchResults writes ranked hits with a text preview.
func FormatSearchResults(w io.Writer, hits []journal.SearchResult) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No matching dreams.")
		return
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s  %s  %s\n    %s\n",
			h.Entry.ID,
			stamp(h.Entry.Date),
			h.Entry.Title,
			h.Entry.Preview(72),
		)
	}
}

// FormatBatch summarises a bulk interpretation run. Failures are listed in
// ID order.
func FormatBatch(w io.Writer, res journal.BatchResult) {
	if len(res.Interpreted) == 0 && len(res.Failed) == 0 {
		fmt.Fprintln(w, "No drafts to interpret.")
		return
	}
	for _, e := range res.Interpreted {
		fmt.Fprintf(w, "interpreted  %s  %s\n", e.ID, e.Title)
	}
	ids := make([]string, 0, len(res.Failed))
	for id := range res.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "failed       %s  %v\n", id, res.Failed[id])
	}
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatYAML writes any value as YAML to the writer.
func FormatYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// DreamSummary is a JSON representation for list output.
type DreamSummary struct {
	ID      string     `json:"id" yaml:"id"`
	Title   string     `json:"title" yaml:"title"`
	Mood    dream.Mood `json:"mood" yaml:"mood"`
	Draft   bool       `json:"draft" yaml:"draft"`
	Preview string     `json:"preview" yaml:"preview"`
	Date    time.Time  `json:"date" yaml:"date"`
}

// ToSummaries converts entries to summary format for JSON list output.
func ToSummaries(entries []dream.Entry) []DreamSummary {
	summaries := make([]DreamSummary, len(entries))
	for i, e := range entries {
		summaries[i] = DreamSummary{
			ID:      e.ID,
			Title:   e.Title,
			Mood:    e.Mood,
			Draft:   e.IsDraft(),
			Preview: e.Preview(60),
			Date:    e.Date,
		}
	}
	return summaries
}

// DreamDetail is the JSON representation of a dream with its parsed reading.
type DreamDetail struct {
	dream.Entry `yaml:",inline"`
	Draft       bool               `json:"draft" yaml:"draft"`
	Reading     *interpret.Reading `json:"reading,omitempty" yaml:"reading,omitempty"`
}

// ToDetail attaches the reading unless the entry is a draft.
func ToDetail(e dream.Entry, r interpret.Reading) DreamDetail {
	d := DreamDetail{Entry: e, Draft: e.IsDraft()}
	if !e.IsDraft() {
		d.Reading = &r
	}
	return d
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
