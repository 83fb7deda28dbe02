package dream

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"long text", "I was flying over a beautiful city", "I was flying over..."},
		{"short text", "Falling   teeth", "Falling teeth..."},
		{"newlines count as spaces", "Lost\nin the\tforest again", "Lost in the forest..."},
		{"empty", "   ", DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoTitle(tt.text); got != tt.want {
				t.Errorf("AutoTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewDraft(t *testing.T) {
	e, err := New("user-1", "  I was chased through a maze  ", "", MoodScared, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ValidateID(e.ID); err != nil {
		t.Errorf("generated ID: %v", err)
	}
	if e.DreamText != "I was chased through a maze" {
		t.Errorf("dream text = %q, want trimmed text", e.DreamText)
	}
	if e.Title != "I was chased through..." {
		t.Errorf("title = %q", e.Title)
	}
	if !e.IsDraft() {
		t.Errorf("expected entry without interpretation to be a draft")
	}
	if !e.Date.Equal(e.UpdatedAt) {
		t.Errorf("date (%v) != updated_at (%v) on new entry", e.Date, e.UpdatedAt)
	}
}

func TestNewKeepsTitleAndInterpretation(t *testing.T) {
	e, err := New("user-1", "ocean dream", "The Tide", MoodPeaceful, "=== INTERPRETATION SECTION ===")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Title != "The Tide" {
		t.Errorf("title = %q, want %q", e.Title, "The Tide")
	}
	if e.IsDraft() {
		t.Error("entry with interpretation should not be a draft")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("user-1", " \n\t", "", MoodHappy, ""); err == nil {
		t.Error("expected error for empty dream text")
	}
	if _, err := New("", "a dream", "", MoodHappy, ""); err == nil {
		t.Error("expected error for empty user")
	}
	if _, err := New("user-1", "a dream", "", Mood("Grumpy"), ""); err == nil {
		t.Error("expected error for unknown mood")
	}
}

func TestNewDefaultsMood(t *testing.T) {
	e, err := New("user-1", "a dream", "", "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Mood != MoodPeaceful {
		t.Errorf("mood = %q, want %q", e.Mood, MoodPeaceful)
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"abc12345", "00000000"} {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q): %v", id, err)
		}
	}
	for _, id := range []string{"", "ABC12345", "abc1234", "abc-2345"} {
		if err := ValidateID(id); err == nil {
			t.Errorf("ValidateID(%q) should fail", id)
		}
	}
}

func TestPreview(t *testing.T) {
	e := Entry{DreamText: "line one\nline two"}
	if got := e.Preview(80); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}
	if got := e.Preview(10); got != "line on..." {
		t.Errorf("Preview(10) = %q", got)
	}
}

func TestPreviewMultiByte(t *testing.T) {
	e := Entry{DreamText: "ééééééééééé"}
	got := e.Preview(10)
	if !utf8.ValidString(got) {
		t.Fatalf("Preview produced invalid UTF-8: %q", got)
	}
	if got != "ééééééé..." {
		t.Errorf("Preview(10) = %q", got)
	}

	e = Entry{DreamText: "夢の中で空を飛んだ"}
	if got := e.Preview(9); got != "夢の中で空を飛んだ" {
		t.Errorf("Preview(9) = %q, want full text", got)
	}
	if got := e.Preview(2); got != "夢の" {
		t.Errorf("Preview(2) = %q", got)
	}
}

func TestMatches(t *testing.T) {
	e := Entry{Title: "Flying High", DreamText: "over the golden city", Mood: MoodExcited}
	for _, q := range []string{"flying", "GOLDEN", "excited", ""} {
		if !e.Matches(q) {
			t.Errorf("Matches(%q) = false, want true", q)
		}
	}
	if e.Matches("ocean") {
		t.Error("Matches(ocean) = true, want false")
	}
}

func TestParseMood(t *testing.T) {
	m, err := ParseMood("  anxious ")
	if err != nil {
		t.Fatalf("ParseMood: %v", err)
	}
	if m != MoodAnxious {
		t.Errorf("got %q, want %q", m, MoodAnxious)
	}
	_, err = ParseMood("meh")
	if err == nil || !strings.Contains(err.Error(), "Happy") {
		t.Errorf("expected error listing moods, got %v", err)
	}
}

func TestMoodsClosedSet(t *testing.T) {
	got := Moods()
	if len(got) != 10 {
		t.Fatalf("len(Moods()) = %d, want 10", len(got))
	}
	got[0] = "mutated"
	if Moods()[0] != MoodHappy {
		t.Error("Moods() must return a copy")
	}
}

func TestMoodTone(t *testing.T) {
	tests := map[Mood]Tone{
		MoodHappy:     TonePositive,
		MoodPeaceful:  TonePositive,
		MoodWorried:   ToneUneasy,
		MoodLonely:    ToneLow,
		MoodConfident: ToneDriven,
		Mood("Bored"): ToneNeutral,
	}
	for m, want := range tests {
		if got := m.Tone(); got != want {
			t.Errorf("%s.Tone() = %q, want %q", m, got, want)
		}
	}
}

func TestEntryJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Entry{ID: "abc12345", UserID: "u", DreamText: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"dream_text"`, `"user_id"`, `"interpretation"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing key %s", data, key)
		}
	}
}
