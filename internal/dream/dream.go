package dream

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8

	// DraftInterpretation is stored in place of a model reply until the dream
	// has been interpreted.
	DraftInterpretation = "Draft - No interpretation yet"

	// DefaultTitle is used when the dream text yields no words for a title.
	DefaultTitle = "My Dream"

	titleWords = 4
)

var idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// Entry is a single recorded dream.
type Entry struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	DreamText      string    `json:"dream_text" yaml:"dream_text"`
	Interpretation string    `json:"interpretation" yaml:"interpretation"`
	Date           time.Time `json:"date" yaml:"date"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
	Mood           Mood      `json:"mood" yaml:"mood"`
	UserID         string    `json:"user_id" yaml:"user_id"`
}

// NewID generates a new nanoid for a dream entry.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid dream ID: %q (must be 8 lowercase alphanumeric characters)", id)
	}
	return nil
}

// ValidateDreamText checks whether the dream narrative is non-empty.
func ValidateDreamText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("dream text must not be empty")
	}
	return nil
}

// ValidateUserID checks that an owning user is set.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user ID must not be empty")
	}
	return nil
}

// AutoTitle derives a title from the first few words of the dream text.
func AutoTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return DefaultTitle
	}
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "..."
}

// New builds a validated entry ready to be persisted. An empty title falls
// back to AutoTitle, an empty mood to MoodPeaceful, and an empty
// interpretation to the draft sentinel.
func New(userID, text, title string, mood Mood, interpretation string) (Entry, error) {
	if err := ValidateUserID(userID); err != nil {
		return Entry{}, err
	}
	if err := ValidateDreamText(text); err != nil {
		return Entry{}, err
	}
	if mood == "" {
		mood = MoodPeaceful
	}
	if _, err := ParseMood(string(mood)); err != nil {
		return Entry{}, err
	}

	id, err := NewID()
	if err != nil {
		return Entry{}, fmt.Errorf("generating ID: %w", err)
	}

	text = strings.TrimSpace(text)
	title = strings.TrimSpace(title)
	if title == "" {
		title = AutoTitle(text)
	}
	if strings.TrimSpace(interpretation) == "" {
		interpretation = DraftInterpretation
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	return Entry{
		ID:             id,
		Title:          title,
		DreamText:      text,
		Interpretation: interpretation,
		Date:           now,
		UpdatedAt:      now,
		Mood:           mood,
		UserID:         userID,
	}, nil
}

// IsDraft reports whether the entry is still waiting for an interpretation.
func (e Entry) IsDraft() bool {
	return e.Interpretation == DraftInterpretation
}

// Preview returns a single-line preview of the dream text, at most maxLen
// characters long.
func (e Entry) Preview(maxLen int) string {
	content := []rune(strings.Join(strings.Fields(e.DreamText), " "))
	if len(content) <= maxLen {
		return string(content)
	}
	if maxLen <= 3 {
		return string(content[:max(maxLen, 0)])
	}
	return string(content[:maxLen-3]) + "..."
}

// Matches reports whether query occurs in the title, dream text or mood,
// ignoring case. An empty query matches everything.
func (e Entry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.DreamText), q) ||
		strings.Contains(strings.ToLower(string(e.Mood)), q)
}
