package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chris-regnier/dreamctl/internal/dream"
)

// PrepareEntry assigns a fresh ID when e has none and then validates e.
func PrepareEntry(e *dream.Entry) error {
	if e.ID == "" {
		id, err := dream.NewID()
		if err != nil {
			return fmt.Errorf("%w: generating ID: %v", ErrStorage, err)
		}
		e.ID = id
	}
	return ValidateEntry(*e)
}

// ValidateEntry checks the fields every backend requires before Create.
func ValidateEntry(e dream.Entry) error {
	if err := dream.ValidateID(e.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := dream.ValidateUserID(e.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := dream.ValidateDreamText(e.DreamText); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := dream.ParseMood(string(e.Mood)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ValidatePatch rejects empty patches and patches that would blank a field or
// set an unknown mood. Values are normalised in place.
func ValidatePatch(p *Patch) error {
	if p.Empty() {
		return fmt.Errorf("%w: nothing to change", ErrValidation)
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		p.Title = &t
	}
	if p.Mood != nil {
		m, err := dream.ParseMood(string(*p.Mood))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		p.Mood = &m
	}
	if p.Interpretation != nil && strings.TrimSpace(*p.Interpretation) == "" {
		return fmt.Errorf("%w: interpretation must not be empty", ErrValidation)
	}
	return nil
}

// ApplyPatch copies the set fields of p onto e and stamps UpdatedAt.
func ApplyPatch(e *dream.Entry, p Patch, now time.Time) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Interpretation != nil {
		e.Interpretation = *p.Interpretation
	}
	e.UpdatedAt = now
}

// Now returns the current time at the precision backends persist.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Matches reports whether e belongs to userID and passes the filters of opts.
func Matches(e dream.Entry, userID string, opts ListOptions) bool {
	if e.UserID != userID {
		return false
	}
	if opts.Mood != "" && e.Mood != opts.Mood {
		return false
	}
	if opts.DraftsOnly && !e.IsDraft() {
		return false
	}
	if opts.Since != nil && e.Date.Before(*opts.Since) {
		return false
	}
	if opts.Until != nil && !e.Date.Before(*opts.Until) {
		return false
	}
	return true
}

// SortAndPage orders entries newest first and applies Offset and Limit.
func SortAndPage(entries []dream.Entry, opts ListOptions) []dream.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Date.After(entries[j].Date)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(entries) {
			return []dream.Entry{}
		}
		entries = entries[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(entries) {
		entries = entries[:opts.Limit]
	}
	if entries == nil {
		entries = []dream.Entry{}
	}
	return entries
}
