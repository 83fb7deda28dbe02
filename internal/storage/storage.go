package storage

import (
	"errors"
	"time"

	"github.com/chris-regnier/dreamctl/internal/dream"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("dream not found")
	ErrConflict   = errors.New("concurrent write conflict")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// TimeLayout is the fixed-width UTC timestamp format used by backends that
// store times as text. It sorts lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// ListOptions controls filtering and paging for List. Results are always
// ordered by Date, newest first.
type ListOptions struct {
	Mood       dream.Mood // exact mood filter ("" = any)
	DraftsOnly bool       // only entries still awaiting interpretation
	Since      *time.Time // inclusive lower bound on Date
	Until      *time.Time // exclusive upper bound on Date
	Limit      int        // 0 = no limit
	Offset     int        // pagination offset
}

// Patch lists the mutable fields of an entry. Nil fields are left unchanged.
// The dream text, owner and recording date never change after creation.
type Patch struct {
	Title          *string
	Mood           *dream.Mood
	Interpretation *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Mood == nil && p.Interpretation == nil
}

// Storage defines the interface for dream entry persistence.
type Storage interface {
	// Create persists e and returns the identifier it is stored under.
	Create(e dream.Entry) (string, error)
	Get(id string) (dream.Entry, error)
	// List returns the entries owned by userID.
	List(userID string, opts ListOptions) ([]dream.Entry, error)
	// Update applies p to the entry and bumps UpdatedAt.
	Update(id string, p Patch) (dream.Entry, error)
	Delete(id string) error
	Close() error
}
