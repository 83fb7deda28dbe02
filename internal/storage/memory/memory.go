package memory

import (
	"fmt"
	"sync"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// Store is an in-memory implementation of storage.Storage.
// It is NOT persistent and is only suitable for tests and demo servers.
type Store struct {
	mu      sync.RWMutex
	entries map[string]dream.Entry
}

var _ storage.Storage = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]dream.Entry)}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Create saves a new dream.
func (s *Store) Create(e dream.Entry) (string, error) {
	if err := storage.PrepareEntry(&e); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.ID]; exists {
		return "", fmt.Errorf("%w: dream %s already exists", storage.ErrConflict, e.ID)
	}
	s.entries[e.ID] = e
	return e.ID, nil
}

// Get returns a copy of the stored dream.
func (s *Store) Get(id string) (dream.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return dream.Entry{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return e, nil
}

// List returns the user's dreams matching opts, newest first.
func (s *Store) List(userID string, opts storage.ListOptions) ([]dream.Entry, error) {
	s.mu.RLock()
	out := make([]dream.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if storage.Matches(e, userID, opts) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	return storage.SortAndPage(out, opts), nil
}

// Update applies p to an existing dream.
func (s *Store) Update(id string, p storage.Patch) (dream.Entry, error) {
	if err := storage.ValidatePatch(&p); err != nil {
		return dream.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return dream.Entry{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	storage.ApplyPatch(&e, p, storage.Now())
	s.entries[id] = e
	return e, nil
}

// Delete removes a dream.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	delete(s.entries, id)
	return nil
}
