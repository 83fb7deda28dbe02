package markdown

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"gopkg.in/yaml.v3"
)

// Store implements storage.Storage using one Markdown file per dream. The
// front-matter holds the metadata and the model's interpretation; the body
// holds the dream text exactly as recorded.
type Store struct {
	mu      sync.Mutex
	baseDir string // e.g. ~/.dreamctl/dreams/
}

var _ storage.Storage = (*Store)(nil)

// New creates a new Markdown file storage backend.
func New(dataDir string) (*Store, error) {
	baseDir := filepath.Join(dataDir, "dreams")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating dreams directory: %v", storage.ErrStorage, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Close is a no-op for the Markdown backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) entryPath(e dream.Entry) string {
	t := e.Date.UTC()
	return filepath.Join(s.baseDir, t.Format("2006"), t.Format("01"), t.Format("02"), e.ID+".md")
}

type frontMatter struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title"`
	UserID         string `yaml:"user_id"`
	Mood           string `yaml:"mood"`
	Date           string `yaml:"date"`
	UpdatedAt      string `yaml:"updated_at"`
	Interpretation string `yaml:"interpretation"`
}

func marshal(e dream.Entry) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		ID:             e.ID,
		Title:          e.Title,
		UserID:         e.UserID,
		Mood:           string(e.Mood),
		Date:           e.Date.UTC().Format(storage.TimeLayout),
		UpdatedAt:      e.UpdatedAt.UTC().Format(storage.TimeLayout),
		Interpretation: e.Interpretation,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding front-matter: %v", storage.ErrStorage, err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(e.DreamText)
	b.WriteString("\n")
	return b.Bytes(), nil
}

func unmarshal(data []byte) (dream.Entry, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: parsing front-matter: %v", storage.ErrStorage, err)
	}
	if fm.ID == "" {
		return dream.Entry{}, fmt.Errorf("%w: front-matter has no id", storage.ErrStorage)
	}
	date, err := time.Parse(storage.TimeLayout, fm.Date)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: parsing date: %v", storage.ErrStorage, err)
	}
	updatedAt, err := time.Parse(storage.TimeLayout, fm.UpdatedAt)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: parsing updated_at: %v", storage.ErrStorage, err)
	}

	return dream.Entry{
		ID:             fm.ID,
		Title:          fm.Title,
		DreamText:      strings.TrimSpace(string(body)),
		Interpretation: fm.Interpretation,
		Date:           date,
		UpdatedAt:      updatedAt,
		Mood:           dream.Mood(fm.Mood),
		UserID:         fm.UserID,
	}, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", storage.ErrStorage, err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: acquiring lock: %v", storage.ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", storage.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", storage.ErrStorage, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", storage.ErrStorage, err)
	}

	return nil
}

// Create persists a new dream as a Markdown file.
func (s *Store) Create(e dream.Entry) (string, error) {
	if err := storage.PrepareEntry(&e); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findEntryPath(e.ID); err == nil {
		return "", fmt.Errorf("%w: dream %s already exists", storage.ErrConflict, e.ID)
	}

	data, err := marshal(e)
	if err != nil {
		return "", err
	}
	if err := atomicWrite(s.entryPath(e), data); err != nil {
		return "", err
	}
	return e.ID, nil
}

// Get retrieves a dream by ID by scanning the directory tree.
func (s *Store) Get(id string) (dream.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *Store) get(id string) (dream.Entry, error) {
	path, err := s.findEntryPath(id)
	if err != nil {
		return dream.Entry{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: reading file: %v", storage.ErrStorage, err)
	}
	return unmarshal(data)
}

// findEntryPath locates the file for a given dream ID.
func (s *Store) findEntryPath(id string) (string, error) {
	if err := dream.ValidateID(id); err != nil {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	var found string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == id+".md" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: scanning dreams: %v", storage.ErrStorage, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return found, nil
}

// List returns the user's dreams matching opts, newest first.
func (s *Store) List(userID string, opts storage.ListOptions) ([]dream.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []dream.Entry
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}
		e, err := unmarshal(data)
		if err != nil {
			return nil // skip malformed files
		}

		if storage.Matches(e, userID, opts) {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing dreams: %v", storage.ErrStorage, err)
	}

	return storage.SortAndPage(entries, opts), nil
}

// Update rewrites the mutable fields of an existing dream.
func (s *Store) Update(id string, p storage.Patch) (dream.Entry, error) {
	if err := storage.ValidatePatch(&p); err != nil {
		return dream.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findEntryPath(id)
	if err != nil {
		return dream.Entry{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: reading file: %v", storage.ErrStorage, err)
	}
	e, err := unmarshal(data)
	if err != nil {
		return dream.Entry{}, err
	}

	storage.ApplyPatch(&e, p, storage.Now())

	out, err := marshal(e)
	if err != nil {
		return dream.Entry{}, err
	}
	if err := atomicWrite(path, out); err != nil {
		return dream.Entry{}, err
	}
	return e, nil
}

// Delete removes a dream file permanently.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findEntryPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: deleting file: %v", storage.ErrStorage, err)
	}
	return nil
}
