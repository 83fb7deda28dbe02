package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
	_ "github.com/tursodatabase/go-libsql"
)

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db *sql.DB
}

var _ storage.Storage = (*Store)(nil)

// New creates a new SQLite storage backend.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, "dreamctl.db")
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}
	// One connection serializes writers; last write wins.
	db.SetMaxOpenConns(1)

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS dreams (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			title          TEXT NOT NULL,
			dream_text     TEXT NOT NULL CHECK(length(trim(dream_text)) > 0),
			interpretation TEXT NOT NULL,
			mood           TEXT NOT NULL,
			date           TEXT NOT NULL,
			updated_at     TEXT NOT NULL,
			CHECK(date <= updated_at)
		);
		CREATE INDEX IF NOT EXISTS idx_dreams_user_date ON dreams(user_id, date DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = "SELECT id, user_id, title, dream_text, interpretation, mood, date, updated_at FROM dreams"

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (dream.Entry, error) {
	var e dream.Entry
	var mood, dateStr, updatedStr string
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.DreamText, &e.Interpretation, &mood, &dateStr, &updatedStr); err != nil {
		return dream.Entry{}, err
	}
	e.Mood = dream.Mood(mood)

	var err error
	e.Date, err = time.Parse(storage.TimeLayout, dateStr)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: parsing date: %v", storage.ErrStorage, err)
	}
	e.UpdatedAt, err = time.Parse(storage.TimeLayout, updatedStr)
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: parsing updated_at: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// Create persists a new dream.
func (s *Store) Create(e dream.Entry) (string, error) {
	if err := storage.PrepareEntry(&e); err != nil {
		return "", err
	}

	_, err := s.db.Exec(
		"INSERT INTO dreams (id, user_id, title, dream_text, interpretation, mood, date, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID,
		e.UserID,
		e.Title,
		e.DreamText,
		e.Interpretation,
		string(e.Mood),
		e.Date.UTC().Format(storage.TimeLayout),
		e.UpdatedAt.UTC().Format(storage.TimeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", fmt.Errorf("%w: dream %s already exists", storage.ErrConflict, e.ID)
		}
		return "", fmt.Errorf("%w: inserting dream: %v", storage.ErrStorage, err)
	}
	return e.ID, nil
}

// Get retrieves a dream by ID.
func (s *Store) Get(id string) (dream.Entry, error) {
	e, err := scanEntry(s.db.QueryRow(selectColumns+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dream.Entry{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		if errors.Is(err, storage.ErrStorage) {
			return dream.Entry{}, err
		}
		return dream.Entry{}, fmt.Errorf("%w: querying dream: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// List returns the user's dreams matching opts, newest first.
func (s *Store) List(userID string, opts storage.ListOptions) ([]dream.Entry, error) {
	query := selectColumns + " WHERE user_id = ?"
	args := []interface{}{userID}

	if opts.Mood != "" {
		query += " AND mood = ?"
		args = append(args, string(opts.Mood))
	}
	if opts.DraftsOnly {
		query += " AND interpretation = ?"
		args = append(args, dream.DraftInterpretation)
	}
	if opts.Since != nil {
		query += " AND date >= ?"
		args = append(args, opts.Since.UTC().Format(storage.TimeLayout))
	}
	if opts.Until != nil {
		query += " AND date < ?"
		args = append(args, opts.Until.UTC().Format(storage.TimeLayout))
	}

	query += " ORDER BY date DESC, id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing dreams: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	entries := []dream.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", storage.ErrStorage, err)
	}
	return entries, nil
}

// Update applies p to an existing dream inside a transaction.
func (s *Store) Update(id string, p storage.Patch) (dream.Entry, error) {
	if err := storage.ValidatePatch(&p); err != nil {
		return dream.Entry{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	e, err := scanEntry(tx.QueryRow(selectColumns+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dream.Entry{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return dream.Entry{}, fmt.Errorf("%w: checking dream: %v", storage.ErrStorage, err)
	}

	storage.ApplyPatch(&e, p, storage.Now())

	if _, err := tx.Exec(
		"UPDATE dreams SET title = ?, mood = ?, interpretation = ?, updated_at = ? WHERE id = ?",
		e.Title, string(e.Mood), e.Interpretation, e.UpdatedAt.Format(storage.TimeLayout), id,
	); err != nil {
		return dream.Entry{}, fmt.Errorf("%w: updating dream: %v", storage.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return dream.Entry{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// Delete removes a dream permanently.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM dreams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting dream: %v", storage.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
