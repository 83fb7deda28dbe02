// Package firestore stores dreams as documents in a Cloud Firestore
// collection, one document per dream keyed by its ID.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// DefaultCollection is the collection the mobile app wrote to.
const DefaultCollection = "dreams"

// Store implements storage.Storage on top of Firestore.
type Store struct {
	client     *firestore.Client
	collection string
}

var _ storage.Storage = (*Store)(nil)

// New opens a Firestore client for projectID. Credentials come from the
// environment (Application Default Credentials or FIRESTORE_EMULATOR_HOST).
func New(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: firestore.project_id is required for the firestore backend", storage.ErrStorage)
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: creating firestore client: %v", storage.ErrStorage, err)
	}
	return &Store{client: client, collection: collection}, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *Store) doc(id string) *firestore.DocumentRef {
	return s.col().Doc(id)
}

type dreamDoc struct {
	UserID         string    `firestore:"user_id"`
	Title          string    `firestore:"title"`
	DreamText      string    `firestore:"dream_text"`
	Interpretation string    `firestore:"interpretation"`
	Mood           string    `firestore:"mood"`
	Date           time.Time `firestore:"date"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func toDoc(e dream.Entry) dreamDoc {
	return dreamDoc{
		UserID:         e.UserID,
		Title:          e.Title,
		DreamText:      e.DreamText,
		Interpretation: e.Interpretation,
		Mood:           string(e.Mood),
		Date:           e.Date.UTC(),
		UpdatedAt:      e.UpdatedAt.UTC(),
	}
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (dream.Entry, error) {
	var d dreamDoc
	if err := snap.DataTo(&d); err != nil {
		return dream.Entry{}, fmt.Errorf("%w: decoding dream %s: %v", storage.ErrStorage, snap.Ref.ID, err)
	}
	return dream.Entry{
		ID:             snap.Ref.ID,
		Title:          d.Title,
		DreamText:      d.DreamText,
		Interpretation: d.Interpretation,
		Date:           d.Date.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		Mood:           dream.Mood(d.Mood),
		UserID:         d.UserID,
	}, nil
}

// mapError converts gRPC status codes into storage sentinels.
func mapError(op, id string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: dream %s already exists", storage.ErrConflict, id)
	case codes.Aborted:
		return fmt.Errorf("%w: %s %s: %v", storage.ErrConflict, op, id, err)
	default:
		return fmt.Errorf("%w: firestore %s: %v", storage.ErrStorage, op, err)
	}
}

// Create writes a new document and fails if the ID is taken.
func (s *Store) Create(e dream.Entry) (string, error) {
	if err := storage.PrepareEntry(&e); err != nil {
		return "", err
	}
	ctx := context.Background()

	if _, err := s.doc(e.ID).Create(ctx, toDoc(e)); err != nil {
		return "", mapError("create", e.ID, err)
	}
	return e.ID, nil
}

// Get reads a single document.
func (s *Store) Get(id string) (dream.Entry, error) {
	ctx := context.Background()

	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		return dream.Entry{}, mapError("get", id, err)
	}
	return fromSnapshot(snap)
}

// List queries the user's dreams ordered by date, newest first.
func (s *Store) List(userID string, opts storage.ListOptions) ([]dream.Entry, error) {
	ctx := context.Background()

	q := s.col().Where("user_id", "==", userID)
	if opts.Mood != "" {
		q = q.Where("mood", "==", string(opts.Mood))
	}
	if opts.DraftsOnly {
		q = q.Where("interpretation", "==", dream.DraftInterpretation)
	}
	if opts.Since != nil {
		q = q.Where("date", ">=", opts.Since.UTC())
	}
	if opts.Until != nil {
		q = q.Where("date", "<", opts.Until.UTC())
	}
	q = q.OrderBy("date", firestore.Desc)
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []dream.Entry{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, mapError("list", userID, err)
		}
		e, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update applies p inside a transaction so concurrent edits serialize.
func (s *Store) Update(id string, p storage.Patch) (dream.Entry, error) {
	if err := storage.ValidatePatch(&p); err != nil {
		return dream.Entry{}, err
	}
	ctx := context.Background()
	ref := s.doc(id)

	var updated dream.Entry
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		e, err := fromSnapshot(snap)
		if err != nil {
			return err
		}
		storage.ApplyPatch(&e, p, storage.Now())

		if err := tx.Update(ref, []firestore.Update{
			{Path: "title", Value: e.Title},
			{Path: "mood", Value: string(e.Mood)},
			{Path: "interpretation", Value: e.Interpretation},
			{Path: "updated_at", Value: e.UpdatedAt},
		}); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrStorage) {
			return dream.Entry{}, err
		}
		return dream.Entry{}, mapError("update", id, err)
	}
	return updated, nil
}

// Delete removes the document, failing with ErrNotFound if it is missing.
func (s *Store) Delete(id string) error {
	ctx := context.Background()

	if _, err := s.doc(id).Delete(ctx, firestore.Exists); err != nil {
		return mapError("delete", id, err)
	}
	return nil
}
