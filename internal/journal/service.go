// Package journal records dreams, asks the completion model to interpret them
// and keeps the stored entries in step with the result.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// ErrNoClient is returned by interpretation calls when no completion client
// was configured.
var ErrNoClient = errors.New("no completion client configured")

// Options tune the service. Zero values fall back to defaults.
type Options struct {
	Timeout     time.Duration // per completion call
	Concurrency int           // parallel calls in InterpretDrafts
}

const (
	defaultTimeout     = 60 * time.Second
	defaultConcurrency = 2
)

// Service is the only path through which dreams are created, interpreted and
// changed. It is safe for concurrent use.
type Service struct {
	store       storage.Storage
	client      completion.Client
	logger      *zap.Logger
	timeout     time.Duration
	concurrency int
}

// New wires a service. client may be nil for read-only use.
func New(store storage.Storage, client completion.Client, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Service{
		store:       store,
		client:      client,
		logger:      logger,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
	}
}

// RecordInput describes a newly told dream.
type RecordInput struct {
	UserID string
	Text   string
	Title  string     // empty = derived from the text
	Mood   dream.Mood // empty = Peaceful
	Defer  bool       // save as a draft without calling the model
}

// Record saves the dream as a draft first and then, unless in.Defer is set,
// interprets it. When interpretation fails the draft stays stored and is
// returned together with the error, so the dream text is never lost.
func (s *Service) Record(ctx context.Context, in RecordInput) (dream.Entry, error) {
	e, err := dream.New(in.UserID, in.Text, in.Title, in.Mood, "")
	if err != nil {
		return dream.Entry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	if _, err := s.store.Create(e); err != nil {
		return dream.Entry{}, err
	}
	s.logger.Info("dream recorded",
		zap.String("id", e.ID),
		zap.String("user", e.UserID),
		zap.String("mood", string(e.Mood)),
		zap.Bool("deferred", in.Defer),
	)

	if in.Defer {
		return e, nil
	}

	interpreted, err := s.interpret(ctx, e)
	if err != nil {
		return e, err
	}
	return interpreted, nil
}

// Interpret (re)interprets a stored dream owned by userID and persists the
// raw reply. Entries that already have an interpretation are overwritten.
func (s *Service) Interpret(ctx context.Context, userID, id string) (dream.Entry, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return dream.Entry{}, err
	}
	return s.interpret(ctx, e)
}

func (s *Service) interpret(ctx context.Context, e dream.Entry) (dream.Entry, error) {
	if s.client == nil {
		return e, ErrNoClient
	}

	log := s.logger.With(zap.String("id", e.ID))
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Send(callCtx, interpret.BuildPrompt(e.DreamText))
	if err != nil {
		log.Warn("interpretation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return e, fmt.Errorf("interpreting dream %s: %w", e.ID, err)
	}
	if strings.TrimSpace(reply) == "" {
		return e, fmt.Errorf("interpreting dream %s: %w", e.ID,
			&completion.Error{Kind: completion.KindEnvelope, Message: "empty completion"})
	}

	updated, err := s.store.Update(e.ID, storage.Patch{Interpretation: &reply})
	if err != nil {
		return e, fmt.Errorf("saving interpretation for %s: %w", e.ID, err)
	}

	r := interpret.Parse(reply)
	log.Info("dream interpreted",
		zap.Duration("elapsed", time.Since(start)),
		zap.Stringer("mode", r.Mode),
		zap.Int("sections", len(r.Interpretation)+len(r.Guidance)),
		zap.Int("symbols", len(r.Symbols)),
	)
	return updated, nil
}

// BatchResult reports the outcome of InterpretDrafts.
type BatchResult struct {
	Interpreted []dream.Entry
	Failed      map[string]error // by dream ID
}

// InterpretDrafts retries every draft owned by userID with bounded
// concurrency. Individual failures are collected rather than aborting the
// batch; the returned error is non-nil only if the drafts cannot be listed or
// ctx is cancelled.
func (s *Service) InterpretDrafts(ctx context.Context, userID string) (BatchResult, error) {
	result := BatchResult{Failed: map[string]error{}}
	if s.client == nil {
		return result, ErrNoClient
	}

	drafts, err := s.store.List(userID, storage.ListOptions{DraftsOnly: true})
	if err != nil {
		return result, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, d := range drafts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			updated, err := s.interpret(gctx, d)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[d.ID] = err
				return nil
			}
			result.Interpreted = append(result.Interpreted, updated)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.logger.Info("drafts interpreted",
		zap.String("user", userID),
		zap.Int("ok", len(result.Interpreted)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// EditInput lists the user-editable fields. Nil fields are unchanged.
type EditInput struct {
	Title *string
	Mood  *dream.Mood
}

// Edit changes the title and/or mood of a dream.
func (s *Service) Edit(ctx context.Context, userID, id string, in EditInput) (dream.Entry, error) {
	if in.Title == nil && in.Mood == nil {
		return dream.Entry{}, fmt.Errorf("%w: nothing to change", storage.ErrValidation)
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return dream.Entry{}, err
	}
	return s.store.Update(id, storage.Patch{Title: in.Title, Mood: in.Mood})
}

// Delete removes a dream owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("dream deleted", zap.String("id", id))
	return nil
}

// Get returns a dream owned by userID. Dreams of other users are reported as
// not found.
func (s *Service) Get(_ context.Context, userID, id string) (dream.Entry, error) {
	e, err := s.store.Get(id)
	if err != nil {
		return dream.Entry{}, err
	}
	if e.UserID != userID {
		return dream.Entry{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return e, nil
}

// List returns the user's dreams, newest first.
func (s *Service) List(_ context.Context, userID string, opts storage.ListOptions) ([]dream.Entry, error) {
	return s.store.List(userID, opts)
}

// Reading parses the stored reply of e. It is recomputed on every call so
// older entries benefit from parser changes.
func (s *Service) Reading(e dream.Entry) interpret.Reading {
	return interpret.Parse(e.Interpretation)
}

// Prompt returns the exact instruction text that would be sent for text.
func (s *Service) Prompt(text string) (string, error) {
	if err := dream.ValidateDreamText(text); err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	return interpret.BuildPrompt(strings.TrimSpace(text)), nil
}
