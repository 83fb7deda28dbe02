package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// Exit codes.
const (
	ExitUser    = 1 // bad input, not found, nothing configured
	ExitFailure = 2 // storage or provider failure
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// failure marks err as a system failure.
func failure(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: ExitFailure, err: err}
}

// ExitCode maps an error returned by Execute onto the process exit code.
func ExitCode(err error) int {
	var ee *exitError
	var ce *completion.Error
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrValidation),
		errors.Is(err, journal.ErrNoClient):
		return ExitUser
	case errors.Is(err, storage.ErrStorage),
		errors.Is(err, storage.ErrConflict),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &ce):
		return ExitFailure
	default:
		return ExitUser
	}
}

// explain adds the reason no completion client could be built.
func explain(err error) error {
	if errors.Is(err, journal.ErrNoClient) && clientErr != nil {
		return fmt.Errorf("%w: %v", err, clientErr)
	}
	return err
}
