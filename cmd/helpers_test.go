package cmd

import (
	"context"
	"testing"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/config"
	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage/memory"
)

const testUser = "dreamer"

// setupTestEnv installs a fresh in-memory journal answered by client. A nil
// client leaves the journal read-only.
func setupTestEnv(t *testing.T, client completion.Client) {
	t.Helper()
	s := memory.New()
	t.Cleanup(func() { s.Close() })

	store = s
	svc = journal.New(s, client, nil, journal.Options{})
	appConfig = &config.Config{User: testUser, MaxWidth: 100}
	jsonOutput = false
	clientErr = nil
	showRaw = false
	searchLimit = 10
	interpretDrafts = false
}

func seedDream(t *testing.T, text string, mood dream.Mood, interpreted bool) dream.Entry {
	t.Helper()
	e, err := svc.Record(context.Background(), journal.RecordInput{
		UserID: testUser,
		Text:   text,
		Mood:   mood,
		Defer:  !interpreted,
	})
	if err != nil {
		t.Fatalf("seeding dream: %v", err)
	}
	return e
}
