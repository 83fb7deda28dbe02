package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
	"github.com/chris-regnier/dreamctl/internal/ui"
)

func TestRecordInterprets(t *testing.T) {
	setupTestEnv(t, completion.NewMockClient())

	var buf bytes.Buffer
	err := recordRun(context.Background(), &buf, "I was flying over a city of glass", recordOptions{mood: "excited"})
	if err != nil {
		t.Fatalf("recordRun: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Recorded dream") || !strings.Contains(out, "interpreted") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "dreamctl show") {
		t.Errorf("expected a hint to show the reading, got:\n%s", out)
	}
}

func TestRecordDeferKeepsDraft(t *testing.T) {
	mock := completion.NewMockClient()
	setupTestEnv(t, mock)

	var buf bytes.Buffer
	if err := recordRun(context.Background(), &buf, "Lost in a forest", recordOptions{deferred: true}); err != nil {
		t.Fatalf("recordRun: %v", err)
	}
	if !strings.Contains(buf.String(), "draft") {
		t.Errorf("expected draft status, got %q", buf.String())
	}
	if n := len(mock.Prompts()); n != 0 {
		t.Errorf("model called %d times for a deferred dream", n)
	}
}

func TestRecordFailureKeepsDraft(t *testing.T) {
	setupTestEnv(t, completion.NewMockClient().WithError(&completion.Error{
		Kind:       completion.KindStatus,
		StatusCode: 503,
		Message:    "upstream unavailable",
	}))

	var buf bytes.Buffer
	err := recordRun(context.Background(), &buf, "The tide came in too fast", recordOptions{})
	if err == nil {
		t.Fatal("expected an error when interpretation fails")
	}
	if got := ExitCode(err); got != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", got, ExitFailure)
	}
	if !strings.Contains(buf.String(), "Recorded dream") {
		t.Errorf("draft confirmation missing:\n%s", buf.String())
	}

	drafts, lerr := svc.List(context.Background(), testUser, storage.ListOptions{DraftsOnly: true})
	if lerr != nil {
		t.Fatalf("List: %v", lerr)
	}
	if len(drafts) != 1 || drafts[0].DreamText != "The tide came in too fast" {
		t.Errorf("expected the dream to survive as a draft, got %+v", drafts)
	}
}

func TestRecordWithoutClient(t *testing.T) {
	setupTestEnv(t, nil)
	clientErr = errors.New("completion.api_key is required")

	var buf bytes.Buffer
	err := recordRun(context.Background(), &buf, "A quiet library", recordOptions{})
	if !errors.Is(err, journal.ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if !strings.Contains(err.Error(), "api_key") {
		t.Errorf("error should explain the missing client: %v", err)
	}
	if got := ExitCode(err); got != ExitUser {
		t.Errorf("ExitCode = %d, want %d", got, ExitUser)
	}
}

func TestRecordInvalidMood(t *testing.T) {
	setupTestEnv(t, completion.NewMockClient())

	err := recordRun(context.Background(), &bytes.Buffer{}, "a dream", recordOptions{mood: "grumpy"})
	if !errors.Is(err, storage.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecordJSONOutput(t *testing.T) {
	setupTestEnv(t, completion.NewMockClient())
	jsonOutput = true

	var buf bytes.Buffer
	if err := recordRun(context.Background(), &buf, "Falling through clouds", recordOptions{title: "Clouds"}); err != nil {
		t.Fatalf("recordRun: %v", err)
	}
	var got ui.DreamDetail
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("JSON unmarshal: %v\n%s", err, buf.String())
	}
	if got.Title != "Clouds" || got.Draft {
		t.Errorf("got title=%q draft=%v", got.Title, got.Draft)
	}
	if got.Reading == nil || len(got.Reading.Symbols) != 3 {
		t.Errorf("expected a parsed reading with 3 symbols, got %+v", got.Reading)
	}
}

func TestDreamText(t *testing.T) {
	got, err := dreamText(strings.NewReader("  from stdin \n"), []string{"-"})
	if err != nil || got != "from stdin" {
		t.Errorf("stdin: got %q, %v", got, err)
	}
	got, err = dreamText(nil, []string{"flying", "high"})
	if err != nil || got != "flying high" {
		t.Errorf("args: got %q, %v", got, err)
	}
}
