package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenRouterClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenRouterClient(Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/",
		Temperature: DefaultTemperature,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestOpenRouterSendRequestShape(t *testing.T) {
	var got chatRequest
	var headers http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  reply text \n"}}]}`)
	})

	reply, err := c.Send(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "reply text", reply)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "the prompt"}, got.Messages[0])

	assert.Equal(t, "Bearer test-key", headers.Get("Authorization"))
	assert.Equal(t, DefaultSiteURL, headers.Get("HTTP-Referer"))
	assert.Equal(t, DefaultSiteName, headers.Get("X-Title"))
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
}

func TestOpenRouterFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantMsg    string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "status with provider error",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"No auth credentials found","code":401}}`,
			wantKind:   KindStatus,
			wantMsg:    "No auth credentials found",
			wantCode:   "401",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "status with plain body",
			status:     http.StatusBadGateway,
			body:       "upstream unavailable",
			wantKind:   KindStatus,
			wantMsg:    "upstream unavailable",
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "error payload on success status",
			status:     http.StatusOK,
			body:       `{"error":{"message":"model overloaded","code":"overloaded"}}`,
			wantKind:   KindProvider,
			wantMsg:    "model overloaded",
			wantCode:   "overloaded",
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			status:     http.StatusOK,
			body:       `{"choices":[`,
			wantKind:   KindEnvelope,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no choices",
			status:     http.StatusOK,
			body:       `{"choices":[]}`,
			wantKind:   KindEnvelope,
			wantMsg:    "no choices in response",
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty content",
			status:     http.StatusOK,
			body:       `{"choices":[{"message":{"content":"   "}}]}`,
			wantKind:   KindEnvelope,
			wantMsg:    "empty completion",
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Send(context.Background(), "p")
			require.Error(t, err)

			var ce *Error
			require.True(t, errors.As(err, &ce), "expected *Error, got %T", err)
			assert.Equal(t, tt.wantKind, ce.Kind)
			assert.Equal(t, tt.wantStatus, ce.StatusCode)
			assert.Equal(t, ProviderOpenRouter, ce.Provider)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ce.Message)
			}
			assert.Equal(t, tt.wantCode, ce.Code)
			assert.True(t, IsKind(err, tt.wantKind))
		})
	}
}

func TestOpenRouterTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "p")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpenRouterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewOpenRouterClient(Config{APIKey: "k", BaseURL: url}, nil)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "p")
	assert.True(t, IsKind(err, KindTransport), "got %v", err)
}

func TestNewOpenRouterRequiresKey(t *testing.T) {
	_, err := NewOpenRouterClient(Config{APIKey: "  "}, nil)
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	e := &Error{Kind: KindStatus, Provider: "openrouter", StatusCode: 429, Code: "rate_limited", Message: "slow down"}
	assert.Equal(t, "openrouter: status error (HTTP 429) [rate_limited]: slow down", e.Error())

	wrapped := &Error{Kind: KindTransport, Provider: "gemini", Err: context.Canceled}
	assert.ErrorIs(t, wrapped, context.Canceled)
	assert.Contains(t, wrapped.Error(), "transport error")
}

func TestOpenRouterOversizedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"`)
		_, _ = io.WriteString(w, strings.Repeat("a", maxResponseBody))
		_, _ = io.WriteString(w, `"}}]}`)
	})

	_, err := c.Send(context.Background(), "the prompt")
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindEnvelope, ce.Kind)
	assert.Contains(t, ce.Message, "size limit")
}

func TestTruncateKeepsRunes(t *testing.T) {
	got := truncate("ééééé", 3)
	assert.Equal(t, "ééé...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "short", truncate("short", 10))
}
