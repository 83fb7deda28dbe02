// Package completion sends an interpretation prompt to a hosted language
// model and returns the raw text of its reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is a single-shot text completion endpoint.
type Client interface {
	// Send returns the model's reply to prompt. The caller bounds the call
	// through ctx.
	Send(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Defaults mirror the request the mobile app used to send.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "anthropic/claude-3.5-sonnet"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
	DefaultSiteURL     = "Dream-Interpretation-App"
	DefaultSiteName    = "dreamctl"
)

// Config selects and parameterises a provider.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
	SiteURL     string
	SiteName    string
}

// New builds the client for cfg.Provider. An empty provider means OpenRouter.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenRouter:
		return NewOpenRouterClient(cfg, logger)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger)
	case ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q (valid: %s, %s, %s)",
			cfg.Provider, ProviderOpenRouter, ProviderGemini, ProviderMock)
	}
}

// Kind classifies a failed Send.
type Kind int

const (
	// KindTransport covers network failures, cancellation and timeouts.
	KindTransport Kind = iota + 1
	// KindStatus is a non-success HTTP status from the provider.
	KindStatus
	// KindEnvelope means the reply could not be decoded or had no text.
	KindEnvelope
	// KindProvider is an error object returned inside a well-formed reply.
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEnvelope:
		return "envelope"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Error is returned by every Client on failure. Message and Code carry the
// provider's own text when it sent any.
type Error struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s error", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a completion Error of kind k.
func IsKind(err error, k Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == k
}
