package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient sends prompts to the Gemini API through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a Gemini client authenticated with cfg.APIKey.
func NewGeminiClient(ctx context.Context, cfg Config, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("completion API key not configured (set completion.api_key or GEMINI_API_KEY)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || strings.Contains(model, "/") {
		// OpenRouter-style names are not valid Gemini models.
		model = DefaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   int32(maxTokens),
		temperature: float32(cfg.Temperature),
		logger:      logger,
	}, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string { return g.model }

// Send generates a single reply for prompt.
func (g *GeminiClient) Send(ctx context.Context, prompt string) (string, error) {
	log := g.logger.With(
		zap.String("provider", ProviderGemini),
		zap.String("model", g.model),
		zap.String("request_id", uuid.NewString()),
	)
	start := time.Now()

	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: g.maxTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	log.Debug("sending completion request", zap.Int("prompt_len", len(prompt)))
	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		log.Warn("completion request failed", zap.Error(err))
		return "", geminiError(ctx, err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", &Error{Kind: KindEnvelope, Provider: ProviderGemini, Message: "empty completion"}
	}

	log.Info("completion received", zap.Duration("elapsed", time.Since(start)), zap.Int("reply_len", len(text)))
	return text, nil
}

// geminiError maps SDK failures onto Error kinds.
func geminiError(ctx context.Context, err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:       KindStatus,
			Provider:   ProviderGemini,
			StatusCode: apiErr.Code,
			Code:       apiErr.Status,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTransport, Provider: ProviderGemini, Err: ctxErr}
	}
	return &Error{Kind: KindTransport, Provider: ProviderGemini, Err: err}
}
