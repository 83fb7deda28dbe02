package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is kept in an Error.
const maxErrorBody = 2048

// maxResponseBody caps how much of a reply body is read.
const maxResponseBody = 4 << 20

// OpenRouterClient talks to any OpenAI-compatible chat completions endpoint.
// OpenRouter is the default.
type OpenRouterClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	siteURL     string
	siteName    string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewOpenRouterClient returns a client for cfg. It fails when no API key is
// configured.
func NewOpenRouterClient(cfg Config, logger *zap.Logger) (*OpenRouterClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("completion API key not configured (set completion.api_key or OPENROUTER_API_KEY)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &OpenRouterClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		siteURL:     cfg.SiteURL,
		siteName:    cfg.SiteName,
		httpClient:  &http.Client{},
		logger:      logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.siteURL == "" {
		c.siteURL = DefaultSiteURL
	}
	if c.siteName == "" {
		c.siteName = DefaultSiteName
	}
	return c, nil
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *OpenRouterClient) WithHTTPClient(hc *http.Client) *OpenRouterClient {
	c.httpClient = hc
	return c
}

// Model returns the configured model name.
func (c *OpenRouterClient) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatError struct {
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code,omitempty"`
	Type    string          `json:"type,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *chatError `json:"error,omitempty"`
}

// Send posts prompt as a single user message and returns the first choice.
func (c *OpenRouterClient) Send(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("provider", ProviderOpenRouter),
		zap.String("model", c.model),
		zap.String("request_id", requestID),
	)
	start := time.Now()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: ProviderOpenRouter, Message: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: ProviderOpenRouter, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)
	req.Header.Set("X-Request-ID", requestID)

	log.Debug("sending completion request", zap.Int("prompt_len", len(prompt)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		log.Warn("completion request failed", zap.Error(err))
		return "", &Error{Kind: KindTransport, Provider: ProviderOpenRouter, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return "", &Error{Kind: KindTransport, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: "reading response", Err: err}
	}
	if len(data) > maxResponseBody {
		log.Warn("completion response too large", zap.Int("limit", maxResponseBody))
		return "", &Error{Kind: KindEnvelope, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: "response exceeds size limit"}
	}

	var decoded chatResponse
	decodeErr := json.Unmarshal(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Kind: KindStatus, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode}
		if decodeErr == nil && decoded.Error != nil {
			e.Message = decoded.Error.Message
			e.Code = codeString(decoded.Error.Code)
		} else {
			e.Message = truncate(strings.TrimSpace(string(data)), maxErrorBody)
		}
		log.Warn("completion request rejected", zap.Int("status", resp.StatusCode), zap.String("message", e.Message))
		return "", e
	}

	if decodeErr != nil {
		return "", &Error{Kind: KindEnvelope, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: "decoding response", Err: decodeErr}
	}
	if decoded.Error != nil {
		log.Warn("provider returned an error payload", zap.String("message", decoded.Error.Message))
		return "", &Error{
			Kind:       KindProvider,
			Provider:   ProviderOpenRouter,
			StatusCode: resp.StatusCode,
			Code:       codeString(decoded.Error.Code),
			Message:    decoded.Error.Message,
		}
	}
	if len(decoded.Choices) == 0 {
		return "", &Error{Kind: KindEnvelope, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: "no choices in response"}
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Kind: KindEnvelope, Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: "empty completion"}
	}

	log.Info("completion received", zap.Duration("elapsed", time.Since(start)), zap.Int("reply_len", len(text)))
	return text, nil
}

// codeString accepts both numeric and string error codes.
func codeString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strconv.Quote(string(raw))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
