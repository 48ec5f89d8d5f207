// Package groq is the chat completion client for Groq's OpenAI-compatible API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
)

// Client sends chat completions to Groq. Safe for concurrent use.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the Groq client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a Groq chat client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Chat sends role-tagged messages and returns the generated text.
// Failures are classified into domain sentinels so the retry machine never
// inspects transport errors itself: HTTP 413 wraps domain.ErrPayloadTooLarge,
// HTTP 429 wraps domain.ErrRateLimited, everything else (network failures,
// 5xx, empty responses) wraps domain.ErrUpstream.
func (c *Client) Chat(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toChatMessages(messages),
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		classified := classifyAPIError(err)
		metrics.LLMRequestsTotal.WithLabelValues(c.model, statusLabel(classified)).Inc()
		return "", classified
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrUpstream)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func toChatMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// classifyAPIError maps a go-openai error to a domain sentinel by HTTP status.
func classifyAPIError(err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("completion request: %w", domain.ErrPayloadTooLarge)
	case http.StatusTooManyRequests:
		return fmt.Errorf("completion request: %w", domain.ErrRateLimited)
	default:
		return fmt.Errorf("completion request: %v: %w", err, domain.ErrUpstream)
	}
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
