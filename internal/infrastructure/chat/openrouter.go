// Package chat provides domain.ChatClient implementations.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "deepseek/deepseek-r1-0528:free"
	defaultRequestTimeout    = 60 * time.Second
)

// OpenRouterConfig configures the OpenAI-compatible client
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer and Title identify the app to OpenRouter
	Referer string
	Title   string
	Timeout time.Duration
}

// OpenRouterClient talks to any OpenAI-compatible chat completions endpoint
type OpenRouterClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// headerTransport adds fixed headers to every request
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// NewOpenRouterClient creates a client; empty fields fall back to OpenRouter defaults
func NewOpenRouterClient(cfg OpenRouterConfig, log *zap.Logger) *OpenRouterClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultOpenRouterBaseURL
	}

	headers := make(map[string]string)
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{base: http.DefaultTransport, headers: headers},
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenRouterModel
	}

	return &OpenRouterClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger.OrNop(log).Named("chat.openrouter"),
	}
}

// Complete sends the system prompt and the user message and returns the first choice
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, message string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrChatFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", domain.ErrChatFailed)
	}

	c.logger.Debug("chat completion",
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}
