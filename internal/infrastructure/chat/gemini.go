package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient answers chat messages with a Gemini model
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient connects with an API key
func NewGeminiClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger.OrNop(log).Named("chat.gemini"),
	}, nil
}

// Complete generates a reply with systemPrompt as the system instruction
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, message string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrChatFailed, err)
	}

	reply, err := responseText(resp)
	if err != nil {
		return "", err
	}
	c.logger.Debug("gemini reply", zap.Int("chars", len(reply)))
	return reply, nil
}

// Close releases the underlying connection
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: response has no candidates", domain.ErrChatFailed)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: response has no text", domain.ErrChatFailed)
	}
	return b.String(), nil
}
