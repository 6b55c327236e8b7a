package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const maxChatMessageLength = 2000

// assistantPrompt describes the app to the language model
const assistantPrompt = `You are the NutriScan assistant, a friendly helper inside a nutrition tracking app.
NutriScan lets users:
- log meals by choosing foods from the catalog or by photographing a dish, which the app recognizes
- see daily calories, protein, carbohydrates and fat per meal and for the whole day
- track water intake in milliliters or liters
- set goals for weight, calories, macronutrients and water
- get meal recommendations from their maintenance calories, split 25% breakfast, 35% lunch, 30% dinner and 10% snacks, with macro targets of 30% protein, 45% carbohydrates and 25% fat
Answer questions about using the app and about general nutrition in a short, practical way.
Do not give medical diagnoses; suggest seeing a professional for medical concerns.`

// ChatService answers help questions through a language model
type ChatService struct {
	client domain.ChatClient
	logger *zap.Logger
}

// NewChatService creates a chat service. A nil client makes every request fail as unavailable.
func NewChatService(client domain.ChatClient, log *zap.Logger) *ChatService {
	return &ChatService{
		client: client,
		logger: logger.OrNop(log).Named("chat"),
	}
}

// Reply returns the assistant's answer to one message
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.NewValidationError("message", "is required")
	}
	if utf8.RuneCountInString(message) > maxChatMessageLength {
		return "", domain.NewValidationError("message", fmt.Sprintf("must not exceed %d characters", maxChatMessageLength))
	}
	if s.client == nil {
		return "", fmt.Errorf("%w: no chat provider configured", domain.ErrChatFailed)
	}

	reply, err := s.client.Complete(ctx, assistantPrompt, message)
	if err != nil {
		s.logger.Error("chat completion failed", zap.Error(err))
		if errors.Is(err, domain.ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrChatFailed, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", domain.ErrChatFailed)
	}
	return reply, nil
}
