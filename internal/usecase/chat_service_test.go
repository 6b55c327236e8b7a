package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/backend/internal/domain"
)

func TestChatService_Reply(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the system prompt", func(t *testing.T) {
		client := &MockChatClient{reply: "  Tap the camera icon.  "}
		svc := NewChatService(client, nil)

		got, err := svc.Reply(ctx, " How do I scan food? ")
		require.NoError(t, err)
		assert.Equal(t, "Tap the camera icon.", got)
		assert.Equal(t, "How do I scan food?", client.message)
		assert.Contains(t, client.systemPrompt, "NutriScan")
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewChatService(&MockChatClient{reply: "x"}, nil)

		_, err := svc.Reply(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Reply(ctx, strings.Repeat("a", maxChatMessageLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("provider failure", func(t *testing.T) {
		svc := NewChatService(&MockChatClient{err: errors.New("quota exceeded")}, nil)

		_, err := svc.Reply(ctx, "hi")
		assert.ErrorIs(t, err, domain.ErrChatFailed)
	})

	t.Run("empty reply", func(t *testing.T) {
		svc := NewChatService(&MockChatClient{reply: ""}, nil)

		_, err := svc.Reply(ctx, "hi")
		assert.ErrorIs(t, err, domain.ErrChatFailed)
	})

	t.Run("no provider", func(t *testing.T) {
		svc := NewChatService(nil, nil)

		_, err := svc.Reply(ctx, "hi")
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})
}
