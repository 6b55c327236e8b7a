package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/backend/internal/domain"
)

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestOpenRouterClient_Complete(t *testing.T) {
	var received completionRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Open the Diet Recommender page."}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 6, "total_tokens": 16}
		}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/",
		Model:   "test-model",
		Referer: "https://nutriscan.local",
		Title:   "NutriScan",
	}, nil)

	reply, err := client.Complete(context.Background(), "You help NutriScan users.", "How do I get a meal plan?")
	require.NoError(t, err)

	assert.Equal(t, "Open the Diet Recommender page.", reply)
	assert.Equal(t, "test-model", received.Model)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "You help NutriScan users.", received.Messages[0].Content)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "How do I get a meal plan?", received.Messages[1].Content)
	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, "https://nutriscan.local", headers.Get("HTTP-Referer"))
	assert.Equal(t, "NutriScan", headers.Get("X-Title"))
}

func TestOpenRouterClient_Defaults(t *testing.T) {
	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k"}, nil)
	assert.Equal(t, DefaultOpenRouterModel, client.model)
}

func TestOpenRouterClient_Errors(t *testing.T) {
	t.Run("upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "invalid key", "type": "auth"}}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "bad", BaseURL: server.URL}, nil)
		_, err := client.Complete(context.Background(), "sys", "hi")
		assert.ErrorIs(t, err, domain.ErrChatFailed)
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "gen-2", "choices": []}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL}, nil)
		_, err := client.Complete(context.Background(), "sys", "hi")
		assert.ErrorIs(t, err, domain.ErrChatFailed)
		assert.Contains(t, err.Error(), "no choices")
	})
}

func TestResponseText(t *testing.T) {
	t.Run("joins text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Log meals "), genai.Text("from the dashboard.")}},
		}}}
		text, err := responseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "Log meals from the dashboard.", text)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, domain.ErrChatFailed)

		_, err = responseText(nil)
		assert.ErrorIs(t, err, domain.ErrChatFailed)
	})

	t.Run("no text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: []byte{1}}}},
		}}}
		_, err := responseText(resp)
		assert.ErrorIs(t, err, domain.ErrChatFailed)
	})
}
