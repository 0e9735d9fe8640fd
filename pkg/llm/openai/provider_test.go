package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashleytower/voice-email-agent/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestChatSendsOptionsAndMapsRoles(t *testing.T) {
	var captured chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "DRAFT_EMAIL"}},
			},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "gpt-4")

	out, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "classify"},
		{Role: "model", Content: "previous turn"},
		{Role: "user", Content: "write an email"},
	}, llm.WithTemperature(0.0))

	assert.NoError(t, err)
	assert.Equal(t, "DRAFT_EMAIL", out)
	assert.Equal(t, "gpt-4", captured.Model)
	if assert.NotNil(t, captured.Temperature) {
		assert.Equal(t, 0.0, *captured.Temperature)
	}
	// Gemini-style "model" role is translated for the OpenAI API.
	assert.Equal(t, "assistant", captured.Messages[1].Role)
}

func TestChatSurfacesAPIErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "gpt-4")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "gpt-4")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
