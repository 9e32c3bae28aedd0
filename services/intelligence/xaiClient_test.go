package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"junkbutler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func streamingServer(t *testing.T, chunks []string, got *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))

		w.Header().Set("Content-Type", "text/event-stream")
		for i, c := range chunks {
			payload, _ := json.Marshal(map[string]any{
				"id":      fmt.Sprintf("chunk-%d", i),
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   got.Model,
				"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": c}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestXAIClientStreamsDeltas(t *testing.T) {
	var req capturedRequest
	srv := streamingServer(t, []string{"Splendid", ", ", "a couch!"}, &req)
	defer srv.Close()

	client, err := NewXAIClient("test-key", "", WithBaseURL(srv.URL))
	require.NoError(t, err)

	var deltas []string
	reply, err := client.Stream(context.Background(), "be a butler", []ChatMessage{
		{Role: models.RoleAssistant, Content: Greeting},
		{Role: models.RoleUser, Content: "I have a couch"},
	}, func(d string) { deltas = append(deltas, d) })
	require.NoError(t, err)

	assert.Equal(t, "Splendid, a couch!", reply)
	assert.Equal(t, []string{"Splendid", ", ", "a couch!"}, deltas)

	assert.Equal(t, DefaultXAIModel, req.Model)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "be a butler", req.Messages[0].Content)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	assert.Equal(t, "user", req.Messages[2].Role)
}

func TestXAIClientRateLimitIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`)
	}))
	defer srv.Close()

	client, err := NewXAIClient("test-key", "grok-3-mini", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Stream(context.Background(), "sys", []ChatMessage{{Role: models.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Equal(t, CategoryRateLimit, Classify(err))
}

func TestNewXAIClientRequiresKey(t *testing.T) {
	_, err := NewXAIClient("  ", "")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestNewStreamerFallsBackToLocalWithoutKey(t *testing.T) {
	s := NewStreamer(context.Background(), ProviderConfig{Provider: ProviderXAI}, zap.NewNop())
	assert.Equal(t, "local", s.Name())

	s = NewStreamer(context.Background(), ProviderConfig{Provider: ProviderGemini}, zap.NewNop())
	assert.Equal(t, "local", s.Name())
}

func TestGeminiTurns(t *testing.T) {
	prior, last, err := geminiTurns([]ChatMessage{
		{Role: models.RoleAssistant, Content: Greeting},
		{Role: models.RoleUser, Content: "a fridge"},
		{Role: models.RoleAssistant, Content: "Where is it?"},
		{Role: models.RoleUser, Content: "123 Elm St"},
		{Role: models.RoleUser, Content: "Springfield"},
	})
	require.NoError(t, err)
	require.Len(t, prior, 2)
	assert.Equal(t, "user", prior[0].Role)
	assert.Equal(t, "model", prior[1].Role)
	assert.Equal(t, "123 Elm St\nSpringfield", last)

	_, _, err = geminiTurns([]ChatMessage{{Role: models.RoleAssistant, Content: "hello"}})
	assert.ErrorIs(t, err, ErrInvalidHistory)
	assert.False(t, Classify(err).Retryable())
}

func TestSystemPromptIncludesKnownFacts(t *testing.T) {
	known := DescribeSession(models.EstimateSession{Quantity: models.QuantityMultiple, Items: []string{"furniture", "appliances"}})
	prompt := SystemPrompt(known)
	assert.True(t, strings.HasPrefix(prompt, persona))
	assert.Contains(t, prompt, "- Quantity: multiple")
	assert.Contains(t, prompt, "- Item types: furniture, appliances")
	assert.Equal(t, persona, SystemPrompt(""))
}
