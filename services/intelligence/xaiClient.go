// File: services/intelligence/xaiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"junkbutler/models"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultXAIBaseURL = "https://api.x.ai/v1"
	DefaultXAIModel   = "grok-3-mini"
)

// XAIClient streams chat completions from xAI's OpenAI-compatible API.
type XAIClient struct {
	client *openai.Client
	model  string
}

type XAIOption func(*openai.ClientConfig)

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func WithBaseURL(url string) XAIOption {
	return func(cfg *openai.ClientConfig) {
		if url != "" {
			cfg.BaseURL = url
		}
	}
}

func NewXAIClient(apiKey, model string, opts ...XAIOption) (*XAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultXAIBaseURL
	for _, opt := range opts {
		opt(&cfg)
	}
	if model == "" {
		model = DefaultXAIModel
	}
	return &XAIClient{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (x *XAIClient) Name() string { return "xai" }

func (x *XAIClient) Stream(ctx context.Context, system string, history []ChatMessage, onDelta func(string)) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	stream, err := x.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    x.model,
		Messages: msgs,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("xai: open stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("xai: receive: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return sb.String(), nil
}
