// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"junkbutler/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) Close() error { return g.client.Close() }

func (g *GeminiClient) Stream(ctx context.Context, system string, history []ChatMessage, onDelta func(string)) (string, error) {
	prior, last, err := geminiTurns(history)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	cs := model.StartChat()
	cs.History = prior

	iter := cs.SendMessageStream(ctx, genai.Text(last))
	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gemini: stream: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				text, ok := part.(genai.Text)
				if !ok || text == "" {
					continue
				}
				sb.WriteString(string(text))
				if onDelta != nil {
					onDelta(string(text))
				}
			}
		}
	}
	return sb.String(), nil
}

// geminiTurns converts history into Gemini chat contents. Gemini wants the
// history to open with a user turn and alternate roles, so leading assistant
// turns are dropped and consecutive same-role turns are merged. The final
// user turn is returned separately as the message to send.
func geminiTurns(history []ChatMessage) ([]*genai.Content, string, error) {
	var contents []*genai.Content
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		if len(contents) == 0 && role == "model" {
			continue
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(m.Content))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	if len(contents) == 0 || contents[len(contents)-1].Role != "user" {
		return nil, "", fmt.Errorf("gemini: %w", ErrInvalidHistory)
	}

	lastTurn := contents[len(contents)-1]
	var parts []string
	for _, p := range lastTurn.Parts {
		if t, ok := p.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	return contents[:len(contents)-1], strings.Join(parts, "\n"), nil
}
