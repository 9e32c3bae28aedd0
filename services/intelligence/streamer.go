// File: services/intelligence/streamer.go
package ai

import (
	"context"
	"errors"

	"junkbutler/models"
)

// ErrMissingCredential marks a provider that was selected without an API key.
var ErrMissingCredential = errors.New("ai: no credential configured")

// ErrInvalidHistory marks a conversation a provider cannot accept as sent.
// Sending it again fails the same way.
var ErrInvalidHistory = errors.New("ai: history must end with a user turn")

// ChatMessage is one prior turn sent upstream.
type ChatMessage struct {
	Role    models.MessageRole `json:"role"`
	Content string             `json:"content"`
}

// Streamer produces one assistant reply for the given history. Each text
// delta is passed to onDelta as it arrives, and the full reply is returned
// once the stream ends.
type Streamer interface {
	Name() string
	Stream(ctx context.Context, system string, history []ChatMessage, onDelta func(string)) (string, error)
}

// lastUserTurn returns the most recent user message, or "" when there is none.
func lastUserTurn(history []ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
