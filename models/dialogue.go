package models

import "time"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Option is one selectable answer attached to a prompt.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type DialogueMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text,omitempty"`
	Options   []Option    `json:"options,omitempty"`
	Photos    []string    `json:"photos,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ErrorBanner is the dismissible notice shown once automatic retries are spent.
type ErrorBanner struct {
	Message  string `json:"message"`
	Category string `json:"category"`
	CanRetry bool   `json:"canRetry"`
}
