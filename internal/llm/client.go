// Package llm provides the chat client used by the migration pipelines.
package llm

import "context"

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System, user, and assistant are the only roles the pipelines emit.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client generates a completion for a conversation.
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
