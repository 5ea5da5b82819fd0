package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AddMessage appends a message to the transcript of the given session.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the chat transcript for a session.
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// ClearHistory removes the transcript for a session.
	ClearHistory(ctx context.Context, sessionID string) error

	// GetMessageCount returns the number of messages in the transcript.
	GetMessageCount(ctx context.Context, sessionID string) (int, error)
}

// ConversationHistory represents loaded transcript data with metadata.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}
