package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/studyhall-ai/server/internal/agent/model"
)

// MessagesManager mediates between the agent graph and the transcript
// repository: it persists user/assistant turns and assembles the bounded
// context window for model calls.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.Context.MaxTurns,
	}
}

// ProcessUserMessage saves the new user message and returns the transcript
// tail (at most maxTurns messages, ending with the new message) to seed the
// agent loop's conversation state.
func (cm *MessagesManager) ProcessUserMessage(ctx context.Context, sessionID string, query string) ([]*schema.Message, error) {
	userMsg := schema.UserMessage(query)
	if err := cm.conversationRepo.AddMessage(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}

	history, err := cm.conversationRepo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return trimTail(history.Messages, cm.maxTurns), nil
}

// SaveResponse persists the assistant's final answer for the session.
func (cm *MessagesManager) SaveResponse(ctx context.Context, sessionID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, sessionID, assistantMsg)
}

// Clear drops the transcript for a session.
func (cm *MessagesManager) Clear(ctx context.Context, sessionID string) error {
	return cm.conversationRepo.ClearHistory(ctx, sessionID)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
