package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/studyhall-ai/server/internal/agent/graph/tools"
)

//go:embed template/study_prompt.txt
var studySystemPrompt string

// RenderStudySystem renders the study assistant's system prompt via the Eino
// prompt component. This triggers prompt callbacks and returns the final
// system prompt string.
func RenderStudySystem(ctx context.Context) (string, error) {
	content := strings.NewReplacer(
		"{retrieve_tool}", tools.ToolRetrieveStudyMaterial,
	).Replace(studySystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("study prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("study prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
