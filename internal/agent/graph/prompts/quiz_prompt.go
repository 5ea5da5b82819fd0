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

//go:embed template/quiz_prompt.txt
var quizSystemPrompt string

// RenderQuizSystem renders the quiz generator's system prompt. The template
// pins the model to the structured quiz JSON contract; the caller is expected
// to parse the output and fall back to raw text when parsing fails.
func RenderQuizSystem(ctx context.Context) (string, error) {
	content := strings.NewReplacer(
		"{retrieve_tool}", tools.ToolRetrieveStudyMaterial,
	).Replace(quizSystemPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("quiz prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("quiz prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
