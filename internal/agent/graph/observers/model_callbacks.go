package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/studyhall-ai/server/pkg/logger"
)

// newModelHandler builds a typed ModelCallbackHandler to trace the messages
// going in and out of each model call.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().
				Str("component", string(info.Type)).
				Str("node", info.Name)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages))
				if um := lastUserContent(input.Messages); um != "" {
					ev = ev.Str("user", truncateForLog(um))
				}
			}
			ev.Msg("Model call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			ev := logx.Debug().
				Str("component", string(info.Type)).
				Str("node", info.Name)
			if output != nil && output.Message != nil {
				ev = ev.
					Int("tool_calls", len(output.Message.ToolCalls)).
					Str("assistant", truncateForLog(output.Message.Content))
			}
			ev.Msg("Model call end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().
				Str("node", info.Name).
				Err(err).
				Msg("Model call failed")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

// truncateForLog keeps transcript lines out of the log while preserving enough
// to recognize the message.
func truncateForLog(s string) string {
	s = strings.TrimSpace(s)
	const max = 200
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
