package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/studyhall-ai/server/internal/agent/graph/conversations"
	"github.com/studyhall-ai/server/internal/agent/model"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// Node names for the agent loop graph.
const (
	NodeInputBuilder = "InputBuilder"
	NodeChatModel    = "ChatModel"
	NodeToolExecutor = "ToolExecutor"
)

// NewInputBuilderPreHandler resets per-invocation state before a new query runs.
func NewInputBuilderPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.SessionID = in.SessionID
		s.History = nil
		s.ToolRoundCount = 0
		s.ToolRoundLimitReached = false
		s.ToolCallIDSeq = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputBuilderNode persists the user message, loads the transcript tail,
// and stashes the freshly rendered system prompt in state. The system prompt
// never enters the history; the chat model pre-handler re-prepends it on
// every model call.
func NewInputBuilderNode(
	mm *conversations.MessagesManager,
	renderSystem func(context.Context) (string, error),
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		messages, err := mm.ProcessUserMessage(ctx, input.SessionID, input.Query)
		if err != nil {
			return nil, fmt.Errorf("error building conversation context: %w", err)
		}

		systemPrompt, err := renderSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render system prompt: %w", err)
		}
		err = compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.SystemPrompt = systemPrompt
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		return messages, nil
	})
}

// NewChatModelPreHandler accumulates incoming messages into the loop history
// and returns the model input: a fresh system message followed by the full
// history. Once the tool round ceiling is hit it appends a wrap-up notice so
// the model synthesizes a best answer from what it already gathered.
func NewChatModelPreHandler(maxRounds int) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		if len(state.History) == 0 {
			// first model turn: in is the transcript from InputBuilder
			state.History = in
		} else {
			// returning from ToolExecutor: in holds tool result messages
			for _, msg := range in {
				if msg != nil && msg.Role == schema.Tool && strings.TrimSpace(msg.ToolCallID) == "" {
					msg.ToolCallID = lastToolCallID(state.History)
				}
			}
			state.History = append(state.History, in...)
		}

		if checkAndMarkRoundLimit(state, maxRounds) {
			maxRounds = normalizeMaxRounds(maxRounds)
			wrapUp := &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Please synthesize a helpful response using the information you've already gathered. "+
						"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
					maxRounds,
				),
			}
			state.History = append(state.History, wrapUp)
		}

		logx.Debug().Str("session_id", state.SessionID).Int("history", len(state.History)).Msg("Invoking chat model")

		out := make([]*schema.Message, 0, len(state.History)+1)
		out = append(out, schema.SystemMessage(state.SystemPrompt))
		out = append(out, state.History...)
		return out, nil
	}
}

// lastToolCallID finds the most recent assistant tool call id in the history.
// Some providers omit tool_call_id on results; pairing breaks without it.
func lastToolCallID(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
			continue
		}
		return msg.ToolCalls[0].ID
	}
	return ""
}

// NewChatModelPostHandler records usage cost, normalizes tool call ids,
// appends the model output to history, and persists final answers.
func NewChatModelPostHandler(
	mm *conversations.MessagesManager,
	modelName string,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil {
			logx.Warn().Str("session_id", state.SessionID).Msg("Model returned no message")
			return nil, nil
		}

		if model.CostEnabled() && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("node", NodeChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}

		// Normalize tool calls: some providers may omit tool_call IDs.
		if len(out.ToolCalls) > 0 {
			for i := range out.ToolCalls {
				if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
					state.ToolCallIDSeq++
					out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
				}
			}
		}

		state.History = append(state.History, out)

		if len(out.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Model requested tools")
		} else {
			logx.Debug().Msg("Model produced final answer")
		}

		// Persist only final assistant answers: no further tool calls, or the
		// round limit forced a wrap-up that still carries content.
		if out.Role == schema.Assistant && (len(out.ToolCalls) == 0 || state.ToolRoundLimitReached) && strings.TrimSpace(out.Content) != "" {
			if err := mm.SaveResponse(ctx, state.SessionID, out.Content); err != nil {
				logx.Error().
					Str("session_id", state.SessionID).
					Err(err).
					Msg("Error saving assistant response")
			}
		}

		return out, nil
	}
}

// NewToolExecutorCondition routes the loop: tool calls pending and the round
// limit not yet reached means another ToolExecutor pass; otherwise the loop
// is done and the latest model message is the result.
func NewToolExecutorCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		if input == nil {
			logx.Debug().Msg("No model message - loop complete")
			return compose.END, nil
		}

		var limitReached bool
		_ = compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			limitReached = state.ToolRoundLimitReached
			return nil
		})

		if limitReached {
			logx.Debug().Msg("Tool round limit reached - routing to end")
			return compose.END, nil
		}

		if len(input.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ToolExecutor")
			return NodeToolExecutor, nil
		}

		logx.Debug().Msg("No tool calls - loop complete")
		return compose.END, nil
	}
}

// NewToolExecutorPreHandler counts tool rounds against the ceiling.
func NewToolExecutorPreHandler(maxRounds int) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, in *schema.Message, state *model.AppState) (*schema.Message, error) {
		exceeded := incrementRoundAndCheck(state, maxRounds)

		logx.Debug().
			Int("tool_round", state.ToolRoundCount).
			Str("session_id", state.SessionID).
			Msg("Tool execution round")

		if exceeded {
			logx.Warn().
				Int("tool_round", state.ToolRoundCount).
				Int("max_rounds", normalizeMaxRounds(maxRounds)).
				Str("session_id", state.SessionID).
				Msg("Tool round limit exceeded - flagging and continuing")
		}

		return in, nil
	}
}
