package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type AppState struct {
	SessionID string
	// SystemPrompt is rendered once per invocation and re-prepended fresh on
	// every model call; it never enters History.
	SystemPrompt          string
	History               []*schema.Message
	ToolRoundCount        int  // maintained in handlers (reset/increment)
	ToolRoundLimitReached bool // set when the bounded-iteration ceiling is hit
	ToolCallIDSeq         int  // local sequence to synthesize tool_call_id when provider omits

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for one agent loop invocation.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}
