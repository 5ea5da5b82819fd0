package nodes

import (
	"github.com/studyhall-ai/server/internal/agent/model"
)

// DefaultMaxToolRounds bounds the model/tool alternation. A model that keeps
// requesting tools would otherwise starve the caller forever.
const DefaultMaxToolRounds = 12

// ===== Small helpers to keep handlers simple/readable =====
// normalizeMaxRounds returns a sane default when the provided value is invalid.
func normalizeMaxRounds(n int) int {
	if n <= 0 {
		return DefaultMaxToolRounds
	}
	return n
}

// checkAndMarkRoundLimit evaluates whether another tool round would exceed
// the limit and, if so, marks the state accordingly. Returns true when marked now.
func checkAndMarkRoundLimit(state *model.AppState, max int) bool {
	max = normalizeMaxRounds(max)
	if !state.ToolRoundLimitReached && state.ToolRoundCount >= max {
		state.ToolRoundLimitReached = true
		return true
	}
	return false
}

// incrementRoundAndCheck increments the count and marks the state if it
// exceeds the limit after incrementing. Returns true when exceeded.
func incrementRoundAndCheck(state *model.AppState, max int) bool {
	max = normalizeMaxRounds(max)
	state.ToolRoundCount++
	if state.ToolRoundCount > max {
		state.ToolRoundLimitReached = true
		return true
	}
	return false
}
