package study

import (
	"time"

	"github.com/studyhall-ai/server/internal/agent/graph"
	"github.com/studyhall-ai/server/internal/index"
	"github.com/studyhall-ai/server/internal/ingest"
)

// Session holds everything one upload batch produced: the per-session index,
// the two agent runners bound to it, and the session timer. A new upload
// means a new Session; nothing here is global.
type Session struct {
	ID        string
	Files     []ingest.FileReport
	Index     index.Index
	Pomodoro  *Pomodoro
	CreatedAt time.Time

	studyRunner graph.Runner
	quizRunner  graph.Runner
}

// quizSessionID returns the transcript key for the quiz agent, kept separate
// from the study assistant's transcript.
func (s *Session) quizSessionID() string {
	return s.ID + ":quiz"
}
