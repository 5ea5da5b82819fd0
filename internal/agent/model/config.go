package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"1h"`
	Context struct {
		MaxTurns int `envconfig:"CONVERSATION_CONTEXT_MAX_TURNS" default:"20"`
	}
	Tools struct {
		MaxRounds int `envconfig:"CONVERSATION_TOOL_MAX_ROUNDS" default:"12"`
	}
	// Wall-clock ceiling for one full agent loop invocation. Zero disables it.
	InvokeTimeout time.Duration `envconfig:"CONVERSATION_INVOKE_TIMEOUT" default:"2m"`
}

type StudyModelConfig struct {
	Model       string  `envconfig:"STUDY_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"STUDY_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"STUDY_TEMPERATURE" default:"0.0"`
}

type QuizModelConfig struct {
	Model       string  `envconfig:"QUIZ_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"QUIZ_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"QUIZ_TEMPERATURE" default:"0.4"`
}
