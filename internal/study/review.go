package study

import "context"

// WrongAnswer records one missed quiz question so the learner can revisit it.
type WrongAnswer struct {
	Question    string `json:"question"`
	Given       string `json:"given"`
	Correct     string `json:"correct"`
	Explanation string `json:"explanation"`
}

// ReviewRepository persists the wrong-answer list per session.
type ReviewRepository interface {
	Add(ctx context.Context, sessionID string, answer WrongAnswer) error
	List(ctx context.Context, sessionID string) ([]WrongAnswer, error)
	Clear(ctx context.Context, sessionID string) error
}
