package model

import (
	"encoding/json"
	"fmt"
	"strings"

	errx "github.com/studyhall-ai/server/internal/core/error"
)

// QuestionType enumerates the three quiz question kinds the quiz agent may emit.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// Quiz is the structured object the quiz agent's instruction targets.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is one quiz item. Correct is kept raw because its JSON type
// depends on the question type: option index, boolean, or answer text.
type Question struct {
	ID          int             `json:"id"`
	Type        QuestionType    `json:"type"`
	Question    string          `json:"question"`
	Options     []string        `json:"options,omitempty"`
	Correct     json.RawMessage `json:"correct"`
	Explanation string          `json:"explanation"`
}

// CorrectIndex decodes the correct option index of a multiple choice question.
func (q *Question) CorrectIndex() (int, error) {
	if q.Type != QuestionMultipleChoice {
		return 0, fmt.Errorf("question %d is %s, not multiple choice", q.ID, q.Type)
	}
	var idx int
	if err := json.Unmarshal(q.Correct, &idx); err != nil {
		return 0, fmt.Errorf("question %d: correct is not an option index: %w", q.ID, err)
	}
	return idx, nil
}

// CorrectBool decodes the answer of a true/false question.
func (q *Question) CorrectBool() (bool, error) {
	if q.Type != QuestionTrueFalse {
		return false, fmt.Errorf("question %d is %s, not true/false", q.ID, q.Type)
	}
	var v bool
	if err := json.Unmarshal(q.Correct, &v); err != nil {
		return false, fmt.Errorf("question %d: correct is not a boolean: %w", q.ID, err)
	}
	return v, nil
}

// CorrectText decodes the expected answer of a short answer question.
func (q *Question) CorrectText() (string, error) {
	if q.Type != QuestionShortAnswer {
		return "", fmt.Errorf("question %d is %s, not short answer", q.ID, q.Type)
	}
	var s string
	if err := json.Unmarshal(q.Correct, &s); err != nil {
		return "", fmt.Errorf("question %d: correct is not a string: %w", q.ID, err)
	}
	return s, nil
}

// ParseQuiz extracts and validates quiz data from raw model output. Models
// routinely wrap JSON in code fences or prose, so the parser locates the
// outermost object before decoding. Failures come back as a recoverable
// quiz-parse error; callers fall back to showing the raw text.
func ParseQuiz(text string) (*Quiz, error) {
	payload := extractJSONObject(text)
	if payload == "" {
		return nil, errx.WrapQuizParse(fmt.Errorf("no JSON object found in model output"))
	}

	var quiz Quiz
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		return nil, errx.WrapQuizParse(err)
	}
	if err := validateQuiz(&quiz); err != nil {
		return nil, errx.WrapQuizParse(err)
	}
	return &quiz, nil
}

func validateQuiz(quiz *Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d has empty text", q.ID)
		}
		switch q.Type {
		case QuestionMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d has %d options, need at least 2", q.ID, len(q.Options))
			}
			idx, err := q.CorrectIndex()
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(q.Options) {
				return fmt.Errorf("question %d: correct index %d out of range", q.ID, idx)
			}
		case QuestionTrueFalse:
			if _, err := q.CorrectBool(); err != nil {
				return err
			}
		case QuestionShortAnswer:
			answer, err := q.CorrectText()
			if err != nil {
				return err
			}
			if strings.TrimSpace(answer) == "" {
				return fmt.Errorf("question %d has empty answer", q.ID)
			}
		default:
			return fmt.Errorf("question %d has unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}

// extractJSONObject returns the outermost {...} span of the text, tolerating
// markdown code fences and surrounding prose.
func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
