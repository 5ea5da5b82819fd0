package study

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall-ai/server/internal/agent/graph"
	"github.com/studyhall-ai/server/internal/agent/graph/conversations"
	"github.com/studyhall-ai/server/internal/agent/graph/nodes"
	"github.com/studyhall-ai/server/internal/agent/graph/prompts"
	"github.com/studyhall-ai/server/internal/agent/graph/tools"
	"github.com/studyhall-ai/server/internal/agent/model"
	"github.com/studyhall-ai/server/internal/chunk"
	errx "github.com/studyhall-ai/server/internal/core/error"
	"github.com/studyhall-ai/server/internal/index"
	"github.com/studyhall-ai/server/internal/ingest"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// QuizRequest shapes one quiz generation run.
type QuizRequest struct {
	Count      int
	Difficulty string
	Types      []model.QuestionType
}

// QuizResult carries either a parsed quiz or, when the model output could not
// be parsed, the raw text so the caller can still show something useful.
type QuizResult struct {
	Quiz    *model.Quiz
	RawText string
	Parsed  bool
}

// ServiceConfig collects the collaborators a Service needs.
type ServiceConfig struct {
	Ingestor     *ingest.Ingestor
	Splitter     *chunk.Splitter
	IndexBuilder index.Builder
	ChatModels   *nodes.ChatModels
	Conversation model.ConversationConfig
	ConvRepo     model.ConversationRepository
	ReviewRepo   ReviewRepository
}

// Service orchestrates the whole study flow: ingest files, chunk, build the
// session index, and drive the two agents against it.
type Service struct {
	ingestor     *ingest.Ingestor
	splitter     *chunk.Splitter
	indexBuilder index.Builder
	chatModels   *nodes.ChatModels
	conversation model.ConversationConfig
	convRepo     model.ConversationRepository
	reviewRepo   ReviewRepository
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Ingestor == nil || cfg.Splitter == nil || cfg.IndexBuilder == nil {
		return nil, fmt.Errorf("ingestor, splitter, and index builder are required")
	}
	if cfg.ChatModels == nil {
		return nil, fmt.Errorf("chat models are required")
	}
	if cfg.ConvRepo == nil {
		return nil, fmt.Errorf("conversation repo is required")
	}
	return &Service{
		ingestor:     cfg.Ingestor,
		splitter:     cfg.Splitter,
		indexBuilder: cfg.IndexBuilder,
		chatModels:   cfg.ChatModels,
		conversation: cfg.Conversation,
		convRepo:     cfg.ConvRepo,
		reviewRepo:   cfg.ReviewRepo,
	}, nil
}

// NewSession ingests the given files, builds the session index, and wires
// both agent runners to it. Per-file failures are reported, not fatal; only
// an empty aggregate or a failed index build aborts the session.
func (s *Service) NewSession(ctx context.Context, paths []string) (*Session, error) {
	docs, reports, err := s.ingestor.Load(paths)
	if err != nil {
		return nil, err
	}

	chunks := s.splitter.Split(docs)
	if len(chunks) == 0 {
		return nil, errx.WrapEmptyContent(ingest.ErrNoUsableContent)
	}

	idx, err := s.indexBuilder.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	mm := conversations.NewMessagesManager(s.convRepo, s.conversation)
	studyTools := tools.GetStudyTools(idx)
	maxRounds := s.conversation.Tools.MaxRounds

	studyRunner, err := graph.BuildAgentGraph(ctx, &graph.Config{
		ChatModel:       s.chatModels.Study,
		ModelName:       s.chatModels.StudyModelName,
		MessagesManager: mm,
		Tools:           studyTools,
		RenderSystem:    prompts.RenderStudySystem,
		ToolMaxRounds:   maxRounds,
		InvokeTimeout:   s.conversation.InvokeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build study runner: %w", err)
	}

	quizRunner, err := graph.BuildAgentGraph(ctx, &graph.Config{
		ChatModel:       s.chatModels.Quiz,
		ModelName:       s.chatModels.QuizModelName,
		MessagesManager: mm,
		Tools:           studyTools,
		RenderSystem:    prompts.RenderQuizSystem,
		ToolMaxRounds:   maxRounds,
		InvokeTimeout:   s.conversation.InvokeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build quiz runner: %w", err)
	}

	logx.Info().
		Str("session_id", sessionID).
		Int("files", len(reports)).
		Int("chunks", idx.Len()).
		Str("collection", idx.Collection()).
		Msg("Study session created")

	return &Session{
		ID:          sessionID,
		Files:       reports,
		Index:       idx,
		Pomodoro:    NewPomodoro(),
		CreatedAt:   time.Now(),
		studyRunner: studyRunner,
		quizRunner:  quizRunner,
	}, nil
}

// Ask runs one study assistant turn against the session's materials.
func (s *Service) Ask(ctx context.Context, session *Session, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is empty")
	}
	return session.studyRunner.Invoke(ctx, model.QueryInput{
		SessionID: session.ID,
		Query:     question,
	})
}

// GenerateQuiz runs the quiz agent and parses its output. Each generation
// starts from a clean quiz transcript so earlier quizzes never leak into the
// prompt. Parse failures are not errors: the raw text comes back with
// Parsed=false.
func (s *Service) GenerateQuiz(ctx context.Context, session *Session, req QuizRequest) (*QuizResult, error) {
	quizID := session.quizSessionID()
	if err := s.convRepo.ClearHistory(ctx, quizID); err != nil {
		logx.Warn().Err(err).Str("session_id", quizID).Msg("failed to clear quiz transcript")
	}

	raw, err := session.quizRunner.Invoke(ctx, model.QueryInput{
		SessionID: quizID,
		Query:     buildQuizQuery(req),
	})
	if err != nil {
		return nil, err
	}

	quiz, perr := model.ParseQuiz(raw)
	if perr != nil {
		logx.Warn().Err(perr).Str("session_id", session.ID).Msg("quiz output did not parse; returning raw text")
		return &QuizResult{RawText: raw, Parsed: false}, nil
	}
	return &QuizResult{Quiz: quiz, RawText: raw, Parsed: true}, nil
}

// RecordWrongAnswer saves a missed question for later review.
func (s *Service) RecordWrongAnswer(ctx context.Context, session *Session, answer WrongAnswer) error {
	if s.reviewRepo == nil {
		return fmt.Errorf("review repository not configured")
	}
	return s.reviewRepo.Add(ctx, session.ID, answer)
}

// ReviewList returns the wrong answers recorded for the session.
func (s *Service) ReviewList(ctx context.Context, session *Session) ([]WrongAnswer, error) {
	if s.reviewRepo == nil {
		return nil, fmt.Errorf("review repository not configured")
	}
	return s.reviewRepo.List(ctx, session.ID)
}

// ReviewClear drops the session's wrong-answer list.
func (s *Service) ReviewClear(ctx context.Context, session *Session) error {
	if s.reviewRepo == nil {
		return fmt.Errorf("review repository not configured")
	}
	return s.reviewRepo.Clear(ctx, session.ID)
}

// buildQuizQuery turns the request into the quiz agent's user message.
// Defaults: 5 questions, medium difficulty, all question types.
func buildQuizQuery(req QuizRequest) string {
	count := req.Count
	if count <= 0 {
		count = 5
	}
	difficulty := strings.TrimSpace(req.Difficulty)
	if difficulty == "" {
		difficulty = "medium"
	}

	types := req.Types
	if len(types) == 0 {
		types = []model.QuestionType{
			model.QuestionMultipleChoice,
			model.QuestionTrueFalse,
			model.QuestionShortAnswer,
		}
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	return fmt.Sprintf(
		"Generate a quiz with %d questions at %s difficulty based on the uploaded study materials. Use these question types: %s.",
		count, difficulty, strings.Join(names, ", "),
	)
}
