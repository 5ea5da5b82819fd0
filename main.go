package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/studyhall-ai/server/internal/agent/graph/nodes"
	"github.com/studyhall-ai/server/internal/agent/model"
	"github.com/studyhall-ai/server/internal/agent/repo"
	"github.com/studyhall-ai/server/internal/chunk"
	"github.com/studyhall-ai/server/internal/core"
	"github.com/studyhall-ai/server/internal/index"
	"github.com/studyhall-ai/server/internal/index/embed"
	"github.com/studyhall-ai/server/internal/ingest"
	"github.com/studyhall-ai/server/internal/study"
	logx "github.com/studyhall-ai/server/pkg/logger"
	pkgredis "github.com/studyhall-ai/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the study session demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Deployment environment, controls log level and format
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Embeddings provider
	Embedding embed.Config

	// Agent configs
	Study        model.StudyModelConfig
	Quiz         model.QuizModelConfig
	Conversation model.ConversationConfig

	// Chunking
	Chunk chunk.Config
}

// formatFileReport renders one ingestion report line for the console.
func formatFileReport(report ingest.FileReport) string {
	if report.Skipped {
		return fmt.Sprintf("  skipped %s: %s", report.Name, report.Reason)
	}
	return fmt.Sprintf("  loaded %s (%d documents)", report.Name, report.Documents)
}

func main() {
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	embedder, err := embed.NewClient(envCfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %v", err)
	}

	chatModels, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:      envCfg.APIKey,
		BaseURL:     envCfg.BaseURL,
		StudyConfig: &envCfg.Study,
		QuizConfig:  &envCfg.Quiz,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	svc, err := study.NewService(study.ServiceConfig{
		Ingestor:     ingest.NewIngestor(),
		Splitter:     chunk.NewSplitter(envCfg.Chunk),
		IndexBuilder: index.NewMemoryBuilder(embedder),
		ChatModels:   chatModels,
		Conversation: envCfg.Conversation,
		ConvRepo:     repo.NewRedisConversationRepository(rdb, ttl),
		ReviewRepo:   study.NewRedisReviewRepository(rdb, ttl),
	})
	if err != nil {
		log.Fatalf("Failed to create study service: %v", err)
	}

	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{"testdata/notes.md"}
	}

	session, err := svc.NewSession(ctx, paths)
	if err != nil {
		log.Fatalf("Failed to create study session: %v", err)
	}

	fmt.Printf("Session %s ready: %d chunks from %d files\n", session.ID, session.Index.Len(), len(session.Files))
	for _, report := range session.Files {
		fmt.Println(formatFileReport(report))
	}

	// ====================================================
	// Study assistant turn
	question := "Summarize the key points of the uploaded material."
	fmt.Printf("\nQuestion: %s\nProcessing...\n", question)

	answer, err := svc.Ask(ctx, session, question)
	if err != nil {
		log.Fatalf("Failed to run study turn: %v", err)
	}
	fmt.Printf("Answer: %s\n", answer)

	// ====================================================
	// Quiz generation
	fmt.Println("\nGenerating quiz...")
	result, err := svc.GenerateQuiz(ctx, session, study.QuizRequest{
		Count:      3,
		Difficulty: "medium",
	})
	if err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}

	if !result.Parsed {
		fmt.Printf("Quiz (raw text fallback):\n%s\n", result.RawText)
		return
	}

	fmt.Printf("Quiz: %s\n", result.Quiz.Title)
	for _, q := range result.Quiz.Questions {
		fmt.Printf("  %d. [%s] %s\n", q.ID, q.Type, q.Question)
		for i, opt := range q.Options {
			fmt.Printf("     %d) %s\n", i, opt)
		}
	}
}
