package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/studyhall-ai/server/internal/agent/model"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey      string
	BaseURL     string
	StudyConfig *model.StudyModelConfig
	QuizConfig  *model.QuizModelConfig
}

// ChatModels holds the study assistant and quiz generator chat models. The
// fields are the tool-calling interface so tests can substitute stubs.
type ChatModels struct {
	Study          einomodel.ToolCallingChatModel
	Quiz           einomodel.ToolCallingChatModel
	StudyModelName string
	QuizModelName  string
}

// NewChatModels creates both chat models against one Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelStudy, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.StudyConfig.Model,
		Temperature: &config.StudyConfig.Temperature,
		MaxTokens:   &config.StudyConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating study model")
		return nil, fmt.Errorf("error creating study model: %w", err)
	}

	chatModelQuiz, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.QuizConfig.Model,
		Temperature: &config.QuizConfig.Temperature,
		MaxTokens:   &config.QuizConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating quiz model")
		return nil, fmt.Errorf("error creating quiz model: %w", err)
	}

	return &ChatModels{
		Study:          chatModelStudy,
		Quiz:           chatModelQuiz,
		StudyModelName: config.StudyConfig.Model,
		QuizModelName:  config.QuizConfig.Model,
	}, nil
}
