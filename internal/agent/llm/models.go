package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	ClassifierConfig *model.ClassifierModelConfig
	GeneratorConfig  *model.GeneratorModelConfig
}

// ChatModels holds the two completion models the planner uses: a cheap
// classifier for intent/slot/code decisions and a generator for chat
// replies and itinerary synthesis.
type ChatModels struct {
	Classifier *gemini.ChatModel
	Generator  *gemini.ChatModel

	ClassifierName    string
	GeneratorName     string
	ClassifierTimeout time.Duration
	GeneratorTimeout  time.Duration
}

// NewChatModels creates both chat models over a shared Gemini client.
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

	classifier, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ClassifierConfig.Model,
		Temperature: &config.ClassifierConfig.Temperature,
		MaxTokens:   &config.ClassifierConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	generator, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.GeneratorConfig.Model,
		Temperature: &config.GeneratorConfig.Temperature,
		MaxTokens:   &config.GeneratorConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating generator model")
		return nil, fmt.Errorf("error creating generator model: %w", err)
	}

	classifierTimeout, err := time.ParseDuration(config.ClassifierConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier timeout %q: %w", config.ClassifierConfig.Timeout, err)
	}
	generatorTimeout, err := time.ParseDuration(config.GeneratorConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid generator timeout %q: %w", config.GeneratorConfig.Timeout, err)
	}

	return &ChatModels{
		Classifier:        classifier,
		Generator:         generator,
		ClassifierName:    config.ClassifierConfig.Model,
		GeneratorName:     config.GeneratorConfig.Model,
		ClassifierTimeout: classifierTimeout,
		GeneratorTimeout:  generatorTimeout,
	}, nil
}
