package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tripflow/server/internal/agent/adapters/openweather"
	"github.com/tripflow/server/internal/agent/adapters/serpapi"
	"github.com/tripflow/server/internal/agent/graph"
	"github.com/tripflow/server/internal/agent/llm"
	"github.com/tripflow/server/internal/agent/model"
	"github.com/tripflow/server/internal/agent/repo"
	"github.com/tripflow/server/internal/core"
	logx "github.com/tripflow/server/pkg/logger"
	pkgredis "github.com/tripflow/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the planner, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Redis       pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Planner configs
	Classifier   model.ClassifierModelConfig
	Generator    model.GeneratorModelConfig
	Search       model.SearchProviderConfig
	Conversation model.ConversationConfig

	UserID    string `envconfig:"USER_ID" default:"local-user"`
	SessionID string `envconfig:"SESSION_ID" default:"local-session"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

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

	stateTTL, err := time.ParseDuration(envCfg.Conversation.StateTTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_STATE_TTL %q: %v", envCfg.Conversation.StateTTL, err)
	}
	cacheTTL, err := time.ParseDuration(envCfg.Conversation.Cache.SearchTTL)
	if err != nil {
		log.Fatalf("Invalid SEARCH_CACHE_TTL %q: %v", envCfg.Conversation.Cache.SearchTTL, err)
	}
	searchTimeout, err := time.ParseDuration(envCfg.Search.RequestTimeout)
	if err != nil {
		log.Fatalf("Invalid SEARCH_REQUEST_TIMEOUT %q: %v", envCfg.Search.RequestTimeout, err)
	}

	models, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ClassifierConfig: &envCfg.Classifier,
		GeneratorConfig:  &envCfg.Generator,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	serp := serpapi.NewClient(envCfg.Search.SerpAPIKey, envCfg.Search.Currency, searchTimeout)
	weather := openweather.NewClient(envCfg.Search.WeatherAPIKey, searchTimeout)

	planner, err := graph.BuildPlanner(graph.Config{
		Store:     repo.NewRedisStateStore(rdb, stateTTL),
		Cache:     repo.NewRedisSearchCache(rdb, cacheTTL),
		Completer: models,
		Flights:   serp,
		Hotels:    serp,
		Weather:   weather,
		WebSearch: serp,
		MaxHops:   envCfg.Conversation.Graph.MaxHops,
	})
	if err != nil {
		log.Fatalf("Failed to build planner: %v", err)
	}

	runREPL(ctx, planner, envCfg.UserID, envCfg.SessionID)
}

// runREPL reads user turns from stdin until EOF or a quit command.
func runREPL(ctx context.Context, planner *graph.Planner, userID, sessionID string) {
	fmt.Println("Travel planner ready. Type 'quit' to exit, 'clear' to restart the conversation.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Bye!")
			return
		case "clear":
			if err := planner.ClearConversation(ctx, userID, sessionID); err != nil {
				fmt.Printf("Could not clear the conversation: %v\n", err)
			} else {
				fmt.Println("Conversation cleared.")
			}
			continue
		}

		replies, err := planner.Turn(ctx, model.TurnInput{
			UserID:      userID,
			SessionID:   sessionID,
			UserMessage: line,
		})
		if err != nil {
			fmt.Printf("Something went wrong: %v\n", err)
			continue
		}
		for _, r := range replies {
			fmt.Println(r)
		}
	}
}
