package main

import (
	"context"
	"time"

	"card-assist/internal/adapter/api"
	"card-assist/internal/adapter/client"
	"card-assist/internal/adapter/corpus"
	"card-assist/internal/adapter/store"
	"card-assist/internal/config"
	"card-assist/internal/domain/repository"
	"card-assist/internal/observability"
	"card-assist/internal/usecase"
	logx "card-assist/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})
	if !dotenv {
		logx.Warn().Msg(".env file not found, using system environment variables")
	}
	ctx := context.Background()

	// Redis for accounts and turn limits
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb, err = cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		}
		defer rdb.Close()
	}

	var genaiClient *genai.Client
	if cfg.LLMProvider == "gemini" || cfg.EmbeddingProvider == "gemini" {
		genaiClient, err = client.NewGenAIClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to init genai client")
		}
	}

	// Language model
	var primaryModel, fallbackModel repository.AIProvider
	switch cfg.LLMProvider {
	case "gemini":
		primaryModel = client.NewGeminiClientFromClient(genaiClient, cfg.Gemini.Model)
		if cfg.Gemini.FallbackModel != "" {
			fallbackModel = client.NewGeminiClientFromClient(genaiClient, cfg.Gemini.FallbackModel)
		}
	default:
		primaryModel = client.NewHFChatClient(cfg.HF.BaseURL, cfg.HF.Token, cfg.HF.LLMModel)
	}
	llm := usecase.NewResilientProvider(primaryModel, fallbackModel, usecase.ResilienceOptions{
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamRetries,
	})

	// Embeddings
	var embedder repository.Embedder
	switch cfg.EmbeddingProvider {
	case "gemini":
		embedder = client.NewEmbedderFromClient(genaiClient, cfg.Gemini.EmbeddingModel)
	default:
		embedder = client.NewHFEmbedder(cfg.HF.InferenceURL, cfg.HF.Token, cfg.HF.EmbeddingModel, cfg.UpstreamTimeout)
	}

	// Knowledge index
	var index repository.KnowledgeIndex
	switch cfg.Knowledge.Index {
	case "qdrant":
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
		})
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to connect to qdrant")
		}
		defer qClient.Close()
		index = store.NewQdrantStore(qClient, cfg.Qdrant.Collection)
	default:
		index = store.NewMemoryIndex()
	}

	faqs, err := corpus.LoadFile(cfg.Knowledge.Path)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.Knowledge.Path).Msg("Failed to load knowledge base")
	}
	retriever, err := usecase.NewRetriever(ctx, faqs, embedder, index)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build knowledge retriever")
	}

	// Accounts
	var accounts repository.AccountStore
	switch cfg.Redis.AccountStore {
	case "redis":
		accounts = store.NewRedisAccountStore(rdb)
	default:
		accounts = store.NewMemoryAccountStore()
	}
	if err := accounts.Seed(ctx, store.DemoAccounts(time.Now())...); err != nil {
		logx.Fatal().Err(err).Msg("Failed to seed demo accounts")
	}

	var limiter repository.TurnLimiter = store.NoopLimiter{}
	if cfg.Turns.Limit > 0 {
		limiter = store.NewRedisLimiter(rdb, cfg.Turns.Limit, cfg.Turns.Window)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// Inject the adapters into the orchestration layer
	orchestrator := usecase.NewOrchestrator(
		retriever,
		usecase.NewPlanner(llm, usecase.GenerationParams{
			Temperature: cfg.Planner.Temperature,
			MaxTokens:   cfg.Planner.MaxTokens,
		}),
		usecase.NewDispatcher(accounts),
		usecase.NewSynthesizer(llm, usecase.GenerationParams{
			Temperature: cfg.Synthesizer.Temperature,
			MaxTokens:   cfg.Synthesizer.MaxTokens,
		}),
		limiter,
		metrics,
		cfg.Knowledge.Threshold,
	)

	app := fiber.New(fiber.Config{
		AppName: "Card Assist",
	})

	handler := api.NewChatHandler(orchestrator, cfg.Turns.Timeout)
	api.SetupRouter(app, handler, api.RouterConfig{
		Version:  cfg.Version,
		Env:      cfg.Environment,
		Gatherer: registry,
	})

	logx.Info().
		Str("port", cfg.Port).
		Str("llm", cfg.LLMProvider).
		Str("kb_index", cfg.Knowledge.Index).
		Str("account_store", cfg.Redis.AccountStore).
		Int("faqs", retriever.Size()).
		Msg("Card Assist running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logx.Fatal().Err(err).Msg("Server stopped")
	}
}
