package config

import (
	"card-assist/internal/core"
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        string `envconfig:"PORT" default:"8000"`
	Version     string `envconfig:"APP_VERSION" default:"0.1.0"`

	LLMProvider       string `envconfig:"LLM_PROVIDER" default:"hf"`
	EmbeddingProvider string `envconfig:"EMBEDDING_PROVIDER" default:"hf"`

	HF          HFConfig
	Gemini      GeminiConfig
	Planner     PlannerConfig
	Synthesizer SynthesizerConfig
	Knowledge   KnowledgeConfig
	Qdrant      QdrantConfig
	Redis       RedisConfig
	Turns       TurnConfig

	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"25s"`
	UpstreamRetries int           `envconfig:"UPSTREAM_RETRIES" default:"0"`
}

type HFConfig struct {
	Token          string `envconfig:"HF_TOKEN"`
	LLMModel       string `envconfig:"HF_LLM_MODEL" default:"openai/gpt-oss-20b"`
	EmbeddingModel string `envconfig:"HF_EMBEDDING_MODEL" default:"intfloat/multilingual-e5-large"`
	BaseURL        string `envconfig:"HF_BASE_URL" default:"https://router.huggingface.co/v1"`
	InferenceURL   string `envconfig:"HF_INFERENCE_URL" default:"https://router.huggingface.co/hf-inference"`
}

type GeminiConfig struct {
	APIKey         string `envconfig:"GEMINI_API_KEY"`
	Model          string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	FallbackModel  string `envconfig:"GEMINI_FALLBACK_MODEL"`
	EmbeddingModel string `envconfig:"GEMINI_EMBEDDING_MODEL" default:"text-embedding-004"`
}

type PlannerConfig struct {
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.1"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"256"`
}

type SynthesizerConfig struct {
	Temperature float32 `envconfig:"SYNTH_TEMPERATURE" default:"0.4"`
	MaxTokens   int     `envconfig:"SYNTH_MAX_TOKENS" default:"256"`
}

type KnowledgeConfig struct {
	Path      string  `envconfig:"KB_PATH" default:"knowledge_base/faqs.yaml"`
	Threshold float32 `envconfig:"KB_THRESHOLD" default:"0.7"`
	Index     string  `envconfig:"KB_INDEX" default:"memory"`
}

type QdrantConfig struct {
	Host       string `envconfig:"QDRANT_HOST" default:"localhost"`
	Port       int    `envconfig:"QDRANT_PORT" default:"6334"`
	APIKey     string `envconfig:"QDRANT_API_KEY"`
	UseTLS     bool   `envconfig:"QDRANT_USE_TLS" default:"false"`
	Collection string `envconfig:"QDRANT_COLLECTION" default:"card_assist_faqs"`
}

type RedisConfig struct {
	AccountStore string `envconfig:"ACCOUNT_STORE" default:"memory"`
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD"`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
}

// New connects and pings. Timeouts are in seconds.
func (r *RedisConfig) New(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         r.Addr,
		Password:     r.Password,
		DB:           r.DB,
		DialTimeout:  time.Duration(r.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(r.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(r.ReadTimeout) * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

type TurnConfig struct {
	Limit   int           `envconfig:"TURN_LIMIT" default:"0"`
	Window  time.Duration `envconfig:"TURN_WINDOW" default:"1m"`
	Timeout time.Duration `envconfig:"TURN_TIMEOUT" default:"60s"`
}

// Load reads an optional .env file and then the process environment.
// Returns whether a .env file was found alongside the config.
func Load(envFiles ...string) (*Config, bool, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv := godotenv.Load(envFiles...) == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, dotenv, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, dotenv, err
	}
	return &cfg, dotenv, nil
}

func (c *Config) validate() error {
	if err := oneOf("ENVIRONMENT", c.Environment,
		core.Development.String(), core.Staging.String(), core.Testing.String(), core.Production.String()); err != nil {
		return err
	}
	if err := oneOf("LLM_PROVIDER", c.LLMProvider, "hf", "gemini"); err != nil {
		return err
	}
	if err := oneOf("EMBEDDING_PROVIDER", c.EmbeddingProvider, "hf", "gemini"); err != nil {
		return err
	}
	if err := oneOf("KB_INDEX", c.Knowledge.Index, "memory", "qdrant"); err != nil {
		return err
	}
	if err := oneOf("ACCOUNT_STORE", c.Redis.AccountStore, "memory", "redis"); err != nil {
		return err
	}
	if (c.LLMProvider == "gemini" || c.EmbeddingProvider == "gemini") && c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when a gemini provider is selected")
	}
	if c.Turns.Limit < 0 {
		return fmt.Errorf("TURN_LIMIT must not be negative")
	}
	if c.Planner.MaxTokens <= 0 || c.Synthesizer.MaxTokens <= 0 {
		return fmt.Errorf("PLANNER_MAX_TOKENS and SYNTH_MAX_TOKENS must be positive")
	}
	return nil
}

// Env returns the parsed deployment environment.
func (c *Config) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// NeedsRedis reports whether any component is backed by Redis.
func (c *Config) NeedsRedis() bool {
	return c.Redis.AccountStore == "redis" || c.Turns.Limit > 0
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}
