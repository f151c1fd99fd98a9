package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type Config struct {
	Server      ServerConfig
	Generation  GenerationConfig
	Render      RenderConfig
	Session     SessionConfig
	Lock        LockConfig
	RedisConfig RedisConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
}

// GenerationConfig describes the text-generation endpoint. It is read once at
// start and handed to the generation client.
type GenerationConfig struct {
	Provider string `env:"GENERATION_PROVIDER" envDefault:"ollama"`
	URL      string `env:"GENERATION_URL" envDefault:"http://localhost:11434/api/generate"`
	Model    string `env:"GENERATION_MODEL" envDefault:"llama3"`
	APIKey   string `env:"GENERATION_API_KEY"`
	// Timeout of 0 keeps the HTTP client default (no timeout).
	Timeout   time.Duration `env:"GENERATION_TIMEOUT" envDefault:"0s"`
	RateLimit float64       `env:"GENERATION_RATE_LIMIT" envDefault:"0"`
}

type RenderConfig struct {
	MermaidURL string `env:"RENDER_MERMAID_URL" envDefault:"https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs"`
}

type SessionConfig struct {
	Lifetime   time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"aidiagram_session"`
}

type LockConfig struct {
	Backend string        `env:"LOCK_BACKEND" envDefault:"memory"`
	TTL     time.Duration `env:"LOCK_TTL" envDefault:"10m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Generation.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("GENERATION_PROVIDER must be %q or %q, got %q", ProviderOllama, ProviderOpenAI, c.Generation.Provider)
	}
	if c.Generation.URL == "" {
		return errors.New("GENERATION_URL is empty")
	}
	if c.Generation.Model == "" {
		return errors.New("GENERATION_MODEL is empty")
	}
	if c.Generation.RateLimit < 0 {
		return errors.New("GENERATION_RATE_LIMIT must not be negative")
	}
	switch c.Lock.Backend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return fmt.Errorf("LOCK_BACKEND must be %q or %q, got %q", LockBackendMemory, LockBackendRedis, c.Lock.Backend)
	}
	return nil
}
