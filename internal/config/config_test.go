package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ProviderOllama, cfg.Generation.Provider)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.Generation.URL)
	assert.Equal(t, "llama3", cfg.Generation.Model)
	assert.Zero(t, cfg.Generation.Timeout)
	assert.Equal(t, LockBackendMemory, cfg.Lock.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Lock.TTL)
	assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr)
	assert.Contains(t, cfg.Render.MermaidURL, "mermaid@10")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", "openai")
	t.Setenv("GENERATION_URL", "http://localhost:11434/v1")
	t.Setenv("GENERATION_MODEL", "qwen2.5-coder")
	t.Setenv("GENERATION_TIMEOUT", "90s")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Generation.Provider)
	assert.Equal(t, "qwen2.5-coder", cfg.Generation.Model)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, LockBackendRedis, cfg.Lock.Backend)
	assert.Equal(t, 3, cfg.RedisConfig.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "GENERATION_PROVIDER", "bard"},
		{"unknown lock backend", "LOCK_BACKEND", "etcd"},
		{"negative rate", "GENERATION_RATE_LIMIT", "-1"},
		{"bad duration", "GENERATION_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
