package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_LLMSettings(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("LLM_MAX_ATTEMPTS", "3")
	t.Setenv("LLM_RETRY_INTERVAL", "250ms")
	t.Setenv("LLM_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RetryInterval)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LLM_BASE_URL", "LLM_MAX_ATTEMPTS", "LLM_RETRY_INTERVAL", "EVAL_CONCURRENCY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Empty(t, cfg.LLM.BaseURL)
	assert.Equal(t, 1, cfg.LLM.MaxAttempts)
	assert.Equal(t, time.Second, cfg.LLM.RetryInterval)
	assert.Equal(t, 1, cfg.Worker.Concurrency)
}
