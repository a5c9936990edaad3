package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrocha/faqbot/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "test-key")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "default-secret-key-change-in-production", cfg.Server.SessionSecret)
	assert.Equal(t, 512, cfg.Server.MaxInputChars)

	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.InDelta(t, 0.4, cfg.AI.Temperature, 0.001)
	assert.InDelta(t, 0.8, cfg.AI.TopP, 0.001)
	assert.InDelta(t, 30, cfg.AI.TopK, 0.001)
	assert.Equal(t, int32(100), cfg.AI.MaxOutputTokens)
	assert.Equal(t, 10, cfg.AI.MaxPromptTurns)

	assert.Equal(t, "faqs.json", cfg.FAQ.Path)
	assert.InDelta(t, 75, cfg.FAQ.Threshold, 0.001)

	assert.Equal(t, "chatbot_logs.db", cfg.Database.Path)
	assert.False(t, cfg.Scheduler.MaintenanceEnabled)

	assert.Equal(t, "Conversation reset.", cfg.Messages.ResetAck)
	assert.Contains(t, cfg.Messages.InputTooLong, "Input too long")
	assert.Contains(t, cfg.Messages.GenerationError, "%v")

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "test-key")

	content := `
server:
  port: 8080
  max_input_chars: 256
faq:
  threshold: 60
ai:
  model: gemini-2.5-pro
  timeout: 30s
log:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 256, cfg.Server.MaxInputChars)
	assert.InDelta(t, 60, cfg.FAQ.Threshold, 0.001)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "chatbot_logs.db", cfg.Database.Path)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "test-key")
	t.Setenv("CHATBOT_SERVER_PORT", "9999")

	content := "server:\n  port: 8080\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "test-key")

	content := "faq:\n  threshold: 150\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadConfigMalformedFile(t *testing.T) {
	t.Setenv("CHATBOT_AI_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := config.LoadConfig(path)
	require.Error(t, err)
}
