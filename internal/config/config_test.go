package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"MATTERMOST_URL", "BOT_TOKEN", "MATTERMOST_PORT",
		"CLICKUP_API_TOKEN", "CLICKUP_BASE_URL", "NATS_URL",
		"HTTP_PORT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "http://127.0.0.1", cfg.MattermostURL)
	assert.Equal(t, 8065, cfg.MattermostPort)
	assert.Equal(t, "https://api.clickup.com/api/v2", cfg.ClickUpBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ClickUpTimeout)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "5001", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MATTERMOST_URL", "https://chat.example.com")
	t.Setenv("MATTERMOST_PORT", "443")
	t.Setenv("BOT_TOKEN", "token-1")
	t.Setenv("CLICKUP_API_TOKEN", "pk_123")
	t.Setenv("CLICKUP_TIMEOUT", "10s")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "https://chat.example.com", cfg.MattermostURL)
	assert.Equal(t, 443, cfg.MattermostPort)
	assert.Equal(t, "token-1", cfg.BotToken)
	assert.Equal(t, "pk_123", cfg.ClickUpAPIToken)
	assert.Equal(t, 10*time.Second, cfg.ClickUpTimeout)
	assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("MATTERMOST_PORT", "not-a-port")
	t.Setenv("CLICKUP_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 8065, cfg.MattermostPort)
	assert.Equal(t, 30*time.Second, cfg.ClickUpTimeout)
}
