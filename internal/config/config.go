// Package config provides environment configuration for the bot.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Mattermost settings
	MattermostURL  string
	BotToken       string
	BotTeam        string
	MattermostPort int

	// ClickUp settings
	ClickUpAPIToken string
	ClickUpBaseURL  string
	ClickUpTimeout  time.Duration

	// NATS settings (optional audit stream)
	NATSURL   string
	NATSToken string

	// Health server
	HTTPPort           string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables. Variable names match
// the original deployment so existing .env files keep working.
func Load() *Config {
	return &Config{
		// Mattermost
		MattermostURL:  getEnv("MATTERMOST_URL", "http://127.0.0.1"),
		BotToken:       getEnv("BOT_TOKEN", ""),
		BotTeam:        getEnv("BOT_TEAM", ""),
		MattermostPort: getIntEnv("MATTERMOST_PORT", 8065),

		// ClickUp
		ClickUpAPIToken: getEnv("CLICKUP_API_TOKEN", ""),
		ClickUpBaseURL:  getEnv("CLICKUP_BASE_URL", "https://api.clickup.com/api/v2"),
		ClickUpTimeout:  getDurationEnv("CLICKUP_TIMEOUT", 30*time.Second),

		// NATS
		NATSURL:   getEnv("NATS_URL", ""),
		NATSToken: getEnv("NATS_TOKEN", ""),

		// Health server
		HTTPPort:           getEnv("HTTP_PORT", "5001"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
