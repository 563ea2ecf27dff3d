// Package config loads runtime settings from the environment and the
// prompt document.
//
// Information Hiding:
// - Environment variable names and defaults internalized
// - Parsing helpers hidden from consumers

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/richinex/citychat/storage"
)

// Settings holds everything read from the environment at startup.
type Settings struct {
	// Provider selects the LLM backend: openai, anthropic, groq or gemini.
	Provider string
	// Model overrides the provider's default model when non-empty.
	Model string

	// MaxTurns bounds the model-call loop per question.
	MaxTurns int
	// ToolTimeout bounds a single tool execution.
	ToolTimeout time.Duration

	// ServerAddr is the HTTP listen address.
	ServerAddr string
	// RequestTimeout bounds one /ask request end to end.
	RequestTimeout time.Duration

	// Database is the geo dataset connection.
	Database storage.PostgresConfig

	// ExchangeLogPath locates the SQLite audit log; empty disables it.
	ExchangeLogPath string

	// PromptsPath points at a prompt document overriding the built-in one.
	PromptsPath string

	// LogLevel is debug, info, warn or error.
	LogLevel string
}

// LoadSettings reads settings from the environment, applying defaults.
func LoadSettings() Settings {
	return Settings{
		Provider:       getEnv("LLM_PROVIDER", "openai"),
		Model:          getEnv("LLM_MODEL", ""),
		MaxTurns:       getEnvInt("AGENT_MAX_TURNS", 5),
		ToolTimeout:    getEnvDuration("TOOL_TIMEOUT", 30*time.Second),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 2*time.Minute),
		Database: storage.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "geodata"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
		},
		ExchangeLogPath: getEnv("EXCHANGE_LOG_PATH", "citychat.db"),
		PromptsPath:     getEnv("PROMPTS_PATH", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
