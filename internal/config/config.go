package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/crackify-ai/crackify-client/internal/store"
)

type Config struct {
	// Backend endpoints
	APIBaseURL string
	WSBaseURL  string

	// Auth: opaque bearer token, never inspected or refreshed here
	AuthToken string

	// Interview setup
	SessionID  string
	Role       string
	Company    string
	Language   string
	ResumePath string
	JDPath     string

	// Capture settings
	CaptureRate     int
	FramesPerBuffer int

	// Silence suppression (off by default: the backend expects the full
	// stream)
	VADEnabled bool
	VADMode    int

	// Reconnect policy
	ReconnectAttempts int
	ReconnectWait     time.Duration

	// Local archive
	DataDir string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using environment variables only")
	}

	cfg := &Config{
		APIBaseURL: getEnvOrDefault("CRACKIFY_API_BASE_URL", "https://api.crackify.ai"),
		WSBaseURL:  getEnvOrDefault("CRACKIFY_WS_BASE_URL", "wss://api.crackify.ai"),
		AuthToken:  os.Getenv("CRACKIFY_AUTH_TOKEN"),

		SessionID:  os.Getenv("CRACKIFY_SESSION_ID"),
		Role:       os.Getenv("CRACKIFY_ROLE"),
		Company:    os.Getenv("CRACKIFY_COMPANY"),
		Language:   getEnvOrDefault("CRACKIFY_LANGUAGE", "Java"),
		ResumePath: os.Getenv("CRACKIFY_RESUME_PATH"),
		JDPath:     os.Getenv("CRACKIFY_JD_PATH"),

		CaptureRate:     getIntEnvOrDefault("CAPTURE_RATE", 48000),
		FramesPerBuffer: getIntEnvOrDefault("CAPTURE_FRAMES_PER_BUFFER", 1024),

		VADEnabled: getBoolEnvOrDefault("VAD_ENABLED", false),
		VADMode:    getIntEnvOrDefault("VAD_MODE", 2),

		ReconnectAttempts: getIntEnvOrDefault("RECONNECT_ATTEMPTS", 5),
		ReconnectWait:     time.Duration(getIntEnvOrDefault("RECONNECT_WAIT_MS", 2000)) * time.Millisecond,

		DataDir: getEnvOrDefault("DATA_DIR", "./data"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Without a backend-issued session id, mint a local one so the interview
	// is still archived under a stable name.
	if cfg.SessionID == "" {
		cfg.SessionID = store.GenerateSessionID()
		log.Info().Str("session_id", cfg.SessionID).Msg("No session id configured, generated a local one")
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.AuthToken == "" {
		return fmt.Errorf("CRACKIFY_AUTH_TOKEN is required")
	}

	if c.CaptureRate <= 0 {
		return fmt.Errorf("CAPTURE_RATE must be positive")
	}

	if c.VADMode < 0 || c.VADMode > 3 {
		return fmt.Errorf("VAD_MODE must be between 0 and 3")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnvOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
