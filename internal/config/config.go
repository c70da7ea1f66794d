package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sheetchat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Upload   UploadConfig
	Session  SessionConfig
	Database DatabaseConfig
	Ops      OpsConfig
	LogLevel string
}

// AIConfig holds completion service settings
type AIConfig struct {
	OpenAIKey    string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	HistoryLimit int // user prompts kept in the window; 0 keeps everything
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds spreadsheet upload and preview settings
type UploadConfig struct {
	MaxFileMB   int
	PreviewRows int
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// DatabaseConfig holds the optional usage-ledger connection
type DatabaseConfig struct {
	URL string
}

// OpsConfig holds health/profiling server settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "gpt-3.5-turbo"
	DefaultMaxTokens    = 400
	DefaultTemperature  = 0.2
	DefaultHistoryLimit = 0
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:     loadAIConfig(),
		Server: loadServerConfig(),
		Upload: UploadConfig{
			MaxFileMB:   getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
			PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 50),
		},
		Session: SessionConfig{
			IdleTTL:       getEnvDurationOrDefault("SESSION_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Ops: OpsConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:      getEnvOrDefault("OPENAI_BASE_URL", DefaultBaseURL),
		Model:        getEnvOrDefault("LLM_MODEL", DefaultModel),
		MaxTokens:    getEnvIntOrDefault("MAX_TOKENS", DefaultMaxTokens),
		Temperature:  getEnvFloatOrDefault("TEMPERATURE", DefaultTemperature),
		HistoryLimit: getEnvIntOrDefault("HISTORY_LIMIT", DefaultHistoryLimit),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

// HasAPIKey reports whether a completion credential is configured
func (c *Config) HasAPIKey() bool {
	return c.AI.OpenAIKey != ""
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxFileMB) * 1024 * 1024
}

// Validate checks ranges; a missing API key is allowed and only warned about
func (c *Config) Validate() error {
	if err := validatePort("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Ops.Enabled {
		if err := validatePort("OPS_PORT", c.Ops.Port); err != nil {
			return err
		}
	}
	if c.AI.Model == "" {
		return errors.ConfigInvalid("LLM_MODEL must not be empty")
	}
	if c.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("MAX_TOKENS must be positive")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return errors.ConfigInvalid("TEMPERATURE must be between 0 and 2")
	}
	if c.AI.HistoryLimit < 0 {
		return errors.ConfigInvalid("HISTORY_LIMIT must not be negative")
	}
	if c.Upload.MaxFileMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if c.Upload.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("session durations must be positive")
	}
	return nil
}

func validatePort(name, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return errors.ConfigInvalid(fmt.Sprintf("%s must be a valid port, got %q", name, port))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
