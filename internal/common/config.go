package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Batch  BatchConfig
	Upload UploadConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string
}

// LLMConfig holds vision model configuration.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// BatchConfig holds pipeline configuration.
type BatchConfig struct {
	Concurrency     int
	ArtifactTTL     time.Duration
	JanitorInterval time.Duration
}

// UploadConfig holds upload-boundary limits.
type UploadConfig struct {
	MaxUploadMB int
}

// LoadConfig loads configuration from environment variables. Credentials and
// limits are injected from here at construction time; core components never
// read ambient globals.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("LISTEN_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Batch: BatchConfig{
			Concurrency:     getEnvAsInt("EXTRACT_CONCURRENCY", 4),
			ArtifactTTL:     getEnvAsDuration("ARTIFACT_TTL", time.Hour),
			JanitorInterval: getEnvAsDuration("JANITOR_INTERVAL", 5*time.Minute),
		},
		Upload: UploadConfig{
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 50),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "LISTEN_ADDR is required", ErrInvalidInput)
	}
	if c.Upload.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	return nil
}
