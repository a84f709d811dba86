// ABOUTME: Centralized configuration for the longform generation core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the longform system
type Config struct {
	// Charm settings (session store)
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Generation backend settings
	OpenAIKey    string
	AnthropicKey string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration

	// Coherence settings
	WordsPerChunk  int
	ShortfallRatio float64
	ChunkDelay     time.Duration

	// Retrieval bounds for skeleton extraction
	MaxPositions int
	MaxQuotes    int
	MaxArguments int
	MaxExcerpts  int

	// Source library settings
	LibraryPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		CharmHost:      getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:    getEnv("CHARM_DB", "longform"),
		AutoSync:       getEnvBool("CHARM_AUTO_SYNC", true),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		Model:          getEnv("LONGFORM_MODEL", "gpt-4o-mini"),
		Timeout:        getEnvDuration("LONGFORM_TIMEOUT", 120*time.Second),
		MaxRetries:     getEnvInt("LONGFORM_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("LONGFORM_RETRY_DELAY", 2*time.Second),
		WordsPerChunk:  getEnvInt("LONGFORM_WORDS_PER_CHUNK", 1000),
		ShortfallRatio: getEnvFloat("LONGFORM_SHORTFALL_RATIO", 0.9),
		ChunkDelay:     getEnvDuration("LONGFORM_CHUNK_DELAY", 2*time.Second),
		MaxPositions:   getEnvInt("LONGFORM_MAX_POSITIONS", 20),
		MaxQuotes:      getEnvInt("LONGFORM_MAX_QUOTES", 20),
		MaxArguments:   getEnvInt("LONGFORM_MAX_ARGUMENTS", 10),
		MaxExcerpts:    getEnvInt("LONGFORM_MAX_EXCERPTS", 5),
		LibraryPath:    os.Getenv("LONGFORM_LIBRARY_PATH"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.WordsPerChunk <= 0 {
		return fmt.Errorf("LONGFORM_WORDS_PER_CHUNK must be positive, got %d", c.WordsPerChunk)
	}
	if c.ShortfallRatio <= 0 || c.ShortfallRatio > 1 {
		return fmt.Errorf("LONGFORM_SHORTFALL_RATIO must be in (0,1], got %f", c.ShortfallRatio)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("LONGFORM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ChunkDelay < 0 {
		return fmt.Errorf("LONGFORM_CHUNK_DELAY must not be negative, got %v", c.ChunkDelay)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
