// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "longform" {
		t.Errorf("CharmDBName = %s, want longform", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s, want gpt-4o-mini", cfg.Model)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.WordsPerChunk != 1000 {
		t.Errorf("WordsPerChunk = %d, want 1000", cfg.WordsPerChunk)
	}
	if cfg.ShortfallRatio != 0.9 {
		t.Errorf("ShortfallRatio = %f, want 0.9", cfg.ShortfallRatio)
	}
	if cfg.ChunkDelay != 2*time.Second {
		t.Errorf("ChunkDelay = %v, want 2s", cfg.ChunkDelay)
	}
	if cfg.MaxPositions != 20 || cfg.MaxQuotes != 20 || cfg.MaxArguments != 10 || cfg.MaxExcerpts != 5 {
		t.Errorf("retrieval bounds = %d/%d/%d/%d, want 20/20/10/5",
			cfg.MaxPositions, cfg.MaxQuotes, cfg.MaxArguments, cfg.MaxExcerpts)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHARM_HOST", "custom.charm.sh")
	os.Setenv("CHARM_DB", "test_db")
	os.Setenv("CHARM_AUTO_SYNC", "false")
	os.Setenv("LONGFORM_MODEL", "claude-sonnet-4-20250514")
	os.Setenv("LONGFORM_TIMEOUT", "60s")
	os.Setenv("LONGFORM_MAX_RETRIES", "5")
	os.Setenv("LONGFORM_WORDS_PER_CHUNK", "500")
	os.Setenv("LONGFORM_SHORTFALL_RATIO", "0.8")
	os.Setenv("LONGFORM_CHUNK_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %s, want claude-sonnet-4-20250514", cfg.Model)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.WordsPerChunk != 500 {
		t.Errorf("WordsPerChunk = %d, want 500", cfg.WordsPerChunk)
	}
	if cfg.ShortfallRatio != 0.8 {
		t.Errorf("ShortfallRatio = %f, want 0.8", cfg.ShortfallRatio)
	}
	if cfg.ChunkDelay != 250*time.Millisecond {
		t.Errorf("ChunkDelay = %v, want 250ms", cfg.ChunkDelay)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero words per chunk", func(c *Config) { c.WordsPerChunk = 0 }},
		{"negative words per chunk", func(c *Config) { c.WordsPerChunk = -10 }},
		{"zero shortfall ratio", func(c *Config) { c.ShortfallRatio = 0 }},
		{"shortfall ratio above one", func(c *Config) { c.ShortfallRatio = 1.5 }},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }},
		{"negative chunk delay", func(c *Config) { c.ChunkDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have returned an error")
			}
		})
	}
}

func TestLoad_InvalidEnvValuesFallBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("LONGFORM_WORDS_PER_CHUNK", "not-a-number")
	os.Setenv("LONGFORM_CHUNK_DELAY", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.WordsPerChunk != 1000 {
		t.Errorf("WordsPerChunk = %d, want default 1000", cfg.WordsPerChunk)
	}
	if cfg.ChunkDelay != 2*time.Second {
		t.Errorf("ChunkDelay = %v, want default 2s", cfg.ChunkDelay)
	}
}
