package testsupport

import (
	"path/filepath"
	"testing"

	"lingocast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Service URLs are left empty so no test talks to the network by accident.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Transcripts.CDNBaseURL = ""
	cfg.Transcripts.APIBaseURL = ""
	cfg.LLM.APIKey = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithCDN points the remote transcript cache at url.
func WithCDN(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcripts.CDNBaseURL = url
	}
}

// WithAPI points the generation and analysis backend at url.
func WithAPI(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcripts.APIBaseURL = url
	}
}

// WithLocalCache toggles the SQLite transcript cache.
func WithLocalCache(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcripts.LocalCache = enabled
	}
}

// WithLLM selects the direct LLM analyzer against url.
func WithLLM(url, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.Provider = "llm"
		cfg.LLM.BaseURL = url
		cfg.LLM.APIKey = apiKey
	}
}
