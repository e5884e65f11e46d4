package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Transcripts contains configuration for transcript acquisition.
type Transcripts struct {
	// CDNBaseURL is the content-addressed transcript store. Empty disables the
	// remote cache tier.
	CDNBaseURL string `toml:"cdn_base_url"`
	// APIBaseURL is the backend hosting the generation and analysis services.
	APIBaseURL               string `toml:"api_base_url"`
	TargetLanguage           string `toml:"target_language"`
	RequestTimeoutSeconds    int    `toml:"request_timeout_seconds"`
	GenerationTimeoutSeconds int    `toml:"generation_timeout_seconds"`
	LocalCache               bool   `toml:"local_cache"`
}

// Analysis contains configuration for line analysis requests.
type Analysis struct {
	// Provider selects the analyzer: "backend" posts to the API service,
	// "llm" calls the configured chat completion endpoint directly.
	Provider       string `toml:"provider"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the direct LLM analyzer.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Playback contains configuration for the synchronized player.
type Playback struct {
	AutoScroll      bool `toml:"auto_scroll"`
	TickIntervalMS  int  `toml:"tick_interval_ms"`
	FrameIntervalMS int  `toml:"frame_interval_ms"`
}

// Notifications contains configuration for ntfy alerts.
type Notifications struct {
	// NtfyTopic is the full ntfy topic URL; empty disables notifications.
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lingocast.
//
// Configuration sections by subsystem:
//   - Paths: data (local transcript cache) and log directories
//   - Transcripts: CDN cache, generation service, target language
//   - Analysis: analyzer provider selection
//   - LLM: direct chat completion settings for the llm provider
//   - Playback: auto-scroll and clock cadence
//   - Notifications: ntfy alerts for long-running generation
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcripts   Transcripts   `toml:"transcripts"`
	Analysis      Analysis      `toml:"analysis"`
	LLM           LLM           `toml:"llm"`
	Playback      Playback      `toml:"playback"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lingocast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheDBPath returns the location of the local transcript cache database.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Paths.DataDir, "transcripts.db")
}

// LockDir holds the per-episode generation lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.DataDir, "locks")
}

// RequestTimeout returns the timeout applied to remote cache requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Transcripts.RequestTimeoutSeconds) * time.Second
}

// GenerationTimeout returns the timeout applied to on-demand transcript generation.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Transcripts.GenerationTimeoutSeconds) * time.Second
}

// AnalysisTimeout returns the timeout applied to a single analysis request.
func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

// TickInterval returns the simulated media progress cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickIntervalMS) * time.Millisecond
}

// FrameInterval returns the interpolated highlight cadence. Zero disables it.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Playback.FrameIntervalMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the settings used to construct the direct LLM analyzer.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the LLM connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}
