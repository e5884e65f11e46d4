package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscripts(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := validateOptionalURL("notifications.ntfy_topic", c.Notifications.NtfyTopic); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscripts() error {
	if err := validateOptionalURL("transcripts.cdn_base_url", c.Transcripts.CDNBaseURL); err != nil {
		return err
	}
	if err := validateOptionalURL("transcripts.api_base_url", c.Transcripts.APIBaseURL); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"transcripts.request_timeout_seconds":    c.Transcripts.RequestTimeoutSeconds,
		"transcripts.generation_timeout_seconds": c.Transcripts.GenerationTimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	switch c.Analysis.Provider {
	case "backend":
		return nil
	case "llm":
		if strings.TrimSpace(c.LLM.BaseURL) == "" {
			return errors.New("llm.base_url must be set when analysis.provider is llm")
		}
		if strings.TrimSpace(c.LLM.Model) == "" {
			return errors.New("llm.model must be set when analysis.provider is llm")
		}
		return nil
	default:
		return fmt.Errorf("analysis.provider: unsupported value %q (expected backend or llm)", c.Analysis.Provider)
	}
}

func (c *Config) validatePlayback() error {
	if c.Playback.TickIntervalMS <= 0 {
		return errors.New("playback.tick_interval_ms must be positive")
	}
	if c.Playback.FrameIntervalMS > 0 && c.Playback.FrameIntervalMS >= c.Playback.TickIntervalMS {
		return errors.New("playback.frame_interval_ms must be smaller than playback.tick_interval_ms")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateOptionalURL(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
