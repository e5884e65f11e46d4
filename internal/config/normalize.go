package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTranscripts(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeLLM()
	c.normalizePlayback()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscripts() error {
	c.Transcripts.CDNBaseURL = strings.TrimRight(strings.TrimSpace(c.Transcripts.CDNBaseURL), "/")
	if c.Transcripts.CDNBaseURL == "" {
		if value, ok := os.LookupEnv("LINGOCAST_CDN_BASE_URL"); ok {
			c.Transcripts.CDNBaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Transcripts.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Transcripts.APIBaseURL), "/")
	if c.Transcripts.APIBaseURL == "" {
		if value, ok := os.LookupEnv("LINGOCAST_API_BASE_URL"); ok {
			c.Transcripts.APIBaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}

	lang := strings.TrimSpace(c.Transcripts.TargetLanguage)
	if lang == "" {
		lang = defaultTargetLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("transcripts.target_language: %w", err)
	}
	c.Transcripts.TargetLanguage = tag.String()

	if c.Transcripts.RequestTimeoutSeconds <= 0 {
		c.Transcripts.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if c.Transcripts.GenerationTimeoutSeconds <= 0 {
		c.Transcripts.GenerationTimeoutSeconds = defaultGenerationTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Provider = strings.ToLower(strings.TrimSpace(c.Analysis.Provider))
	if c.Analysis.Provider == "" {
		c.Analysis.Provider = defaultAnalysisProvider
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = defaultAnalysisTimeoutSeconds
	}
}

func (c *Config) normalizeLLM() {
	if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.LLM.APIKey = value
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizePlayback() {
	if c.Playback.TickIntervalMS <= 0 {
		c.Playback.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Playback.FrameIntervalMS < 0 {
		c.Playback.FrameIntervalMS = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
