package config

const (
	defaultConfigPath               = "~/.config/lingocast/config.toml"
	defaultDataDir                  = "~/.local/share/lingocast"
	defaultLogDir                   = "~/.local/share/lingocast/logs"
	defaultTargetLanguage           = "en"
	defaultRequestTimeoutSeconds    = 15
	defaultGenerationTimeoutSeconds = 180
	defaultAnalysisProvider         = "backend"
	defaultAnalysisTimeoutSeconds   = 60
	defaultLLMBaseURL               = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                 = "google/gemini-3-flash-preview"
	defaultLLMReferer               = "https://github.com/lingocast/lingocast"
	defaultLLMTitle                 = "Lingocast Line Analysis"
	defaultLLMTimeoutSeconds        = 60
	defaultTickIntervalMS           = 250
	defaultFrameIntervalMS          = 0
	defaultNtfyTimeoutSeconds       = 10
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Transcripts: Transcripts{
			TargetLanguage:           defaultTargetLanguage,
			RequestTimeoutSeconds:    defaultRequestTimeoutSeconds,
			GenerationTimeoutSeconds: defaultGenerationTimeoutSeconds,
			LocalCache:               true,
		},
		Analysis: Analysis{
			Provider:       defaultAnalysisProvider,
			TimeoutSeconds: defaultAnalysisTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Playback: Playback{
			AutoScroll:      true,
			TickIntervalMS:  defaultTickIntervalMS,
			FrameIntervalMS: defaultFrameIntervalMS,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
