package config

const (
	defaultDataDir            = "~/.local/share/techscout"
	defaultSnapshotPath       = "~/.local/share/techscout/stacks.json"
	defaultLogDir             = "~/.local/share/techscout/logs"
	defaultGeminiBaseURL      = "https://generativelanguage.googleapis.com"
	defaultGeminiModel        = "gemini-2.0-flash-lite"
	defaultGeminiTimeout      = 60
	defaultRemoteTable        = "techs"
	defaultRemoteFunction     = "upsert_tech_stack"
	defaultRemoteTimeout      = 10
	defaultTrendCount         = 60
	defaultFetchTimeout       = 30
	defaultMaxContentChars    = 20000
	defaultLogoHeadTimeout    = 5
	defaultMaxConcurrent      = 2
	defaultLimitedModeMax     = 50
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// LimitedModeDefault is the item cap applied when limited mode is active but
// no explicit maximum was configured.
const LimitedModeDefault = defaultLimitedModeMax

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			SnapshotPath: defaultSnapshotPath,
			LogDir:       defaultLogDir,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Remote: Remote{
			Table:          defaultRemoteTable,
			UpsertFunction: defaultRemoteFunction,
			TimeoutSeconds: defaultRemoteTimeout,
		},
		Discovery: Discovery{
			TrendCount: defaultTrendCount,
		},
		Fetch: Fetch{
			TimeoutSeconds:  defaultFetchTimeout,
			MaxContentChars: defaultMaxContentChars,
		},
		Logos: Logos{
			HeadTimeoutSeconds: defaultLogoHeadTimeout,
		},
		Workflow: Workflow{
			MaxConcurrent: defaultMaxConcurrent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
