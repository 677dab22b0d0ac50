package config

const (
	defaultDataDir        = "~/.local/share/scribe"
	defaultDownloadDir    = "~/.local/share/scribe/download"
	defaultLogDir         = "~/.local/share/scribe/logs"
	defaultBaseURL        = "http://127.0.0.1:5001"
	defaultRequestTimeout = 30
	defaultFetchTimeout   = 60
	defaultPollInterval   = 5
	defaultHistoryLimit   = 100
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Remote: Remote{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			FetchTimeout:   defaultFetchTimeout,
		},
		Workflow: Workflow{
			PollInterval: defaultPollInterval,
			HistoryLimit: defaultHistoryLimit,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
