package config

const (
	defaultListen          = ":8000"
	defaultUpstreamBaseURL = "https://api.openai.com/v1/"
	defaultUpstreamTimeout = "5m"

	defaultWeakModel   = "gpt-3.5-turbo"
	defaultStrongModel = "gpt-4"

	defaultCSVPath = "conversations_log.csv"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Upstream: UpstreamConfig{
			BaseURL: defaultUpstreamBaseURL,
			Timeout: defaultUpstreamTimeout,
		},
		Models: ModelsConfig{
			Weak:   defaultWeakModel,
			Strong: defaultStrongModel,
		},
		Log: LogConfig{
			CSVPath: defaultCSVPath,
		},
	}
}
