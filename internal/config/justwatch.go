package config

const (
	envJWBaseURL  = "JUSTWATCH_BASE_URL"
	envJWLanguage = "JUSTWATCH_LANGUAGE"

	defaultJWBaseURL  = "https://apis.justwatch.com/graphql"
	defaultJWLanguage = "en"
)

// JustWatchConfig controls how we talk to the streaming-offers API.
type JustWatchConfig struct {
	BaseURL  string
	Language string
}

func loadJustWatch() JustWatchConfig {
	return JustWatchConfig{
		BaseURL:  envOrDefault(envJWBaseURL, defaultJWBaseURL),
		Language: envOrDefault(envJWLanguage, defaultJWLanguage),
	}
}
