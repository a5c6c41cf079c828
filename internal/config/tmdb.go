package config

const (
	envTMDBBaseURL = "TMDB_BASE_URL"
	envTMDBAPIKey  = "TMDB_API_KEY"

	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
)

// TMDBConfig controls how we talk to the title-identity API.
type TMDBConfig struct {
	BaseURL string
	APIKey  string
}

func loadTMDB() TMDBConfig {
	return TMDBConfig{
		BaseURL: envOrDefault(envTMDBBaseURL, defaultTMDBBaseURL),
		APIKey:  envOrDefault(envTMDBAPIKey, ""),
	}
}
