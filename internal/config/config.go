package config

// Config holds runtime configuration for the server.
type Config struct {
	Port          string
	AdminToken    string
	DefaultLocale string
	TMDB          TMDBConfig
	JustWatch     JustWatchConfig
	Cache         CacheConfig
	Metrics       MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:          envOrDefault(envPort, defaultPort),
		AdminToken:    envOrDefault(envAdminToken, ""),
		DefaultLocale: envOrDefault(envDefaultLocale, defaultLocale),
		TMDB:          loadTMDB(),
		JustWatch:     loadJustWatch(),
		Cache:         loadCache(),
		Metrics:       loadMetrics(),
	}
}
