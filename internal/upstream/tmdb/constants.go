package tmdb

const (
	// UpstreamName labels this client in logs and metrics.
	UpstreamName = "tmdb"

	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"
)
