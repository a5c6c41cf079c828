package justwatch

const (
	// UpstreamName labels this client in logs and metrics.
	UpstreamName = "justwatch"

	defaultBaseURL = "https://apis.justwatch.com/graphql"
	webHost        = "https://www.justwatch.com"
	imageHost      = "https://images.justwatch.com"

	posterProfile = "s718"
	posterFormat  = "jpg"

	// Bounded candidate list per search; the pipeline only needs the record
	// matching the identity id.
	defaultFirst = 5
)
