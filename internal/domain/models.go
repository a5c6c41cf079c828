package domain

// SearchQuery is the per-request input: a free-text title, an optional
// release year, and a compound locale-country code ("en_US").
type SearchQuery struct {
	Title   string
	Year    string
	Country string
}

// ResolvedProvider is one streaming service offering the title, after
// canonicalization and deduplication.
type ResolvedProvider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	URL  string `json:"url"`
	Type string `json:"type"`
	// Alternate deep links seen for the same canonical provider. The
	// representative URL above is never replaced by these.
	AlternateURLs []string `json:"-"`
}

// Outcome labels the terminal state of a resolution.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNoStreaming Outcome = "no_streaming"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "upstream_unavailable"
)

// Resolution is the typed terminal result of the pipeline. Title/Year/Poster
// carry whatever the upstreams resolved, even for negative outcomes, so the
// caller can always render something.
type Resolution struct {
	Outcome   Outcome
	Title     string
	Year      string
	Poster    string
	Providers []ResolvedProvider
}

// WatchResponse is the flat wire shape returned to the presentation layer and
// stored in the cache. Error present signals a negative outcome; Providers
// present signals a hit.
type WatchResponse struct {
	Title     string             `json:"title"`
	Year      string             `json:"year,omitempty"`
	Poster    string             `json:"poster,omitempty"`
	Error     string             `json:"error,omitempty"`
	Message   string             `json:"message,omitempty"`
	Providers []ResolvedProvider `json:"movieProviders,omitempty"`
}

// Response flattens a Resolution into the wire shape.
func (r Resolution) Response() WatchResponse {
	resp := WatchResponse{
		Title:  r.Title,
		Year:   r.Year,
		Poster: r.Poster,
	}
	switch r.Outcome {
	case OutcomeFound:
		resp.Providers = r.Providers
	case OutcomeNoStreaming:
		resp.Error = string(OutcomeNoStreaming)
		resp.Message = "no streaming offers available"
	case OutcomeNotFound:
		resp.Error = string(OutcomeNotFound)
		resp.Message = "movie not found"
	case OutcomeUnavailable:
		resp.Error = string(OutcomeUnavailable)
		resp.Message = "streaming data temporarily unavailable"
	}
	return resp
}
