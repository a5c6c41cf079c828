package justwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"where-to-watch-service/internal/upstream"
)

// Config controls how the client reaches the offers API.
type Config struct {
	BaseURL string
	// HTTPClient should be the retrying doer; outage classification and
	// backoff live there, not here.
	HTTPClient upstream.Doer
}

// Client queries streaming offers by free-text title and country.
type Client struct {
	baseURL    string
	httpClient upstream.Doer
}

// NewClient constructs a justwatch client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// SearchOffers returns the bounded candidate list for the title in the given
// country, each carrying its external identity id and raw offers.
func (c *Client) SearchOffers(ctx context.Context, title, country, language string) ([]Title, error) {
	body, err := json.Marshal(graphRequest{
		Query: searchQuery,
		Variables: searchVariables{
			SearchQuery: title,
			Country:     strings.ToUpper(country),
			Language:    language,
			First:       defaultFirst,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("justwatch: encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if _, ok := upstream.AsError(err); ok {
			return nil, err
		}
		return nil, &upstream.Error{Kind: upstream.KindUnavailable, Upstream: UpstreamName, Err: err}
	}
	defer resp.Body.Close()

	var payload graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("justwatch: decode search response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("justwatch: graph error: %s", payload.Errors[0].Message)
	}

	titles := make([]Title, 0, len(payload.Data.PopularTitles.Edges))
	for _, edge := range payload.Data.PopularTitles.Edges {
		titles = append(titles, mapTitle(edge.Node))
	}
	return titles, nil
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func resolveHTTPClient(client upstream.Doer) upstream.Doer {
	if client != nil {
		return client
	}
	return upstream.NewHTTPClient()
}
