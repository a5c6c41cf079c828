package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"where-to-watch-service/internal/upstream"
)

// Config controls how the client reaches the title-identity API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient upstream.Doer
}

// Client looks up movie identity by free-text title.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient upstream.Doer
}

// NewClient constructs a tmdb client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// SearchMovie returns the first candidate match for the title, narrowed by
// year when given. A nil match with nil error means the upstream knows no
// such movie.
func (c *Client) SearchMovie(ctx context.Context, title, year string) (*TitleMatch, error) {
	req, err := c.buildRequest(ctx, title, year)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if _, ok := upstream.AsError(err); ok {
			return nil, err
		}
		return nil, &upstream.Error{Kind: upstream.KindUnavailable, Upstream: UpstreamName, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		drain(resp)
		return nil, &upstream.Error{Kind: upstream.KindAuth, Upstream: UpstreamName, Status: resp.StatusCode}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tmdb: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tmdb: decode search response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	match := mapMatch(payload.Results[0])
	return &match, nil
}

func (c *Client) buildRequest(ctx context.Context, title, year string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/movie", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("query", title)
	if year != "" {
		q.Set("primary_release_year", year)
	}
	req.URL.RawQuery = q.Encode()

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func mapMatch(r movieResult) TitleMatch {
	match := TitleMatch{
		ID:    r.ID,
		Title: r.Title,
	}
	if len(r.ReleaseDate) >= 4 {
		match.ReleaseYear = r.ReleaseDate[:4]
	}
	if r.PosterPath != "" {
		match.Poster = posterBaseURL + r.PosterPath
	}
	return match
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

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
}
