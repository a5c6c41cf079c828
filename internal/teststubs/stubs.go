package teststubs

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"where-to-watch-service/internal/domain"
	"where-to-watch-service/internal/upstream/justwatch"
	"where-to-watch-service/internal/upstream/tmdb"
)

// StubIdentityClient is a test double for resolver.IdentityClient.
type StubIdentityClient struct {
	Match *tmdb.TitleMatch
	Err   error
	Calls atomic.Int32
}

// SearchMovie returns the configured match and error while tracking calls.
func (s *StubIdentityClient) SearchMovie(ctx context.Context, title, year string) (*tmdb.TitleMatch, error) {
	_ = ctx
	_ = title
	_ = year
	s.Calls.Add(1)
	return s.Match, s.Err
}

// StubOffersClient is a test double for resolver.OffersClient.
type StubOffersClient struct {
	Titles      []justwatch.Title
	Err         error
	Calls       atomic.Int32
	LastCountry string
}

// SearchOffers returns the configured titles and error while tracking calls.
func (s *StubOffersClient) SearchOffers(ctx context.Context, title, country, language string) ([]justwatch.Title, error) {
	_ = ctx
	_ = title
	_ = language
	s.LastCountry = country
	s.Calls.Add(1)
	return s.Titles, s.Err
}

// StubCache is an in-memory test double for resolver.Cache. Values round-trip
// through JSON the same way the real store serializes them.
type StubCache struct {
	Values   map[string][]byte
	TTLs     map[string]time.Duration
	Disabled bool
	Sets     int
}

// GetInto decodes a previously stored value into dest.
func (s *StubCache) GetInto(ctx context.Context, key string, dest any) bool {
	_ = ctx
	if s.Disabled || s.Values == nil {
		return false
	}
	raw, ok := s.Values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores the JSON encoding of value and remembers the TTL it was given.
func (s *StubCache) Set(ctx context.Context, key string, value any, ttl time.Duration, category string) bool {
	_ = ctx
	_ = category
	if s.Disabled {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	if s.Values == nil {
		s.Values = make(map[string][]byte)
	}
	if s.TTLs == nil {
		s.TTLs = make(map[string]time.Duration)
	}
	s.Values[key] = raw
	s.TTLs[key] = ttl
	s.Sets++
	return true
}

// Seed stores a pre-built response under key, for priming cache-hit tests.
func (s *StubCache) Seed(key string, value domain.WatchResponse) {
	if s.Values == nil {
		s.Values = make(map[string][]byte)
	}
	raw, _ := json.Marshal(value)
	s.Values[key] = raw
}
