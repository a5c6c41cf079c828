package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"where-to-watch-service/internal/canonical"
	"where-to-watch-service/internal/domain"
	"where-to-watch-service/internal/metrics"
	"where-to-watch-service/internal/teststubs"
	"where-to-watch-service/internal/upstream"
	"where-to-watch-service/internal/upstream/justwatch"
	"where-to-watch-service/internal/upstream/tmdb"
)

const (
	testStandardTTL = 24 * time.Hour
	testShortTTL    = 10 * time.Minute
)

func newTestResolver(identity *teststubs.StubIdentityClient, offersClient *teststubs.StubOffersClient, cache *teststubs.StubCache) (*Resolver, *metrics.Recorder) {
	loader := canonical.NewLoader("", nil)
	loader.SetForTest(&canonical.Map{
		ByTechnicalID: map[string]canonical.Entry{
			"amazonprimevideo": {ID: "amazonprime", Name: "Amazon Prime Video"},
			"amazonprime":      {ID: "amazonprime", Name: "Amazon Prime Video"},
		},
	})
	rec := metrics.NewRecorder()
	r := New(Config{
		Identity:      identity,
		Offers:        offersClient,
		Cache:         cache,
		Canonical:     loader,
		Metrics:       rec,
		StandardTTL:   testStandardTTL,
		ShortTTL:      testShortTTL,
		DefaultLocale: "en_US",
		Language:      "en",
	})
	return r, rec
}

func matrixMatch() *tmdb.TitleMatch {
	return &tmdb.TitleMatch{ID: 603, Title: "The Matrix", ReleaseYear: "1999", Poster: "https://image.tmdb.org/t/p/w500/matrix.jpg"}
}

func matrixTitle(offers ...domain.Offer) justwatch.Title {
	return justwatch.Title{
		ExternalID:  "603",
		Title:       "The Matrix",
		ReleaseYear: 1999,
		Poster:      "https://images.justwatch.com/poster/1/s718/matrix.jpg",
		URL:         "https://www.justwatch.com/us/movie/the-matrix",
		Offers:      offers,
	}
}

func TestResolveFoundCachesAndReturnsProviders(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{matrixTitle(
		domain.Offer{
			MonetizationType: domain.MonetizationFlatrate,
			StandardWebURL:   "https://www.amazon.com/watch",
			Package:          domain.OfferPackage{TechnicalName: "amazonprimevideo", ClearName: "Amazon Prime Video Amazon Channel"},
		},
		domain.Offer{
			MonetizationType: domain.MonetizationBuy,
			StandardWebURL:   "https://www.amazon.com/buy",
			Package:          domain.OfferPackage{TechnicalName: "amazonprimevideo", ClearName: "Amazon Prime Video"},
		},
	)}}
	cache := &teststubs.StubCache{}
	r, rec := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Year: "1999", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("expected success response, got error %q", resp.Error)
	}
	if resp.Title != "The Matrix" || resp.Year != "1999" {
		t.Fatalf("unexpected identity fields: %+v", resp)
	}
	if len(resp.Providers) != 1 {
		t.Fatalf("expected one provider after filtering and dedupe, got %d", len(resp.Providers))
	}
	if resp.Providers[0].ID != "amazonprime" {
		t.Fatalf("expected canonical provider id, got %q", resp.Providers[0].ID)
	}
	if cache.Sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.Sets)
	}
	for key, ttl := range cache.TTLs {
		if ttl != testStandardTTL {
			t.Fatalf("expected standard ttl for %q, got %v", key, ttl)
		}
	}
	if rec.Resolutions(string(domain.OutcomeFound)) != 1 {
		t.Fatalf("expected found resolution recorded")
	}
}

func TestResolveCacheHitSkipsUpstreams(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{matrixTitle()}}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	seeded := domain.WatchResponse{Title: "The Matrix", Year: "1999", Error: string(domain.OutcomeNoStreaming), Message: "No streaming offers available"}
	cache.Seed(cacheKey("The Matrix", "1999", "US"), seeded)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Year: "1999", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != seeded.Error || resp.Title != seeded.Title {
		t.Fatalf("expected cached response, got %+v", resp)
	}
	if identity.Calls.Load() != 0 || offersClient.Calls.Load() != 0 {
		t.Fatalf("expected no upstream calls on cache hit, got identity=%d offers=%d", identity.Calls.Load(), offersClient.Calls.Load())
	}
}

func TestResolveEmptyTitleSkipsUpstreamsAndCache(t *testing.T) {
	identity := &teststubs.StubIdentityClient{}
	offersClient := &teststubs.StubOffersClient{}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "   ", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeNotFound) {
		t.Fatalf("expected not_found, got %q", resp.Error)
	}
	if identity.Calls.Load() != 0 || offersClient.Calls.Load() != 0 {
		t.Fatalf("expected no upstream calls for empty title")
	}
	if cache.Sets != 0 {
		t.Fatalf("expected no cache write for empty title, got %d", cache.Sets)
	}
}

func TestResolveIdentityMissIsNotFound(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: nil}
	offersClient := &teststubs.StubOffersClient{}
	cache := &teststubs.StubCache{}
	r, rec := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "No Such Movie", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeNotFound) {
		t.Fatalf("expected not_found, got %q", resp.Error)
	}
	if resp.Title != "No Such Movie" {
		t.Fatalf("expected query title echoed, got %q", resp.Title)
	}
	if offersClient.Calls.Load() != 0 {
		t.Fatalf("expected offers upstream not called after identity miss")
	}
	if cache.Sets != 1 {
		t.Fatalf("expected negative outcome cached, got %d writes", cache.Sets)
	}
	if rec.Resolutions(string(domain.OutcomeNotFound)) != 1 {
		t.Fatalf("expected not_found resolution recorded")
	}
}

func TestResolveIdentityErrorPropagates(t *testing.T) {
	identityErr := &upstream.Error{Kind: upstream.KindAuth, Upstream: "tmdb", Status: 401, Err: errors.New("unauthorized")}
	identity := &teststubs.StubIdentityClient{Err: identityErr}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, &teststubs.StubOffersClient{}, cache)

	_, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err == nil {
		t.Fatalf("expected error")
	}
	upErr, ok := upstream.AsError(err)
	if !ok || upErr.Kind != upstream.KindAuth {
		t.Fatalf("expected auth error to surface, got %v", err)
	}
	if cache.Sets != 0 {
		t.Fatalf("expected no cache write on error, got %d", cache.Sets)
	}
}

func TestResolveOffersUnavailableUsesShortTTL(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersErr := &upstream.Error{Kind: upstream.KindUnavailable, Upstream: "justwatch", Status: 503, Err: errors.New("retries exhausted")}
	offersClient := &teststubs.StubOffersClient{Err: offersErr}
	cache := &teststubs.StubCache{}
	r, rec := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Year: "1999", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeUnavailable) {
		t.Fatalf("expected upstream_unavailable, got %q", resp.Error)
	}
	if resp.Title != "The Matrix" {
		t.Fatalf("expected identity fields preserved, got %+v", resp)
	}
	if cache.Sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.Sets)
	}
	for key, ttl := range cache.TTLs {
		if ttl != testShortTTL {
			t.Fatalf("expected short ttl for %q, got %v", key, ttl)
		}
	}
	if rec.Resolutions(string(domain.OutcomeUnavailable)) != 1 {
		t.Fatalf("expected unavailable resolution recorded")
	}
}

func TestResolveOffersAuthErrorPropagates(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersErr := &upstream.Error{Kind: upstream.KindAuth, Upstream: "justwatch", Status: 403, Err: errors.New("forbidden")}
	offersClient := &teststubs.StubOffersClient{Err: offersErr}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	_, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if cache.Sets != 0 {
		t.Fatalf("expected no cache write on propagated error")
	}
}

func TestResolveNoMatchingRecordIsNotFound(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	other := matrixTitle()
	other.ExternalID = "604"
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{other}}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeNotFound) {
		t.Fatalf("expected not_found when no candidate matches, got %q", resp.Error)
	}
	if resp.Title != "The Matrix" || resp.Year != "1999" {
		t.Fatalf("expected identity fields on not_found, got %+v", resp)
	}
}

func TestResolveNoOffersIsNoStreaming(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{matrixTitle()}}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeNoStreaming) {
		t.Fatalf("expected no_streaming, got %q", resp.Error)
	}
	if len(resp.Providers) != 0 {
		t.Fatalf("expected no providers, got %d", len(resp.Providers))
	}
}

func TestResolveAllOffersFilteredIsNoStreaming(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{matrixTitle(
		domain.Offer{MonetizationType: domain.MonetizationRent, StandardWebURL: "https://example.com/rent", Package: domain.OfferPackage{TechnicalName: "itunes"}},
		domain.Offer{MonetizationType: domain.MonetizationBuy, StandardWebURL: "https://example.com/buy", Package: domain.OfferPackage{TechnicalName: "itunes"}},
	)}}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != string(domain.OutcomeNoStreaming) {
		t.Fatalf("expected no_streaming when every offer is filtered, got %q", resp.Error)
	}
}

func TestResolvePosterPrefersOffersRecord(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	title := matrixTitle()
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{title}}
	r, _ := newTestResolver(identity, offersClient, &teststubs.StubCache{})

	resp, err := r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Poster != title.Poster {
		t.Fatalf("expected offers poster %q, got %q", title.Poster, resp.Poster)
	}

	// Without an offers poster the identity poster stands in.
	title.Poster = ""
	offersClient.Titles = []justwatch.Title{title}
	resp, err = r.Resolve(context.Background(), domain.SearchQuery{Title: "The Matrix", Year: "x", Country: "en_US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Poster != matrixMatch().Poster {
		t.Fatalf("expected identity poster fallback, got %q", resp.Poster)
	}
}

func TestResolveSecondCallServedFromCache(t *testing.T) {
	identity := &teststubs.StubIdentityClient{Match: matrixMatch()}
	offersClient := &teststubs.StubOffersClient{Titles: []justwatch.Title{matrixTitle(
		domain.Offer{MonetizationType: domain.MonetizationFlatrate, StandardWebURL: "https://example.com/watch", Package: domain.OfferPackage{TechnicalName: "netflix", ClearName: "Netflix"}},
	)}}
	cache := &teststubs.StubCache{}
	r, _ := newTestResolver(identity, offersClient, cache)

	q := domain.SearchQuery{Title: "The Matrix", Year: "1999", Country: "en_US"}
	first, err := r.Resolve(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Calls.Load() != 1 || offersClient.Calls.Load() != 1 {
		t.Fatalf("expected one upstream pass, got identity=%d offers=%d", identity.Calls.Load(), offersClient.Calls.Load())
	}
	if len(second.Providers) != len(first.Providers) || second.Title != first.Title {
		t.Fatalf("expected identical cached response, first=%+v second=%+v", first, second)
	}
}

func TestCountryFromLocale(t *testing.T) {
	cases := []struct {
		name     string
		locale   string
		fallback string
		want     string
	}{
		{name: "underscore locale", locale: "en_US", fallback: "en_US", want: "US"},
		{name: "hyphen locale", locale: "de-DE", fallback: "en_US", want: "DE"},
		{name: "bare country", locale: "GB", fallback: "en_US", want: "GB"},
		{name: "empty uses fallback", locale: "", fallback: "en_US", want: "US"},
		{name: "garbage uses fallback", locale: "english", fallback: "en_US", want: "US"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := countryFromLocale(tc.locale, tc.fallback); got != tc.want {
				t.Fatalf("countryFromLocale(%q, %q) = %q, want %q", tc.locale, tc.fallback, got, tc.want)
			}
		})
	}
}
