package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"where-to-watch-service/internal/canonical"
	"where-to-watch-service/internal/domain"
	"where-to-watch-service/internal/logging"
	"where-to-watch-service/internal/metrics"
	"where-to-watch-service/internal/offers"
	"where-to-watch-service/internal/upstream"
	"where-to-watch-service/internal/upstream/justwatch"
	"where-to-watch-service/internal/upstream/tmdb"
)

// CacheCategory tags every resolution cache entry so the whole search cache
// can be invalidated as a unit.
const CacheCategory = "search"

// IdentityClient resolves a free-text title to its identity record.
type IdentityClient interface {
	SearchMovie(ctx context.Context, title, year string) (*tmdb.TitleMatch, error)
}

// OffersClient fetches candidate title records with streaming offers.
type OffersClient interface {
	SearchOffers(ctx context.Context, title, country, language string) ([]justwatch.Title, error)
}

// Cache is the cache-aside seam used by the pipeline.
type Cache interface {
	GetInto(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration, category string) bool
}

// Config wires the pipeline's collaborators and policy.
type Config struct {
	Identity  IdentityClient
	Offers    OffersClient
	Cache     Cache
	Canonical *canonical.Loader
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	// StandardTTL caches every terminal outcome except upstream-unavailable,
	// which uses ShortTTL so a transient outage self-heals quickly.
	StandardTTL   time.Duration
	ShortTTL      time.Duration
	DefaultLocale string
	Language      string
}

// Resolver turns a (title, year, country) query into one consolidated
// "where to watch" answer, caching every terminal outcome.
type Resolver struct {
	identity      IdentityClient
	offersClient  OffersClient
	cache         Cache
	canonical     *canonical.Loader
	logger        *slog.Logger
	metrics       *metrics.Recorder
	standardTTL   time.Duration
	shortTTL      time.Duration
	defaultLocale string
	language      string
}

// New constructs a Resolver from the given configuration.
func New(cfg Config) *Resolver {
	return &Resolver{
		identity:      cfg.Identity,
		offersClient:  cfg.Offers,
		cache:         cfg.Cache,
		canonical:     cfg.Canonical,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		standardTTL:   cfg.StandardTTL,
		shortTTL:      cfg.ShortTTL,
		defaultLocale: cfg.DefaultLocale,
		language:      cfg.Language,
	}
}

// Resolve runs the resolution state machine. Negative outcomes are normal
// responses, not errors; only upstream auth failures and unexpected
// conditions surface as an error.
func (r *Resolver) Resolve(ctx context.Context, q domain.SearchQuery) (domain.WatchResponse, error) {
	country := countryFromLocale(q.Country, r.defaultLocale)
	key := cacheKey(q.Title, q.Year, country)

	var cached domain.WatchResponse
	if r.cache.GetInto(ctx, key, &cached) {
		return cached, nil
	}

	if strings.TrimSpace(q.Title) == "" {
		// No upstream call and no cache write for an empty query.
		return r.terminal(ctx, domain.Resolution{Outcome: domain.OutcomeNotFound}), nil
	}

	match, err := r.identity.SearchMovie(ctx, q.Title, q.Year)
	if err != nil {
		return domain.WatchResponse{}, fmt.Errorf("identity lookup: %w", err)
	}
	if match == nil {
		res := domain.Resolution{Outcome: domain.OutcomeNotFound, Title: q.Title, Year: q.Year}
		return r.finish(ctx, key, res, r.standardTTL), nil
	}

	titles, err := r.offersClient.SearchOffers(ctx, q.Title, country, r.language)
	if err != nil {
		if upErr, ok := upstream.AsError(err); ok && upErr.Kind == upstream.KindUnavailable {
			logging.Warn(r.loggerFrom(ctx), "offers upstream unavailable",
				slog.String(logging.FieldTitle, q.Title),
				slog.String(logging.FieldCountry, country),
				slog.Any("err", err),
			)
			res := domain.Resolution{
				Outcome: domain.OutcomeUnavailable,
				Title:   match.Title,
				Year:    match.ReleaseYear,
				Poster:  match.Poster,
			}
			return r.finish(ctx, key, res, r.shortTTL), nil
		}
		// Auth failures and malformed payloads propagate to the boundary.
		return domain.WatchResponse{}, fmt.Errorf("offers lookup: %w", err)
	}

	record := matchRecord(titles, match.ID)
	if record == nil {
		res := domain.Resolution{
			Outcome: domain.OutcomeNotFound,
			Title:   match.Title,
			Year:    match.ReleaseYear,
			Poster:  match.Poster,
		}
		return r.finish(ctx, key, res, r.standardTTL), nil
	}

	poster := record.Poster
	if poster == "" {
		poster = match.Poster
	}
	res := domain.Resolution{
		Outcome: domain.OutcomeNoStreaming,
		Title:   match.Title,
		Year:    match.ReleaseYear,
		Poster:  poster,
	}

	if len(record.Offers) > 0 {
		providers := offers.Process(record.Offers, record.URL, r.canonical.Load())
		if len(providers) > 0 {
			res.Outcome = domain.OutcomeFound
			res.Providers = providers
		}
	}

	return r.finish(ctx, key, res, r.standardTTL), nil
}

// finish caches the terminal result and records the outcome.
func (r *Resolver) finish(ctx context.Context, key string, res domain.Resolution, ttl time.Duration) domain.WatchResponse {
	resp := r.terminal(ctx, res)
	r.cache.Set(ctx, key, resp, ttl, CacheCategory)
	return resp
}

func (r *Resolver) terminal(ctx context.Context, res domain.Resolution) domain.WatchResponse {
	r.metrics.RecordResolution(string(res.Outcome))
	logging.Info(r.loggerFrom(ctx), "resolution complete",
		slog.String(logging.FieldOutcome, string(res.Outcome)),
		slog.String(logging.FieldTitle, res.Title),
		slog.Int(logging.FieldCount, len(res.Providers)),
	)
	return res.Response()
}

func (r *Resolver) loggerFrom(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, r.logger)
}

// matchRecord selects the candidate whose embedded external identifier equals
// the identity id, using string-normalized comparison.
func matchRecord(titles []justwatch.Title, identityID int) *justwatch.Title {
	want := strconv.Itoa(identityID)
	for i := range titles {
		if strings.TrimSpace(titles[i].ExternalID) == want {
			return &titles[i]
		}
	}
	return nil
}

// cacheKey derives the cache key from the query's literal inputs plus the
// derived country code.
func cacheKey(title, year, country string) string {
	return "watch:" + title + "|" + year + "|" + country
}

// countryFromLocale extracts the country segment from a compound
// locale-country code, falling back to the configured default.
func countryFromLocale(locale, fallback string) string {
	parts := splitLocale(locale)
	if len(parts) >= 2 {
		return parts[1]
	}
	if len(parts) == 1 && len(parts[0]) == 2 {
		return parts[0]
	}
	if fallback != "" && fallback != locale {
		return countryFromLocale(fallback, "")
	}
	return ""
}

func splitLocale(locale string) []string {
	return strings.FieldsFunc(strings.TrimSpace(locale), func(r rune) bool {
		return r == '_' || r == '-'
	})
}
