package config

import "time"

const (
	envPort            = "PORT"
	envAdminToken      = "ADMIN_TOKEN"
	envDefaultLocale   = "DEFAULT_LOCALE"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envRedisURL        = "REDIS_URL"
	envCacheNamespace  = "CACHE_NAMESPACE"
	envCacheTTL        = "CACHE_TTL"
	envCacheErrorTTL   = "CACHE_ERROR_TTL"
	envProviderMap     = "PROVIDER_MAP_PATH"
	envProviderRefresh = "PROVIDER_MAP_REFRESH_INTERVAL"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"
	// Compound locale-country code used when the request carries none.
	defaultLocale         = "en_US"
	defaultRedisURL       = "redis://localhost:6379"
	defaultCacheNamespace = "wtw"
	// Positive and negative lookups are cached for a day; a transient upstream
	// outage is cached much shorter so it self-heals on a later request.
	defaultCacheTTL        = 24 * time.Hour
	defaultCacheErrorTTL   = 10 * time.Minute
	defaultProviderMapPath = "data/providers.json"
	// Zero disables the background artifact reload.
	defaultProviderRefresh = time.Duration(0)
)
