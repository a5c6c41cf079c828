package config

import "time"

// CacheConfig controls the Redis-backed cache-aside store.
type CacheConfig struct {
	RedisURL  string
	Namespace string
	// TTL applies to every terminal resolution except upstream-unavailable,
	// which is cached with ErrorTTL instead.
	TTL             time.Duration
	ErrorTTL        time.Duration
	ProviderMapPath string
	// ProviderMapRefresh > 0 reloads the provider map artifact on that
	// interval; zero loads it once at startup.
	ProviderMapRefresh time.Duration
}

func loadCache() CacheConfig {
	return CacheConfig{
		RedisURL:           envOrDefault(envRedisURL, defaultRedisURL),
		Namespace:          envOrDefault(envCacheNamespace, defaultCacheNamespace),
		TTL:                durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		ErrorTTL:           durationEnvOrDefault(envCacheErrorTTL, defaultCacheErrorTTL),
		ProviderMapPath:    envOrDefault(envProviderMap, defaultProviderMapPath),
		ProviderMapRefresh: durationEnvOrDefault(envProviderRefresh, defaultProviderRefresh),
	}
}
