package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"where-to-watch-service/internal/logging"
	"where-to-watch-service/internal/metrics"
)

// Store is a cache-aside layer over Redis with hashed, namespaced keys and
// optional category tagging for bulk invalidation. An unreachable backend
// degrades every operation to a permanent miss instead of failing the caller.
type Store struct {
	client    redisClient
	namespace string
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// NewStore constructs a Store around a connected Redis client.
func NewStore(client redisClient, namespace string, logger *slog.Logger, recorder *metrics.Recorder) *Store {
	return &Store{
		client:    client,
		namespace: namespace,
		logger:    logger,
		metrics:   recorder,
	}
}

// Get returns the decoded JSON value stored under key, the raw string when
// the payload is not JSON, or nil on miss and on backend failure.
func (s *Store) Get(ctx context.Context, key string) any {
	raw, ok := s.getRaw(ctx, key)
	if !ok {
		return nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}

// GetInto decodes the value stored under key into dest, reporting whether a
// usable cached value was found.
func (s *Store) GetInto(ctx context.Context, key string, dest any) bool {
	raw, ok := s.getRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logging.Warn(s.logger, "cache entry undecodable, treating as miss", slog.Any("err", err))
		return false
	}
	return true
}

// Set serializes value to JSON and writes it with the given TTL. When a
// category is supplied and the write succeeded, the hashed key is registered
// in the category index for later bulk invalidation. Never fails the caller.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration, category string) bool {
	if s.client == nil {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Warn(s.logger, "cache value not serializable", slog.Any("err", err))
		return false
	}

	hashed := hashKey(s.namespace, key)
	if err := s.client.Set(ctx, hashed, raw, ttl).Err(); err != nil {
		logging.Warn(s.logger, "cache write failed, continuing uncached", slog.Any("err", err))
		return false
	}

	if category != "" {
		// Index update is best-effort: a failure leaves at most an entry that a
		// future ClearCategory cannot find, never an inconsistent read path.
		if err := s.client.SAdd(ctx, categoryKey(s.namespace, category), hashed).Err(); err != nil {
			logging.Warn(s.logger, "cache category index update failed",
				slog.String(logging.FieldCategory, category), slog.Any("err", err))
		}
	}
	return true
}

// ClearCategory deletes every entry indexed under category plus the index
// itself, returning how many entries were removed. An empty index is a no-op.
func (s *Store) ClearCategory(ctx context.Context, category string) (int, error) {
	if s.client == nil {
		return 0, nil
	}
	index := categoryKey(s.namespace, category)
	members, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	cleared, err := s.client.Del(ctx, members...).Result()
	if err != nil {
		return 0, err
	}
	if err := s.client.Del(ctx, index).Err(); err != nil {
		logging.Warn(s.logger, "cache category index delete failed",
			slog.String(logging.FieldCategory, category), slog.Any("err", err))
	}

	logging.Info(s.logger, "cache category cleared",
		slog.String(logging.FieldCategory, category), slog.Int64(logging.FieldCount, cleared))
	return int(cleared), nil
}

func (s *Store) getRaw(ctx context.Context, key string) (string, bool) {
	if s.client == nil {
		return "", false
	}
	raw, err := s.client.Get(ctx, hashKey(s.namespace, key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Warn(s.logger, "cache read failed, treating as miss", slog.Any("err", err))
		}
		s.metrics.RecordCache(false)
		return "", false
	}
	s.metrics.RecordCache(true)
	return raw, true
}
