// Package cache holds the shared key-value stores the analysis engine
// coordinates through: the player cache, the tournament result cache, the
// per-tournament analysis lock, the progress channel and the recent-search
// list. All of them sit on one Store contract so the redis backend can be
// swapped for the in-process one in tests or when no backend is configured.
package cache

import (
	"context"
	"time"

	"royale-tracker/internal/config"

	"github.com/rs/zerolog"
)

// Store is the minimal key-value contract. Values expire after their TTL;
// expiry is the only destruction path apart from Del and Flush.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error
	// SetNX sets the key only if absent. Reports whether the write happened.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Count(ctx context.Context, prefix string) (int64, error)
	Flush(ctx context.Context) error
	Name() string
}

// NewStore picks the backend: redis when REDIS_ADDR is set and reachable,
// otherwise the in-process store. A dead redis degrades to in-process rather
// than failing startup; coordination is a feature, not a prerequisite.
func NewStore(cfg *config.Config, logger zerolog.Logger) Store {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("REDIS_ADDR not set, using in-process cache")
		return NewMemoryStore()
	}

	store, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, falling back to in-process cache")
		return NewMemoryStore()
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
	return store
}

func keyPlayer(tag string) string   { return "player:" + tag }
func keyResult(tag string) string   { return "tournament_result:" + tag }
func keyLock(tag string) string     { return "tournament_lock:" + tag }
func keyProgress(tag string) string { return "tournament_progress:" + tag }

const keyRecent = "recent_tournaments"

const playerKeyPrefix = "player:"
