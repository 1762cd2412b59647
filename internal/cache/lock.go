package cache

import (
	"context"

	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Lock is the per-tournament analysis lock: an atomic set-if-absent with a
// TTL safety net so a crashed holder never wedges a tournament. A read-then-
// write check would race two analyzers into both believing they hold it.
type Lock struct {
	store  Store
	logger zerolog.Logger
}

func NewLock(store Store, logger zerolog.Logger) *Lock {
	return &Lock{store: store, logger: logger}
}

// Acquire attempts to take the lock for a tournament. On success it returns
// the holder token needed for Release. A store failure is reported as an
// error so the caller can choose to proceed unlocked.
func (l *Lock) Acquire(ctx context.Context, tag string) (string, bool, error) {
	token, err := gonanoid.New()
	if err != nil {
		return "", false, err
	}

	ok, err := l.store.SetNX(ctx, keyLock(domain.NormalizeTag(tag)), []byte(token), constants.LockTTL)
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release deletes the lock if the token still matches. A mismatch means the
// TTL expired and someone else took over; deleting their lock would be worse
// than leaving ours to expire.
func (l *Lock) Release(ctx context.Context, tag, token string) {
	key := keyLock(domain.NormalizeTag(tag))

	current, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn().Err(err).Str("tag", tag).Msg("lock release read failed")
		return
	}
	if !ok || string(current) != token {
		l.logger.Warn().Str("tag", tag).Msg("lock no longer held by this token, skipping release")
		return
	}
	if err := l.store.Del(ctx, key); err != nil {
		l.logger.Warn().Err(err).Str("tag", tag).Msg("lock release failed")
	}
}
