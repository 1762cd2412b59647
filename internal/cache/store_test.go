package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// faultyStore fails every operation, standing in for an unreachable backend.
type faultyStore struct{}

func (faultyStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}

func (faultyStore) MGet(context.Context, []string) (map[string][]byte, error) {
	return nil, errStoreDown
}

func (faultyStore) Set(context.Context, string, []byte, time.Duration) error {
	return errStoreDown
}

func (faultyStore) MSet(context.Context, map[string][]byte, time.Duration) error {
	return errStoreDown
}

func (faultyStore) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, errStoreDown
}

func (faultyStore) Del(context.Context, ...string) error { return errStoreDown }

func (faultyStore) Count(context.Context, string) (int64, error) { return 0, errStoreDown }

func (faultyStore) Flush(context.Context) error { return errStoreDown }

func (faultyStore) Name() string { return "faulty" }

func TestPlayerCacheUnavailableStoreIsMiss(t *testing.T) {
	ctx := context.Background()
	players := NewPlayerCache(faultyStore{}, zerolog.Nop())

	_, ok := players.Get(ctx, "#P1")
	assert.False(t, ok)

	hits := players.GetMany(ctx, []string{"#P1", "#P2"})
	assert.Empty(t, hits, "batch read errors must look like misses")

	// Writes are best effort; losing them must not panic or error out.
	players.PutMany(ctx, map[string]domain.CachedPlayerEntry{
		"#P1": Entry("One", domain.Classification{Tier: domain.TierCasual}),
	})

	backend, _, count := players.Stats(ctx)
	assert.Equal(t, "faulty", backend)
	assert.Zero(t, count)
}

func TestResultCacheUnavailableStoreIsMiss(t *testing.T) {
	ctx := context.Background()
	results := NewResultCache(faultyStore{}, zerolog.Nop())

	_, ok := results.Get(ctx, "#T1")
	assert.False(t, ok)

	results.Put(ctx, "#T1", &domain.TournamentResult{}, false)
}

func TestLockUnavailableStoreReportsError(t *testing.T) {
	ctx := context.Background()
	lock := NewLock(faultyStore{}, zerolog.Nop())

	_, ok, err := lock.Acquire(ctx, "#T1")
	require.Error(t, err, "callers decide whether to proceed unlocked")
	assert.False(t, ok)

	lock.Release(ctx, "#T1", "token")
}

func TestProgressAndRecentUnavailableStore(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	progress := NewProgressStore(faultyStore{}, logger)
	progress.Publish(ctx, "#T1", 1, 2, nil)
	_, ok := progress.Get(ctx, "#T1")
	assert.False(t, ok)

	recent := NewRecentTournaments(faultyStore{}, logger)
	recent.Push(ctx, domain.TournamentInfo{Tag: "#T1"})
	assert.Empty(t, recent.List(ctx))
}
