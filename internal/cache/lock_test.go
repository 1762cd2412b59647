package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockMutualExclusion(t *testing.T) {
	ctx := context.Background()
	lock := NewLock(NewMemoryStore(), zerolog.Nop())

	const attempts = 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	var acquired []string

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, ok, err := lock.Acquire(ctx, "#TOURNEY")
			require.NoError(t, err)
			if ok {
				mu.Lock()
				acquired = append(acquired, token)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, acquired, 1, "exactly one concurrent acquire must win")

	// Release frees it for the next analyzer.
	lock.Release(ctx, "#TOURNEY", acquired[0])
	_, ok, err := lock.Acquire(ctx, "#TOURNEY")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockReleaseIgnoresForeignToken(t *testing.T) {
	ctx := context.Background()
	lock := NewLock(NewMemoryStore(), zerolog.Nop())

	token, ok, err := lock.Acquire(ctx, "#T")
	require.NoError(t, err)
	require.True(t, ok)

	// A stale holder must not free someone else's lock.
	lock.Release(ctx, "#T", "stale-token")
	_, ok, err = lock.Acquire(ctx, "#T")
	require.NoError(t, err)
	assert.False(t, ok)

	lock.Release(ctx, "#T", token)
	_, ok, err = lock.Acquire(ctx, "#T")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockKeyNormalization(t *testing.T) {
	ctx := context.Background()
	lock := NewLock(NewMemoryStore(), zerolog.Nop())

	_, ok, err := lock.Acquire(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.Acquire(ctx, "#ABC")
	require.NoError(t, err)
	assert.False(t, ok, "tag spellings must share one lock")
}
