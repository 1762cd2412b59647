package service

import (
	"context"
	"testing"
	"time"

	"royale-tracker/internal/api"
	"royale-tracker/internal/cache"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTournaments struct {
	failures   int
	calls      int
	err        error
	tournament *domain.Tournament
}

func (f *flakyTournaments) GetTournament(context.Context, string) (*domain.Tournament, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.tournament, nil
}

func newTestTournamentService(t *testing.T, upstream TournamentAPI) (*TournamentService, *cache.RecentTournaments) {
	t.Helper()
	logger := zerolog.Nop()
	recent := cache.NewRecentTournaments(cache.NewMemoryStore(), logger)
	return &TournamentService{
		api:       upstream,
		recent:    recent,
		logger:    logger,
		retryWait: time.Millisecond,
	}, recent
}

func TestTournamentGetRetriesTimeouts(t *testing.T) {
	upstream := &flakyTournaments{
		failures:   2,
		err:        api.ErrTimeout,
		tournament: tournamentOf("#P1", "#P2"),
	}
	svc, recent := newTestTournamentService(t, upstream)

	info, err := svc.Get(context.Background(), "tourney")
	require.NoError(t, err)
	assert.Equal(t, 3, upstream.calls)
	assert.Equal(t, "#TOURNEY", info.Tag)
	assert.Equal(t, 2, info.MemberCount)

	list := recent.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "#TOURNEY", list[0].Tag)
}

func TestTournamentGetExhaustsRetries(t *testing.T) {
	upstream := &flakyTournaments{failures: 3, err: api.ErrTimeout}
	svc, recent := newTestTournamentService(t, upstream)

	_, err := svc.Get(context.Background(), "#TOURNEY")
	require.ErrorIs(t, err, api.ErrTimeout)
	assert.Equal(t, 3, upstream.calls)
	assert.Empty(t, recent.List(context.Background()))
}

func TestTournamentGetDoesNotRetryOtherErrors(t *testing.T) {
	upstream := &flakyTournaments{failures: 3, err: api.ErrNotFound}
	svc, recent := newTestTournamentService(t, upstream)

	_, err := svc.Get(context.Background(), "#TOURNEY")
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, 1, upstream.calls, "not-found is final, no retry")
	assert.Empty(t, recent.List(context.Background()))
}

func TestTournamentGetFullReturnsRoster(t *testing.T) {
	upstream := &flakyTournaments{tournament: tournamentOf("#P1", "#P2", "#P3")}
	svc, _ := newTestTournamentService(t, upstream)

	full, err := svc.GetFull(context.Background(), "#TOURNEY")
	require.NoError(t, err)
	assert.Len(t, full.MembersList, 3)
}
