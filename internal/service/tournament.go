package service

import (
	"context"
	"errors"
	"time"

	"royale-tracker/internal/api"
	"royale-tracker/internal/cache"
	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// TournamentAPI is the slice of the upstream client the tournament paths need.
type TournamentAPI interface {
	GetTournament(ctx context.Context, tag string) (*domain.Tournament, error)
}

type TournamentService struct {
	api    TournamentAPI
	recent *cache.RecentTournaments
	logger zerolog.Logger

	retryWait time.Duration
}

func NewTournamentService(client *api.Client, recent *cache.RecentTournaments, logger zerolog.Logger) *TournamentService {
	return &TournamentService{
		api:       client,
		recent:    recent,
		logger:    logger,
		retryWait: constants.TournamentRetryWait,
	}
}

// Get fetches the roster-free tournament summary. The upstream proxy is slow
// on cold tournaments, so timeouts are retried with a growing budget
// (15s/25s/35s); any other error propagates immediately. Successful lookups
// land on the recent-searches list.
func (s *TournamentService) Get(ctx context.Context, tag string) (*domain.TournamentInfo, error) {
	tag = domain.NormalizeTag(tag)
	s.logger.Info().Str("tag", tag).Msg("getting tournament")

	var tournament *domain.Tournament
	var err error
	for attempt := 0; attempt < constants.TournamentRetries; attempt++ {
		timeout := constants.ExternalAPITimeout + time.Duration(attempt)*constants.TournamentRetryStep

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		tournament, err = s.api.GetTournament(attemptCtx, tag)
		cancel()

		if err == nil {
			break
		}
		if !errors.Is(err, api.ErrTimeout) {
			s.logger.Error().Err(err).Str("tag", tag).Msg("tournament lookup failed")
			return nil, err
		}

		s.logger.Warn().Str("tag", tag).Int("attempt", attempt+1).Msg("tournament lookup timed out, retrying")
		if attempt < constants.TournamentRetries-1 {
			time.Sleep(s.retryWait)
		}
	}
	if err != nil {
		return nil, err
	}

	info := tournament.Info()
	s.recent.Push(ctx, info)

	s.logger.Info().Str("tag", tag).Int("members", info.MemberCount).Str("status", info.Status).Msg("tournament fetched")
	return &info, nil
}

// GetFull fetches the raw tournament object including the member roster.
func (s *TournamentService) GetFull(ctx context.Context, tag string) (*domain.Tournament, error) {
	tag = domain.NormalizeTag(tag)

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	tournament, err := s.api.GetTournament(ctx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("full tournament lookup failed")
		return nil, err
	}
	return tournament, nil
}

// Recent lists the latest successful tournament lookups, newest first.
func (s *TournamentService) Recent(ctx context.Context) []domain.RecentTournament {
	return s.recent.List(ctx)
}
