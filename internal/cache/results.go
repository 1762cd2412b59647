package cache

import (
	"context"
	"encoding/json"

	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// ResultCache stores one TournamentResult per tournament tag. Active
// tournaments get a short TTL so standings refresh; ended ones are immutable
// and keep the long TTL.
type ResultCache struct {
	store  Store
	logger zerolog.Logger
}

func NewResultCache(store Store, logger zerolog.Logger) *ResultCache {
	return &ResultCache{store: store, logger: logger}
}

func (c *ResultCache) Get(ctx context.Context, tag string) (*domain.TournamentResult, bool) {
	raw, ok, err := c.store.Get(ctx, keyResult(domain.NormalizeTag(tag)))
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("result cache read failed, treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result domain.TournamentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("corrupt result cache entry, treating as miss")
		return nil, false
	}
	return &result, true
}

func (c *ResultCache) Put(ctx context.Context, tag string, result *domain.TournamentResult, ended bool) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("failed to marshal tournament result")
		return
	}

	ttl := constants.ResultActiveTTL
	if ended {
		ttl = constants.ResultEndedTTL
	}
	if err := c.store.Set(ctx, keyResult(domain.NormalizeTag(tag)), raw, ttl); err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("result cache write failed")
	}
}
