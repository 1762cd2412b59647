package service

import (
	"context"

	"royale-tracker/internal/api"
	"royale-tracker/internal/cache"
	"royale-tracker/internal/classify"
	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerAPI is the slice of the upstream client the player service needs.
type PlayerAPI interface {
	GetPlayer(ctx context.Context, tag string) (*domain.PlayerRecord, error)
}

type PlayerService struct {
	api     PlayerAPI
	players *cache.PlayerCache
	logger  zerolog.Logger
}

func NewPlayerService(client *api.Client, players *cache.PlayerCache, logger zerolog.Logger) *PlayerService {
	return &PlayerService{api: client, players: players, logger: logger}
}

// GetPlayer returns the full upstream profile. The classification cache only
// holds the reduced entry, so the profile always comes from the API.
func (s *PlayerService) GetPlayer(ctx context.Context, tag string) (*domain.PlayerRecord, error) {
	tag = domain.NormalizeTag(tag)

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Info().Str("tag", tag).Msg("getting player")

	player, err := s.api.GetPlayer(ctx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch player")
		return nil, err
	}
	return player, nil
}

// PlayerClassification is the classify_player response: classification plus
// the Path of Legends detail it was derived from.
type PlayerClassification struct {
	Tag            string                `json:"tag"`
	Name           string                `json:"name"`
	Trophies       int                   `json:"trophies"`
	Classification domain.Classification `json:"classification"`
	PathOfLegend   PathOfLegendDetail    `json:"pathOfLegend"`
}

type PathOfLegendDetail struct {
	Current *domain.SeasonResult `json:"current"`
	Last    *domain.SeasonResult `json:"last"`
	Best    *domain.SeasonResult `json:"best"`
}

// ClassifyPlayer fetches a profile, classifies it, and warms the player
// cache so a later tournament analysis gets the entry for free.
func (s *PlayerService) ClassifyPlayer(ctx context.Context, tag string) (*PlayerClassification, error) {
	player, err := s.GetPlayer(ctx, tag)
	if err != nil {
		return nil, err
	}

	classification := classify.Player(player)

	if err := s.players.Put(ctx, player.Tag, cache.Entry(player.Name, classification)); err != nil {
		s.logger.Warn().Err(err).Str("tag", player.Tag).Msg("failed to warm player cache")
	}

	return &PlayerClassification{
		Tag:            player.Tag,
		Name:           player.Name,
		Trophies:       player.Trophies,
		Classification: classification,
		PathOfLegend: PathOfLegendDetail{
			Current: player.CurrentSeason,
			Last:    player.LastSeason,
			Best:    player.BestSeason,
		},
	}, nil
}

// CacheStats is the cache_stats response.
type CacheStats struct {
	Enabled    bool   `json:"enabled"`
	Backend    string `json:"backend"`
	TTLSeconds int    `json:"ttl_seconds"`
	Players    int64  `json:"players"`
}

// GetCacheStats reports the cache backend, entry TTL and player entry count.
func (s *PlayerService) GetCacheStats(ctx context.Context) CacheStats {
	backend, ttl, count := s.players.Stats(ctx)
	return CacheStats{
		Enabled:    true,
		Backend:    backend,
		TTLSeconds: int(ttl.Seconds()),
		Players:    count,
	}
}

// ClearCache drops every cached entry. Administrative, best effort.
func (s *PlayerService) ClearCache(ctx context.Context) error {
	s.logger.Info().Msg("clearing player cache")
	return s.players.Clear(ctx)
}
