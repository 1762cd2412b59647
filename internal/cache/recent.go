package cache

import (
	"context"
	"encoding/json"
	"time"

	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// RecentTournaments keeps the most recent successful tournament lookups,
// newest first, deduplicated by tag and capped. Writes are read-modify-write;
// last writer wins is fine for a convenience list.
type RecentTournaments struct {
	store  Store
	logger zerolog.Logger
}

func NewRecentTournaments(store Store, logger zerolog.Logger) *RecentTournaments {
	return &RecentTournaments{store: store, logger: logger}
}

func (r *RecentTournaments) Push(ctx context.Context, info domain.TournamentInfo) {
	entry := domain.RecentTournament{
		Tag:         domain.NormalizeTag(info.Tag),
		Name:        info.Name,
		PlayerCount: info.MemberCount,
		Status:      info.Status,
		SearchedAt:  time.Now().UTC(),
	}

	list := append([]domain.RecentTournament{entry}, r.List(ctx)...)

	deduped := list[:0]
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		if seen[item.Tag] {
			continue
		}
		seen[item.Tag] = true
		deduped = append(deduped, item)
		if len(deduped) == constants.RecentTournamentLimit {
			break
		}
	}

	raw, err := json.Marshal(deduped)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to marshal recent tournaments")
		return
	}
	if err := r.store.Set(ctx, keyRecent, raw, constants.RecentTTL); err != nil {
		r.logger.Warn().Err(err).Msg("recent tournaments write failed")
	}
}

func (r *RecentTournaments) List(ctx context.Context) []domain.RecentTournament {
	raw, ok, err := r.store.Get(ctx, keyRecent)
	if err != nil {
		r.logger.Warn().Err(err).Msg("recent tournaments read failed")
		return nil
	}
	if !ok {
		return nil
	}

	var list []domain.RecentTournament
	if err := json.Unmarshal(raw, &list); err != nil {
		r.logger.Warn().Err(err).Msg("corrupt recent tournaments list")
		return nil
	}
	return list
}
