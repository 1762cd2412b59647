package cache

import (
	"context"
	"encoding/json"
	"time"

	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// ProgressStore is the per-tournament progress channel: the lock holder
// publishes snapshots, waiters poll them. Entries are short-lived; absence
// after the lock is gone means the result cache has the final answer.
type ProgressStore struct {
	store  Store
	logger zerolog.Logger
}

func NewProgressStore(store Store, logger zerolog.Logger) *ProgressStore {
	return &ProgressStore{store: store, logger: logger}
}

func (p *ProgressStore) Publish(ctx context.Context, tag string, processed, total int, summary map[domain.Tier]domain.TierCount) {
	snapshot := domain.AnalysisProgress{
		Processed: processed,
		Total:     total,
		Summary:   summary,
		UpdatedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Warn().Err(err).Str("tag", tag).Msg("failed to marshal progress snapshot")
		return
	}
	if err := p.store.Set(ctx, keyProgress(domain.NormalizeTag(tag)), raw, constants.ProgressTTL); err != nil {
		p.logger.Warn().Err(err).Str("tag", tag).Msg("progress publish failed")
	}
}

func (p *ProgressStore) Get(ctx context.Context, tag string) (*domain.AnalysisProgress, bool) {
	raw, ok, err := p.store.Get(ctx, keyProgress(domain.NormalizeTag(tag)))
	if err != nil {
		p.logger.Warn().Err(err).Str("tag", tag).Msg("progress read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var snapshot domain.AnalysisProgress
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		p.logger.Warn().Err(err).Str("tag", tag).Msg("corrupt progress snapshot")
		return nil, false
	}
	return &snapshot, true
}

func (p *ProgressStore) Clear(ctx context.Context, tag string) {
	if err := p.store.Del(ctx, keyProgress(domain.NormalizeTag(tag))); err != nil {
		p.logger.Warn().Err(err).Str("tag", tag).Msg("progress clear failed")
	}
}
