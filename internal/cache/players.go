package cache

import (
	"context"
	"encoding/json"
	"time"

	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerCache stores one CachedPlayerEntry per normalized tag. Batch reads
// and writes are chunked so a 10k roster never exceeds the backend's
// per-call payload limits.
type PlayerCache struct {
	store  Store
	logger zerolog.Logger
}

func NewPlayerCache(store Store, logger zerolog.Logger) *PlayerCache {
	return &PlayerCache{store: store, logger: logger}
}

// Get returns the cached entry for one tag, or false on a miss. Corrupt
// stored JSON counts as a miss.
func (c *PlayerCache) Get(ctx context.Context, tag string) (*domain.CachedPlayerEntry, bool) {
	raw, ok, err := c.store.Get(ctx, keyPlayer(domain.NormalizeTag(tag)))
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("player cache read failed, treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry domain.CachedPlayerEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("corrupt player cache entry, treating as miss")
		return nil, false
	}
	return &entry, true
}

// GetMany batch-reads entries for the given tags. Missing, expired and
// corrupt entries are simply absent from the result.
func (c *PlayerCache) GetMany(ctx context.Context, tags []string) map[string]domain.CachedPlayerEntry {
	found := make(map[string]domain.CachedPlayerEntry, len(tags))

	for start := 0; start < len(tags); start += constants.CacheBatchSize {
		end := min(start+constants.CacheBatchSize, len(tags))

		keys := make([]string, 0, end-start)
		for _, tag := range tags[start:end] {
			keys = append(keys, keyPlayer(domain.NormalizeTag(tag)))
		}

		raw, err := c.store.MGet(ctx, keys)
		if err != nil {
			c.logger.Warn().Err(err).Int("keys", len(keys)).Msg("player cache batch read failed, treating as misses")
			continue
		}

		for key, value := range raw {
			var entry domain.CachedPlayerEntry
			if err := json.Unmarshal(value, &entry); err != nil {
				c.logger.Warn().Err(err).Str("key", key).Msg("corrupt player cache entry, skipping")
				continue
			}
			found[key[len(playerKeyPrefix):]] = entry
		}
	}
	return found
}

// Put overwrites the entry for one tag with the 12h TTL.
func (c *PlayerCache) Put(ctx context.Context, tag string, entry domain.CachedPlayerEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, keyPlayer(domain.NormalizeTag(tag)), raw, constants.PlayerCacheTTL)
}

// PutMany batch-writes entries, chunked like GetMany. Failures are logged
// and swallowed; losing a cache write never fails an analysis.
func (c *PlayerCache) PutMany(ctx context.Context, entries map[string]domain.CachedPlayerEntry) {
	if len(entries) == 0 {
		return
	}

	batch := make(map[string][]byte, constants.CacheBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := c.store.MSet(ctx, batch, constants.PlayerCacheTTL); err != nil {
			c.logger.Warn().Err(err).Int("entries", len(batch)).Msg("player cache batch write failed")
		}
		batch = make(map[string][]byte, constants.CacheBatchSize)
	}

	for tag, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			c.logger.Warn().Err(err).Str("tag", tag).Msg("failed to marshal player cache entry")
			continue
		}
		batch[keyPlayer(domain.NormalizeTag(tag))] = raw
		if len(batch) >= constants.CacheBatchSize {
			flush()
		}
	}
	flush()
}

// Entry builds the cache value for a freshly fetched and classified player.
func Entry(name string, classification domain.Classification) domain.CachedPlayerEntry {
	return domain.CachedPlayerEntry{
		Name:           name,
		Classification: classification,
		CachedAt:       time.Now().UTC(),
	}
}

// Stats reports the backend name, player TTL and live player key count.
func (c *PlayerCache) Stats(ctx context.Context) (string, time.Duration, int64) {
	count, err := c.store.Count(ctx, playerKeyPrefix)
	if err != nil {
		c.logger.Warn().Err(err).Msg("player cache count failed")
		count = 0
	}
	return c.store.Name(), constants.PlayerCacheTTL, count
}

// Clear flushes the whole store. Administrative, best effort.
func (c *PlayerCache) Clear(ctx context.Context) error {
	return c.store.Flush(ctx)
}
