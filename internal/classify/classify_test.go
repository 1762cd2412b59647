package classify

import (
	"testing"

	"royale-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPlayerTiers(t *testing.T) {
	tests := []struct {
		name         string
		player       domain.PlayerRecord
		wantTier     domain.Tier
		wantPriority int
		wantRank     *int
		wantTrophies *int
	}{
		{
			name:         "casual by base trophies",
			player:       domain.PlayerRecord{Trophies: 9500},
			wantTier:     domain.TierCasual,
			wantPriority: 8,
			wantTrophies: intPtr(9500),
		},
		{
			name: "rank beats trophies",
			player: domain.PlayerRecord{
				Trophies:      12500,
				CurrentSeason: &domain.SeasonResult{Rank: intPtr(750)},
			},
			wantTier:     domain.TierTop1K,
			wantPriority: 1,
			wantRank:     intPtr(750),
		},
		{
			name: "final league without rank",
			player: domain.PlayerRecord{
				Trophies:   10000,
				BestSeason: &domain.SeasonResult{Trophies: 4000},
			},
			wantTier:     domain.TierFinalLeague,
			wantPriority: 5,
		},
		{
			name: "best rank is minimum across seasons",
			player: domain.PlayerRecord{
				CurrentSeason: &domain.SeasonResult{Rank: intPtr(40000)},
				LastSeason:    &domain.SeasonResult{Rank: intPtr(8000)},
				BestSeason:    &domain.SeasonResult{Rank: intPtr(60000)},
			},
			wantTier:     domain.TierTop10K,
			wantPriority: 2,
			wantRank:     intPtr(8000),
		},
		{
			name: "rank boundary at 1000",
			player: domain.PlayerRecord{
				BestSeason: &domain.SeasonResult{Rank: intPtr(1000)},
			},
			wantTier:     domain.TierTop1K,
			wantPriority: 1,
			wantRank:     intPtr(1000),
		},
		{
			name: "rank boundary just past 1000",
			player: domain.PlayerRecord{
				BestSeason: &domain.SeasonResult{Rank: intPtr(1001)},
			},
			wantTier:     domain.TierTop10K,
			wantPriority: 2,
			wantRank:     intPtr(1001),
		},
		{
			name: "ever ranked past 50k",
			player: domain.PlayerRecord{
				BestSeason: &domain.SeasonResult{Rank: intPtr(50001)},
			},
			wantTier:     domain.TierEverRanked,
			wantPriority: 4,
			wantRank:     intPtr(50001),
		},
		{
			name:         "reached 12k",
			player:       domain.PlayerRecord{Trophies: 12000},
			wantTier:     domain.TierReached12K,
			wantPriority: 6,
			wantTrophies: intPtr(12000),
		},
		{
			name:         "trophy band 10k to 12k",
			player:       domain.PlayerRecord{Trophies: 11999},
			wantTier:     domain.TierTrophy10K,
			wantPriority: 7,
			wantTrophies: intPtr(11999),
		},
		{
			name:         "beginner below 8k",
			player:       domain.PlayerRecord{Trophies: 7999},
			wantTier:     domain.TierBeginner,
			wantPriority: 9,
			wantTrophies: intPtr(7999),
		},
		{
			name:         "zero value profile",
			player:       domain.PlayerRecord{},
			wantTier:     domain.TierBeginner,
			wantPriority: 9,
			wantTrophies: intPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Player(&tt.player)

			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantPriority, got.Priority)
			assert.Equal(t, tt.wantRank, got.Rank)
			assert.Equal(t, tt.wantTrophies, got.Trophies)
			assert.NotEmpty(t, got.Label)
		})
	}
}

func TestPlayerExactlyOnePayload(t *testing.T) {
	profiles := []domain.PlayerRecord{
		{},
		{Trophies: 15000},
		{Trophies: 9000, CurrentSeason: &domain.SeasonResult{Rank: intPtr(500)}},
		{BestSeason: &domain.SeasonResult{Trophies: 1}},
	}

	for _, p := range profiles {
		got := Player(&p)
		require.GreaterOrEqual(t, got.Priority, 1)
		require.LessOrEqual(t, got.Priority, 9)
		if got.Tier == domain.TierFinalLeague {
			assert.Nil(t, got.Rank)
			assert.Nil(t, got.Trophies)
			continue
		}
		// Every other tier carries exactly one numeric payload.
		assert.True(t, (got.Rank != nil) != (got.Trophies != nil))
	}
}
