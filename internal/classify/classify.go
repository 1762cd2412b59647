// Package classify maps a player profile to one of nine skill tiers.
//
// Tiers are evaluated in strict priority order, first match wins: Path of
// Legends ladder rank, then final-league membership, then base trophy
// thresholds. The trophy thresholds follow the December 2024 rework
// (seasonal trophy road no longer exists).
package classify

import (
	"royale-tracker/internal/domain"
)

const (
	top1KRank  = 1000
	top10KRank = 10000
	top50KRank = 50000

	reached12KTrophies = 12000
	trophy10KTrophies  = 10000
	casualTrophies     = 8000
)

// Player classifies a profile. Total over all inputs: missing season results
// and a zero trophy count still land in a tier.
func Player(p *domain.PlayerRecord) domain.Classification {
	if rank := bestRank(p); rank != nil {
		switch {
		case *rank <= top1KRank:
			return ranked(domain.TierTop1K, "Top 1K", 1, rank)
		case *rank <= top10KRank:
			return ranked(domain.TierTop10K, "Top 10K", 2, rank)
		case *rank <= top50KRank:
			return ranked(domain.TierTop50K, "Top 50K", 3, rank)
		default:
			return ranked(domain.TierEverRanked, "Ever Ranked", 4, rank)
		}
	}

	if hasFinalLeague(p) {
		return domain.Classification{Tier: domain.TierFinalLeague, Label: "Final League", Priority: 5}
	}

	trophies := p.Trophies
	switch {
	case trophies >= reached12KTrophies:
		return byTrophies(domain.TierReached12K, "12K+", 6, trophies)
	case trophies >= trophy10KTrophies:
		return byTrophies(domain.TierTrophy10K, "10K-12K", 7, trophies)
	case trophies >= casualTrophies:
		return byTrophies(domain.TierCasual, "Casual (8K-10K)", 8, trophies)
	default:
		return byTrophies(domain.TierBeginner, "Beginner (<8K)", 9, trophies)
	}
}

// bestRank returns the lowest Path of Legends rank across the current, last
// and best season windows, or nil if the player was never ranked.
func bestRank(p *domain.PlayerRecord) *int {
	var best *int
	for _, season := range p.SeasonResults() {
		if season == nil || season.Rank == nil {
			continue
		}
		if best == nil || *season.Rank < *best {
			rank := *season.Rank
			best = &rank
		}
	}
	return best
}

// hasFinalLeague reports whether any season window carries Path of Legends
// trophies, meaning the player reached the final league without a rank.
func hasFinalLeague(p *domain.PlayerRecord) bool {
	for _, season := range p.SeasonResults() {
		if season != nil && season.Trophies > 0 {
			return true
		}
	}
	return false
}

func ranked(tier domain.Tier, label string, priority int, rank *int) domain.Classification {
	return domain.Classification{Tier: tier, Label: label, Priority: priority, Rank: rank}
}

func byTrophies(tier domain.Tier, label string, priority int, trophies int) domain.Classification {
	return domain.Classification{Tier: tier, Label: label, Priority: priority, Trophies: &trophies}
}
