package domain

import "math"

type TierCount struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summarize turns raw tier counts into the count/percent table. Percentages
// are relative to successful classifications, rounded to one decimal, and 0
// when nothing succeeded. Every tier appears in the output even at zero.
func Summarize(counts map[Tier]int, successful int) map[Tier]TierCount {
	summary := make(map[Tier]TierCount, len(Tiers))
	for _, tier := range Tiers {
		count := counts[tier]
		var percent float64
		if successful > 0 {
			percent = math.Round(float64(count)/float64(successful)*1000) / 10
		}
		summary[tier] = TierCount{Count: count, Percent: percent}
	}
	return summary
}
