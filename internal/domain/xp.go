package domain

import (
	"fmt"
	"math"
)

// Weights maps a stat to the XP awarded per unit of that stat.
// Stats missing from the map contribute nothing.
type Weights map[Stat]float64

// DefaultWeights are the per-contribution XP values used when no settings file overrides them.
func DefaultWeights() Weights {
	return Weights{
		StatCommit:            1,
		StatPullRequest:       10,
		StatMergedPullRequest: 20,
		StatIssue:             5,
		StatReviewComment:     2,
		StatStar:              3,
		StatStarGiven:         1,
		StatFollower:          10,
		StatFork:              10,
		StatGist:              10,
		StatRelease:           20,
		StatRepository:        15,
	}
}

// Validate rejects unknown stat names and negative or non-finite multipliers.
func (w Weights) Validate() error {
	for s, v := range w {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown stat %q in weights", ErrConfiguration, s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight for %q must be a finite number, got %v", ErrConfiguration, s, v)
		}
		if v < 0 {
			return fmt.Errorf("%w: weight for %q must not be negative, got %v", ErrConfiguration, s, v)
		}
	}
	return nil
}

// ComputeTotalXP returns the dot product of stats and weights.
func ComputeTotalXP(stats ContributionStats, weights Weights) float64 {
	var total float64
	for _, s := range AllStats {
		total += float64(stats.Get(s)) * weights[s]
	}
	return total
}

// XPContribution is a single line of an XP breakdown.
type XPContribution struct {
	Stat   Stat    `json:"stat"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
	XP     float64 `json:"xp"`
}

// Breakdown returns the per-stat XP contributions in canonical order.
// Stats without a weight are omitted.
func Breakdown(stats ContributionStats, weights Weights) []XPContribution {
	out := make([]XPContribution, 0, len(AllStats))
	for _, s := range AllStats {
		w, ok := weights[s]
		if !ok {
			continue
		}
		n := stats.Get(s)
		out = append(out, XPContribution{Stat: s, Count: n, Weight: w, XP: float64(n) * w})
	}
	return out
}
