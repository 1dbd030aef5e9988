package usecase

import (
	"github.com/naka-gawa/github-xp/internal/domain"
)

// Report is the aggregated stats of a user together with their level progression.
type Report struct {
	User         string                     `json:"user"`
	Stats        domain.ContributionStats   `json:"stats"`
	XP           domain.XPState             `json:"xp"`
	Breakdown    []domain.XPContribution    `json:"breakdown"`
	Achievements []domain.AchievementStatus `json:"achievements"`
	Profile      domain.Profile             `json:"profile"`
	Diagnostics  domain.Diagnostics         `json:"diagnostics"`
}

// Leveling bundles the XP configuration applied to aggregated stats.
type Leveling struct {
	Weights      domain.Weights
	Policy       domain.ThresholdPolicy
	Achievements []domain.Achievement
}

// BuildReport converts an aggregation result into a Report. It performs no I/O.
func BuildReport(result *AggregateResult, leveling Leveling) *Report {
	return &Report{
		User:         result.Profile.Login,
		Stats:        result.Stats,
		XP:           domain.ComputeState(result.Stats, leveling.Weights, leveling.Policy),
		Breakdown:    domain.Breakdown(result.Stats, leveling.Weights),
		Achievements: domain.EvaluateAchievements(result.Stats, result.Profile.Languages, leveling.Achievements),
		Profile:      result.Profile,
		Diagnostics:  result.Diagnostics,
	}
}
