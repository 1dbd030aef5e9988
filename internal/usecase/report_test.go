package usecase

import (
	"testing"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	policy, err := domain.NewBucketPolicy(100)
	require.NoError(t, err)

	result := &AggregateResult{
		Stats:   domain.ContributionStats{Commits: 10, PullRequests: 2, MergedPullRequests: 1, Issues: 3, Stars: 5},
		Profile: domain.Profile{Login: "me", Languages: []string{"go"}},
	}
	leveling := Leveling{
		Weights: domain.Weights{
			domain.StatCommit:            1,
			domain.StatPullRequest:       10,
			domain.StatMergedPullRequest: 20,
			domain.StatIssue:             5,
			domain.StatStar:              3,
		},
		Policy:       policy,
		Achievements: domain.DefaultAchievements()[:2],
	}

	report := BuildReport(result, leveling)

	assert.Equal(t, "me", report.User)
	assert.Equal(t, float64(80), report.XP.TotalXP)
	assert.Equal(t, 0, report.XP.Level)
	assert.Equal(t, float64(20), report.XP.XPToNext)
	assert.Len(t, report.Breakdown, 5)
	require.Len(t, report.Achievements, 2)
	assert.False(t, report.Achievements[0].IsUnlocked) // needs a repository
	assert.True(t, report.Achievements[1].IsUnlocked)

	// Pure: a second build yields the same report.
	assert.Equal(t, report, BuildReport(result, leveling))
}
