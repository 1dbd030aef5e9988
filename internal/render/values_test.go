package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/naka-gawa/github-xp/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) *usecase.Report {
	t.Helper()
	policy, err := domain.NewBucketPolicy(100)
	require.NoError(t, err)
	result := &usecase.AggregateResult{
		Stats: domain.ContributionStats{Commits: 1500, PullRequests: 4, Stars: 2, Repositories: 3},
		Profile: domain.Profile{
			Login: "octocat",
			RecentRepos: []domain.Repository{
				{Name: "hello", Description: "Hi", Stars: 2, Language: "Go", URL: "https://github.com/octocat/hello"},
			},
			Contributions: days("2024-01-07", 1, 0, 3),
		},
	}
	return usecase.BuildReport(result, usecase.Leveling{
		Weights:      domain.Weights{domain.StatCommit: 1, domain.StatPullRequest: 10},
		Policy:       policy,
		Achievements: domain.DefaultAchievements()[1:3],
	})
}

func TestSubstitutionMap(t *testing.T) {
	values, err := SubstitutionMap(testReport(t), Options{BarWidth: 10})
	require.NoError(t, err)

	expected := map[string]string{
		"USERNAME":         "octocat",
		"LEVEL":            "15",
		"XP":               "40",
		"TOTAL_XP":         "1540",
		"NEXT_XP":          "60",
		"NEXT_LEVEL":       "1600",
		"XP_BAR":           "▰▰▰▰▱▱▱▱▱▱",
		"XP_PERCENT":       "40",
		"COMMITS":          "1,500",
		"PRS":              "4",
		"STARS":            "2",
		"REPOS":            "3",
		"GISTS":            "0",
		"DEGRADED":         "none",
		"TIMELINE":         "_No milestones yet._",
		"CONTRIB_TOTAL":    "4",
		"CONTRIB_MEAN":     "1.3",
		"CONTRIB_MEDIAN":   "1",
		"CONTRIB_BEST_DAY": "3",
		"CONTRIB_STREAK":   "1",
		"RECENT_REPOS":     "- [hello](https://github.com/octocat/hello): Hi ★2 - Go",
		"ACHIEVEMENTS":     "- ✅ First Commit: made my mark on the codebase!\n- ✅ Rising Star: achieved 100+ total commits!",
	}
	for key, want := range expected {
		assert.Equal(t, want, values[key], key)
	}
	assert.Contains(t, values["XP_TABLE"], "Total")
	assert.False(t, strings.HasSuffix(values["XP_TABLE"], "\n"))

	// Every key a template may use is present.
	for _, key := range []string{"MERGEDPRS", "ISSUES", "COMMENTS", "FORKS", "RELEASES", "FOLLOWERS", "STARS_GIVEN"} {
		assert.Contains(t, values, key)
	}
}

func TestSubstitutionMapDegraded(t *testing.T) {
	report := testReport(t)
	report.Diagnostics.Add(domain.Degradation{Stat: domain.StatReviewComment, Scope: "octocat/hello", Err: errors.New("boom")})
	report.Diagnostics.Add(domain.Degradation{Stat: domain.StatGist, Err: errors.New("boom")})
	report.Diagnostics.Add(domain.Degradation{Scope: "contribution calendar", Err: errors.New("boom")})

	values, err := SubstitutionMap(report, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Code Review Comments, Gists Created, contribution calendar", values["DEGRADED"])
	assert.Equal(t, DefaultBarWidth, len([]rune(values["XP_BAR"])))
}

func TestRecentRepos(t *testing.T) {
	assert.Equal(t, "_No public repositories yet._", RecentRepos(nil))
}

func TestAchievementsLocked(t *testing.T) {
	got := Achievements([]domain.AchievementStatus{{Achievement: domain.Achievement{Message: "Later"}}})
	assert.Equal(t, "- 🔒 Later", got)
}

func TestSubstitutionMapTimeline(t *testing.T) {
	opts := Options{
		Milestones: []domain.Milestone{{Year: 2024, Label: "Launch", Date: "2024-03-01"}},
		Now:        time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	values, err := SubstitutionMap(testReport(t), opts)
	require.NoError(t, err)
	assert.Contains(t, values["TIMELINE"], "| 2024 | **Recent:** Launch (_2 days ago_) |")

	opts.Milestones[0].Date = "March"
	_, err = SubstitutionMap(testReport(t), opts)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
