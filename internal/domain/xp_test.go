package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalXP(t *testing.T) {
	testCases := []struct {
		name     string
		stats    ContributionStats
		weights  Weights
		expected float64
	}{
		{
			name:     "mixed contributions",
			stats:    scenarioStats,
			weights:  scenarioWeights,
			expected: 80,
		},
		{
			name:     "missing weights contribute nothing",
			stats:    ContributionStats{Commits: 10, Followers: 100, Gists: 4},
			weights:  Weights{StatCommit: 2},
			expected: 20,
		},
		{
			name:     "fractional star weight",
			stats:    ContributionStats{Stars: 5},
			weights:  Weights{StatStar: 0.5},
			expected: 2.5,
		},
		{
			name:     "empty stats",
			stats:    ContributionStats{},
			weights:  DefaultWeights(),
			expected: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeTotalXP(tc.stats, tc.weights))
		})
	}
}

// Doubling the weight of one stat doubles that stat's contribution and nothing else.
func TestComputeTotalXP_LinearInEachWeight(t *testing.T) {
	stats := ContributionStats{
		Commits: 12, PullRequests: 3, MergedPullRequests: 2, Issues: 7, Stars: 40, StarsGiven: 11,
		Followers: 5, Forks: 1, Gists: 2, Releases: 4, ReviewComments: 9, Repositories: 6,
	}
	base := DefaultWeights()
	baseXP := ComputeTotalXP(stats, base)

	for _, s := range AllStats {
		doubled := Weights{}
		for k, v := range base {
			doubled[k] = v
		}
		doubled[s] = base[s] * 2

		contribution := float64(stats.Get(s)) * base[s]
		assert.Equal(t, baseXP+contribution, ComputeTotalXP(stats, doubled), "stat %s", s)
	}
}

func TestBreakdown(t *testing.T) {
	got := Breakdown(scenarioStats, scenarioWeights)
	want := []XPContribution{
		{Stat: StatCommit, Count: 10, Weight: 1, XP: 10},
		{Stat: StatPullRequest, Count: 2, Weight: 10, XP: 20},
		{Stat: StatMergedPullRequest, Count: 1, Weight: 20, XP: 20},
		{Stat: StatIssue, Count: 3, Weight: 5, XP: 15},
		{Stat: StatStar, Count: 5, Weight: 3, XP: 15},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Breakdown() mismatch (-want +got):\n%s", diff)
	}

	var sum float64
	for _, c := range got {
		sum += c.XP
	}
	assert.Equal(t, ComputeTotalXP(scenarioStats, scenarioWeights), sum)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	err := Weights{StatCommit: -1}.Validate()
	assert.True(t, errors.Is(err, ErrConfiguration))

	err = Weights{Stat("wiki_edit"): 3}.Validate()
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "wiki_edit")

	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err = Weights{StatCommit: w}.Validate()
		assert.True(t, errors.Is(err, ErrConfiguration), "weight %v", w)
	}
}

func TestContributionStats_Values(t *testing.T) {
	stats := ContributionStats{Commits: 1, Repositories: 12}
	values := stats.Values()
	assert.Len(t, values, len(AllStats))
	assert.Equal(t, 1, values[StatCommit])
	assert.Equal(t, 12, values[StatRepository])
	assert.Equal(t, 0, stats.Get(Stat("unknown")))
}

func TestDiagnostics_DegradedStats(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.Clean())

	d.Add(Degradation{Stat: StatRelease, Scope: "me/b", Err: errors.New("boom")})
	d.Add(Degradation{Stat: StatCommit, Scope: "me/a", Err: errors.New("boom")})
	d.Add(Degradation{Stat: StatRelease, Scope: "me/c", Err: errors.New("boom")})

	assert.False(t, d.Clean())
	assert.Equal(t, []Stat{StatCommit, StatRelease}, d.DegradedStats())
	assert.Equal(t, "release (me/b): boom", d.Degradations[0].Error())
}
