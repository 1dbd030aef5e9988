package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAchievements(t *testing.T) {
	stats := ContributionStats{Commits: 150, Repositories: 3, MergedPullRequests: 2}
	languages := []string{"go", "python", "rust"}

	unlocked := map[string]bool{}
	for _, st := range EvaluateAchievements(stats, languages, DefaultAchievements()) {
		unlocked[st.ID] = st.IsUnlocked
	}

	assert.Equal(t, map[string]bool{
		"new_adventurer":            true,
		"first_commit":              true,
		"rising_star":               true,
		"project_initiator":         false,
		"knowledge_seeker":          true,
		"team_player":               false,
		"thousand_commits_explorer": false,
	}, unlocked)
}

func TestAchievement_NoRequirementsAlwaysUnlocked(t *testing.T) {
	a := Achievement{ID: "hello"}
	assert.True(t, a.Unlocked(ContributionStats{}, 0))
}
