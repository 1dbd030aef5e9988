package domain

// Achievement is a badge unlocked once every requirement is met.
type Achievement struct {
	ID           string       `json:"id" yaml:"id" mapstructure:"id"`
	Message      string       `json:"message" yaml:"message" mapstructure:"message"`
	Requirements map[Stat]int `json:"requirements,omitempty" yaml:"requirements,omitempty" mapstructure:"requirements"`
	MinLanguages int          `json:"min_languages,omitempty" yaml:"min_languages,omitempty" mapstructure:"min_languages"`
}

// DefaultAchievements is the built-in badge list.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "new_adventurer", Message: "New Adventurer: profile README created!", Requirements: map[Stat]int{StatRepository: 1, StatCommit: 1}},
		{ID: "first_commit", Message: "First Commit: made my mark on the codebase!", Requirements: map[Stat]int{StatCommit: 1}},
		{ID: "rising_star", Message: "Rising Star: achieved 100+ total commits!", Requirements: map[Stat]int{StatCommit: 100}},
		{ID: "project_initiator", Message: "Project Initiator: created 5+ repositories!", Requirements: map[Stat]int{StatRepository: 5}},
		{ID: "knowledge_seeker", Message: "Knowledge Seeker: explored 3+ programming languages!", MinLanguages: 3},
		{ID: "team_player", Message: "Team Player: got 10+ pull requests merged!", Requirements: map[Stat]int{StatMergedPullRequest: 10}},
		{ID: "thousand_commits_explorer", Message: "Thousand Commits Explorer: surpassed 1,000 commits!", Requirements: map[Stat]int{StatCommit: 1000}},
	}
}

// Unlocked reports whether the stats and language count satisfy every requirement.
func (a Achievement) Unlocked(stats ContributionStats, languages int) bool {
	for s, need := range a.Requirements {
		if stats.Get(s) < need {
			return false
		}
	}
	return languages >= a.MinLanguages
}

// AchievementStatus pairs an achievement with whether it is unlocked.
type AchievementStatus struct {
	Achievement
	IsUnlocked bool `json:"unlocked"`
}

// EvaluateAchievements returns the status of every achievement, preserving list order.
func EvaluateAchievements(stats ContributionStats, languages []string, list []Achievement) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(list))
	for _, a := range list {
		out = append(out, AchievementStatus{Achievement: a, IsUnlocked: a.Unlocked(stats, len(languages))})
	}
	return out
}
