// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Stat names a single countable contribution metric.
// The string value is used as the key for weights in the settings file.
type Stat string

const (
	StatCommit            Stat = "commit"
	StatPullRequest       Stat = "pull_request"
	StatMergedPullRequest Stat = "merged_pull_request"
	StatIssue             Stat = "issue"
	StatStar              Stat = "star"
	StatStarGiven         Stat = "star_given"
	StatFollower          Stat = "follower"
	StatFork              Stat = "fork"
	StatGist              Stat = "gist"
	StatRelease           Stat = "release"
	StatReviewComment     Stat = "review_comment"
	StatRepository        Stat = "repository"
)

// AllStats lists every Stat in the order used for tables and breakdowns.
var AllStats = []Stat{
	StatCommit,
	StatPullRequest,
	StatMergedPullRequest,
	StatIssue,
	StatReviewComment,
	StatStar,
	StatStarGiven,
	StatFollower,
	StatFork,
	StatGist,
	StatRelease,
	StatRepository,
}

// statLabels are the human-readable names shown in rendered output.
var statLabels = map[Stat]string{
	StatCommit:            "Commits",
	StatPullRequest:       "Pull Requests",
	StatMergedPullRequest: "Merged Pull Requests",
	StatIssue:             "Issues Opened",
	StatReviewComment:     "Code Review Comments",
	StatStar:              "Stars Received",
	StatStarGiven:         "Stars Given",
	StatFollower:          "Followers",
	StatFork:              "Forks Created",
	StatGist:              "Gists Created",
	StatRelease:           "Releases Published",
	StatRepository:        "Repositories",
}

// Label returns the display name of the stat.
func (s Stat) Label() string {
	if l, ok := statLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known stats.
func (s Stat) Valid() bool {
	_, ok := statLabels[s]
	return ok
}

// ContributionStats holds the contribution counts of a single user.
// It is produced fresh on every run and is not mutated once returned by the aggregator.
type ContributionStats struct {
	Commits            int `json:"commits"`
	PullRequests       int `json:"pull_requests"`
	MergedPullRequests int `json:"merged_pull_requests"`
	Issues             int `json:"issues"`
	Stars              int `json:"stars"`
	StarsGiven         int `json:"stars_given"`
	Followers          int `json:"followers"`
	Forks              int `json:"forks"`
	Gists              int `json:"gists"`
	Releases           int `json:"releases"`
	ReviewComments     int `json:"review_comments"`
	Repositories       int `json:"repositories"`
}

// Get returns the count recorded for the given stat, or 0 for an unknown stat.
func (c ContributionStats) Get(s Stat) int {
	switch s {
	case StatCommit:
		return c.Commits
	case StatPullRequest:
		return c.PullRequests
	case StatMergedPullRequest:
		return c.MergedPullRequests
	case StatIssue:
		return c.Issues
	case StatStar:
		return c.Stars
	case StatStarGiven:
		return c.StarsGiven
	case StatFollower:
		return c.Followers
	case StatFork:
		return c.Forks
	case StatGist:
		return c.Gists
	case StatRelease:
		return c.Releases
	case StatReviewComment:
		return c.ReviewComments
	case StatRepository:
		return c.Repositories
	}
	return 0
}

// Values returns every stat as a map keyed by Stat.
func (c ContributionStats) Values() map[Stat]int {
	values := make(map[Stat]int, len(AllStats))
	for _, s := range AllStats {
		values[s] = c.Get(s)
	}
	return values
}

// Repository is a summary of one of the user's repositories, used for the "recent repositories" list.
type Repository struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Language    string    `json:"language"`
	URL         string    `json:"url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContributionDay is one cell of the GitHub contribution calendar.
type ContributionDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Profile holds the supplementary, non-numeric data gathered alongside the stats.
type Profile struct {
	Login         string            `json:"login"`
	Name          string            `json:"name,omitempty"`
	RecentRepos   []Repository      `json:"recent_repos"`
	Languages     []string          `json:"languages"`
	Contributions []ContributionDay `json:"contributions,omitempty"`
}
