package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/naka-gawa/github-xp/internal/usecase"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultBarWidth is the number of cells in the text XP bar.
const DefaultBarWidth = 20

// Options tunes the rendered values.
type Options struct {
	BarWidth   int
	Milestones []domain.Milestone
	// Now dates the timeline; zero means the current time.
	Now time.Time
}

var printer = message.NewPrinter(language.English)

// FormatCount prints n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatXP prints an XP amount without a trailing ".0" for whole numbers.
func FormatXP(xp float64) string {
	return strconv.FormatFloat(xp, 'f', -1, 64)
}

// statKeys maps placeholder names to the stat they print.
var statKeys = map[string]domain.Stat{
	"COMMITS":     domain.StatCommit,
	"REPOS":       domain.StatRepository,
	"STARS":       domain.StatStar,
	"STARS_GIVEN": domain.StatStarGiven,
	"FOLLOWERS":   domain.StatFollower,
	"ISSUES":      domain.StatIssue,
	"PRS":         domain.StatPullRequest,
	"MERGEDPRS":   domain.StatMergedPullRequest,
	"COMMENTS":    domain.StatReviewComment,
	"FORKS":       domain.StatFork,
	"GISTS":       domain.StatGist,
	"RELEASES":    domain.StatRelease,
}

// SubstitutionMap returns the placeholder values for a report.
func SubstitutionMap(report *usecase.Report, opts Options) (map[string]string, error) {
	if opts.BarWidth <= 0 {
		opts.BarWidth = DefaultBarWidth
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	xp := report.XP
	values := map[string]string{
		"USERNAME":   report.User,
		"LEVEL":      strconv.Itoa(xp.Level),
		"XP":         FormatXP(xp.CurrentXP),
		"TOTAL_XP":   FormatXP(xp.TotalXP),
		"NEXT_XP":    FormatXP(xp.XPToNext),
		"NEXT_LEVEL": FormatXP(xp.NextThreshold),
		"XP_BAR":     TextBar(xp.Progress, opts.BarWidth),
		"XP_PERCENT": strconv.Itoa(percent(xp.Progress)),
	}
	for key, stat := range statKeys {
		values[key] = FormatCount(report.Stats.Get(stat))
	}

	var table strings.Builder
	if err := BreakdownTable(&table, report.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to render XP table: %w", err)
	}
	values["XP_TABLE"] = strings.TrimRight(table.String(), "\n")
	values["RECENT_REPOS"] = RecentRepos(report.Profile.RecentRepos)
	values["ACHIEVEMENTS"] = Achievements(report.Achievements)
	values["DEGRADED"] = degraded(report.Diagnostics)
	timeline, err := Timeline(opts.Milestones, opts.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to render timeline: %w", err)
	}
	values["TIMELINE"] = timeline

	summary := SummarizeCalendar(report.Profile.Contributions)
	values["CONTRIB_TOTAL"] = FormatCount(summary.Total)
	values["CONTRIB_MEAN"] = strconv.FormatFloat(summary.Mean, 'f', 1, 64)
	values["CONTRIB_MEDIAN"] = FormatXP(summary.Median)
	values["CONTRIB_BEST_DAY"] = FormatCount(summary.BestDay)
	values["CONTRIB_STREAK"] = strconv.Itoa(summary.LongestStreak)
	return values, nil
}

func percent(progress float64) int {
	p := int(progress * 100)
	return min(max(p, 0), 100)
}

func degraded(d domain.Diagnostics) string {
	if d.Clean() {
		return "none"
	}
	stats := d.DegradedStats()
	names := make([]string, 0, len(stats)+1)
	for _, s := range stats {
		names = append(names, s.Label())
	}
	for _, deg := range d.Degradations {
		if deg.Stat == "" {
			names = append(names, deg.Scope)
		}
	}
	return strings.Join(names, ", ")
}

// RecentRepos renders repositories as a Markdown list.
func RecentRepos(repos []domain.Repository) string {
	if len(repos) == 0 {
		return "_No public repositories yet._"
	}
	lines := make([]string, 0, len(repos))
	for _, r := range repos {
		lines = append(lines, fmt.Sprintf("- [%s](%s): %s ★%s - %s", r.Name, r.URL, r.Description, FormatCount(r.Stars), r.Language))
	}
	return strings.Join(lines, "\n")
}

// Achievements renders the achievement list, unlocked ones checked.
func Achievements(list []domain.AchievementStatus) string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		mark := "🔒"
		if a.IsUnlocked {
			mark = "✅"
		}
		lines = append(lines, fmt.Sprintf("- %s %s", mark, a.Message))
	}
	return strings.Join(lines, "\n")
}
