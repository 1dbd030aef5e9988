package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
)

// Timeline renders milestones as a Markdown table, flagging those from the last 30 days.
func Timeline(milestones []domain.Milestone, now time.Time) (string, error) {
	if len(milestones) == 0 {
		return "_No milestones yet._", nil
	}
	var b strings.Builder
	b.WriteString("| Year | Milestone |\n|------|-----------|")
	for _, m := range milestones {
		recent, days, err := m.Recent(now)
		if err != nil {
			return "", err
		}
		year := m.Year
		if year == 0 {
			t, _ := m.Time()
			year = t.Year()
		}
		label := m.Label
		if recent {
			label = fmt.Sprintf("**Recent:** %s (_%d days ago_)", label, days)
		}
		fmt.Fprintf(&b, "\n| %d | %s |", year, label)
	}
	return b.String(), nil
}
