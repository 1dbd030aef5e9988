package render

import (
	"testing"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	milestones := []domain.Milestone{
		{Year: 2020, Label: "Started studying", Date: "2020-01-01"},
		{Label: "Joined the team", Date: "2025-05-01"},
	}
	now := time.Date(2025, 5, 11, 9, 0, 0, 0, time.UTC)

	got, err := Timeline(milestones, now)
	require.NoError(t, err)
	assert.Equal(t, "| Year | Milestone |\n"+
		"|------|-----------|\n"+
		"| 2020 | Started studying |\n"+
		"| 2025 | **Recent:** Joined the team (_10 days ago_) |", got)

	// Forty days later nothing is recent.
	got, err = Timeline(milestones, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Contains(t, got, "| 2025 | Joined the team |")
	assert.NotContains(t, got, "Recent")
}

func TestTimelineEmptyAndInvalid(t *testing.T) {
	got, err := Timeline(nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "_No milestones yet._", got)

	_, err = Timeline([]domain.Milestone{{Label: "x", Date: "soon"}}, time.Now())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
