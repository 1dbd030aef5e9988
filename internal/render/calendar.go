package render

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	mstats "github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-xp/internal/domain"
)

// CalendarSummary describes a contribution calendar.
type CalendarSummary struct {
	Total         int     `json:"total"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	BestDay       int     `json:"best_day"`
	LongestStreak int     `json:"longest_streak"`
}

// SummarizeCalendar computes totals and averages over the calendar days. An empty calendar gives a zero summary.
func SummarizeCalendar(days []domain.ContributionDay) CalendarSummary {
	if len(days) == 0 {
		return CalendarSummary{}
	}
	data := make(mstats.Float64Data, 0, len(days))
	var summary CalendarSummary
	streak := 0
	for _, d := range days {
		data = append(data, float64(d.Count))
		summary.Total += d.Count
		if d.Count > 0 {
			streak++
			summary.LongestStreak = max(summary.LongestStreak, streak)
		} else {
			streak = 0
		}
	}
	// The inputs are non-empty, so these cannot fail.
	summary.Mean, _ = mstats.Mean(data)
	summary.Median, _ = mstats.Median(data)
	best, _ := mstats.Max(data)
	summary.BestDay = int(best)
	return summary
}

// CalendarStyle configures the animated contribution graphic.
type CalendarStyle struct {
	Square    int
	Padding   int
	Snakes    int
	SnakeLen  int
	Particles int
	// Duration is the time a runner needs to cross the grid.
	Duration time.Duration
	// Seed makes particle placement reproducible.
	Seed uint64
}

// DefaultCalendarStyle is six runners over 24px cells.
var DefaultCalendarStyle = CalendarStyle{
	Square:    24,
	Padding:   2,
	Snakes:    6,
	SnakeLen:  5,
	Particles: 30,
	Duration:  56 * time.Second,
	Seed:      1,
}

const calendarMargin = 10

// CellColor maps a day's contribution count to its fill colour.
func CellColor(count int) string {
	switch {
	case count <= 0:
		return "#1c1c1c"
	case count <= 2:
		return "#55CDFC"
	case count <= 5:
		return "#F7A8B8"
	}
	return "#FFFFFF"
}

// calendarCell places one day on the grid.
type calendarCell struct {
	week, weekday, count int
}

// layoutCalendar arranges days into Sunday-first week columns.
func layoutCalendar(days []domain.ContributionDay) ([]calendarCell, int) {
	if len(days) == 0 {
		return nil, 0
	}
	first := days[0].Date
	start := first.AddDate(0, 0, -int(first.Weekday()))
	cells := make([]calendarCell, 0, len(days))
	weeks := 0
	for _, d := range days {
		week := int(d.Date.Sub(start).Hours()/24) / 7
		cells = append(cells, calendarCell{week: week, weekday: int(d.Date.Weekday()), count: d.Count})
		weeks = max(weeks, week+1)
	}
	return cells, weeks
}

// CalendarSVG renders the contribution calendar with runners sweeping across each row.
func CalendarSVG(days []domain.ContributionDay, style CalendarStyle) string {
	if style.Square <= 0 {
		style = DefaultCalendarStyle
	}
	cells, weeks := layoutCalendar(days)
	step := style.Square + style.Padding
	gridWidth := max(weeks, 1) * step
	width := gridWidth + 2*calendarMargin + 4*step
	height := 7*step + 2*calendarMargin
	dur := style.Duration.Seconds()
	if dur <= 0 {
		dur = DefaultCalendarStyle.Duration.Seconds()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg" style="background:#121212;border-radius:8px;">`+"\n",
		width, height, width, height)
	writeCalendarDefs(&b, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="url(#transGradient)" opacity="0.05"/>`+"\n", width, height)

	for _, c := range cells {
		x := calendarMargin + c.week*step
		y := calendarMargin + c.weekday*step
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" />`+"\n", x, y, style.Square, style.Square, CellColor(c.count))
	}

	inner := style.Square - 4
	for s := 0; s < style.Snakes; s++ {
		y := calendarMargin + (s%7)*step + 2
		begin := float64(s) * dur / float64(style.Snakes)
		for seg := 0; seg < style.SnakeLen; seg++ {
			from := calendarMargin + 2 - seg*step
			to := from + gridWidth
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="5" ry="5" fill="url(#runnerGradient)" filter="url(#glow)" opacity="%.2f">`+
				`<animate attributeName="x" values="%d;%d" dur="%gs" begin="%gs" repeatCount="indefinite" keyTimes="0;1" /></rect>`+"\n",
				from, y, inner, inner, 1-float64(seg)*0.15, from, to, dur, begin+float64(seg)*0.8)
		}
	}

	rng := rand.New(rand.NewPCG(style.Seed, style.Seed^0x9e3779b97f4a7c15))
	for p := 0; p < style.Particles; p++ {
		y := calendarMargin + (p%7)*step + style.Square/2
		startX := float64(calendarMargin) + rng.Float64()*float64(gridWidth)
		pdur := 15 + rng.Float64()*10
		delay := rng.Float64() * dur
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%d" r="3" fill="#FFFFFF" fill-opacity="0.8" mask="url(#fadeMask)">`+
			`<animate attributeName="cx" values="%.1f;%d" dur="%.1fs" begin="%.1fs" repeatCount="indefinite" />`+
			`<animate attributeName="fill-opacity" values="0.8;0;0.8" dur="%.1fs" begin="%.1fs" repeatCount="indefinite" /></circle>`+"\n",
			startX, y, startX, width+10, pdur, delay, pdur, delay)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeCalendarDefs(b *strings.Builder, width, height int) {
	fmt.Fprintf(b, `<defs>
  <linearGradient id="transGradient" x1="0" y1="0" x2="0" y2="1">
    <stop offset="0%%" stop-color="#55CDFC"/>
    <stop offset="33%%" stop-color="#F7A8B8"/>
    <stop offset="66%%" stop-color="#FFFFFF"/>
    <stop offset="100%%" stop-color="#F7A8B8"/>
  </linearGradient>
  <linearGradient id="runnerGradient" x1="0" y1="0" x2="1" y2="1">
    <stop offset="0%%" stop-color="#55CDFC"/>
    <stop offset="50%%" stop-color="#FFFFFF"/>
    <stop offset="100%%" stop-color="#F7A8B8"/>
  </linearGradient>
  <filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%" color-interpolation-filters="sRGB">
    <feDropShadow dx="0" dy="0" stdDeviation="4" flood-color="#F7A8B8" flood-opacity="0.6"/>
    <feDropShadow dx="0" dy="0" stdDeviation="8" flood-color="#55CDFC" flood-opacity="0.4"/>
  </filter>
  <linearGradient id="fadeGradient" x1="0" y1="0" x2="1" y2="0">
    <stop offset="80%%" stop-color="black" stop-opacity="0" />
    <stop offset="100%%" stop-color="black" stop-opacity="1" />
  </linearGradient>
  <mask id="fadeMask" x="0" y="0" width="%d" height="%d">
    <rect width="%d" height="%d" fill="white" />
    <rect x="%d" y="0" width="%d" height="%d" fill="url(#fadeGradient)" />
  </mask>
</defs>
`, width, height, width, height, width*8/10, width*2/10, height)
}
