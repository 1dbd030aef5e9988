package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/naka-gawa/github-xp/internal/domain"
)

// TextBar draws progress (0..1) as width cells of ▰ and ▱.
func TextBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Floor(progress * float64(width)))
	filled = min(max(filled, 0), width)
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

// SVGStyle configures the progress bar graphic.
type SVGStyle struct {
	Width      int
	Height     int
	Background string
	Fill       string
	Text       string
}

// DefaultSVGStyle is the pink-on-charcoal bar.
var DefaultSVGStyle = SVGStyle{Width: 700, Height: 40, Background: "#333", Fill: "#FF49C6", Text: "#fff"}

// ProgressSVG renders the level progress bar.
func ProgressSVG(state domain.XPState, style SVGStyle) string {
	if style.Width <= 0 || style.Height <= 0 {
		style = DefaultSVGStyle
	}
	progress := min(max(state.Progress, 0), 1)
	filled := math.Round(progress*float64(style.Width)*100) / 100
	radius := style.Height / 2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		style.Width, style.Height, style.Width, style.Height)
	fmt.Fprintf(&b, `  <rect x="0" y="0" width="%d" height="%d" fill="%s" rx="%d" />`+"\n",
		style.Width, style.Height, style.Background, radius)
	fmt.Fprintf(&b, `  <rect x="0" y="0" width="%s" height="%d" fill="%s" rx="%d" />`+"\n",
		FormatXP(filled), style.Height, style.Fill, radius)
	fmt.Fprintf(&b, `  <text x="%d" y="%d" fill="%s" font-weight="bold" font-size="16" text-anchor="middle" font-family="Verdana">`+"\n",
		style.Width/2, style.Height/2+6, style.Text)
	fmt.Fprintf(&b, "    Level %d — XP %s / %s\n", state.Level, FormatXP(state.CurrentXP), FormatXP(state.NextThreshold-levelFloor(state)))
	b.WriteString("  </text>\n</svg>\n")
	return b.String()
}

// levelFloor recovers the threshold of the current level from the state.
func levelFloor(state domain.XPState) float64 {
	return state.TotalXP - state.CurrentXP
}
