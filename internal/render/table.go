package render

import (
	"io"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// BreakdownTable writes the per-source XP breakdown as a text table with a total row.
func BreakdownTable(w io.Writer, breakdown []domain.XPContribution) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Source", "Count", "XP Each", "XP"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var total float64
	data := make([][]string, 0, len(breakdown))
	for _, c := range breakdown {
		total += c.XP
		data = append(data, []string{
			c.Stat.Label(),
			FormatCount(c.Count),
			FormatXP(c.Weight),
			FormatXP(c.XP),
		})
	}
	data = append(data, []string{"Total", "", "", FormatXP(total)})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
