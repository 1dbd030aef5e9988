package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/naka-gawa/github-xp/internal/render"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates GitHub user activity and outputs the XP report",
	Long:  `Aggregates the contributions of a GitHub user, computes XP, level and achievements, and prints the report as JSON or as a table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "table" {
			return fmt.Errorf("unknown --format %q (want json or table)", format)
		}
		calendar, _ := cmd.Flags().GetBool("calendar")

		report, err := buildReport(cmd, calendar)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "table" {
			successColor.Fprintf(out, "%s: Level %d (%s XP, %s to next level)\n",
				report.User, report.XP.Level, render.FormatXP(report.XP.TotalXP), render.FormatXP(report.XP.XPToNext))
			return render.BreakdownTable(out, report.Breakdown)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("format", "f", "json", "Output format: json or table")
	statsCmd.Flags().Bool("calendar", false, "Also fetch the contribution calendar")
}
