package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/github-xp/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Writes the level progress bar and contribution calendar as SVG",
	RunE: func(cmd *cobra.Command, args []string) error {
		progressPath, _ := cmd.Flags().GetString("progress")
		calendarPath, _ := cmd.Flags().GetString("calendar")
		if progressPath == "" && calendarPath == "" {
			return fmt.Errorf("nothing to render: set --progress or --calendar")
		}

		report, err := buildReport(cmd, calendarPath != "")
		if err != nil {
			return err
		}

		files := map[string]string{}
		if progressPath != "" {
			files[progressPath] = render.ProgressSVG(report.XP, render.DefaultSVGStyle)
		}
		if calendarPath != "" {
			if len(report.Profile.Contributions) == 0 {
				logger.Warn("contribution calendar is empty", zap.String("user", report.User))
			}
			files[calendarPath] = render.CalendarSVG(report.Profile.Contributions, render.DefaultCalendarStyle)
		}
		for path, svg := range files {
			if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			successColor.Fprintf(cmd.ErrOrStderr(), "✓ %s written\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(svgCmd)
	svgCmd.Flags().String("progress", "progress.svg", "Output path of the progress bar (empty to skip)")
	svgCmd.Flags().String("calendar", "", "Output path of the contribution calendar (empty to skip)")
}
