package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/naka-gawa/github-xp/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Renders a README template with the XP report",
	Long: `Fills the {{PLACEHOLDER}} keys of a template with the XP report and writes the result.

With --markers only the block between <!-- PROGRESS --> and <!-- END_PROGRESS -->
of the output file is replaced; the block is prepended when the markers are missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		templatePath, _ := cmd.Flags().GetString("template")
		outputPath, _ := cmd.Flags().GetString("output")
		markers, _ := cmd.Flags().GetBool("markers")

		tmpl, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		var existing string
		if markers {
			b, err := os.ReadFile(outputPath)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read %s: %w", outputPath, err)
			}
			existing = string(b)
		}

		report, err := buildReport(cmd, needsCalendar(string(tmpl)))
		if err != nil {
			return err
		}
		values, err := render.SubstitutionMap(report, render.Options{
			BarWidth:   settings.BarWidth,
			Milestones: settings.Milestones,
			Now:        time.Now(),
		})
		if err != nil {
			return err
		}

		out := renderReadme(string(tmpl), existing, values, markers)
		if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		logger.Info("readme written", zap.String("path", outputPath))
		successColor.Fprintf(cmd.ErrOrStderr(), "✓ %s updated (level %d)\n", outputPath, report.XP.Level)
		return nil
	},
}

// needsCalendar reports whether the template uses any contribution calendar value.
func needsCalendar(tmpl string) bool {
	for _, key := range render.Placeholders(tmpl) {
		if strings.HasPrefix(key, "CONTRIB_") {
			return true
		}
	}
	return false
}

func renderReadme(tmpl, existing string, values map[string]string, markers bool) string {
	content := render.Substitute(tmpl, values)
	if !markers {
		return content
	}
	return render.ReplaceBlock(existing, render.StartMarker, render.EndMarker, content)
}

func init() {
	rootCmd.AddCommand(readmeCmd)
	readmeCmd.Flags().StringP("template", "t", "TEMPLATE.md", "Template file with {{PLACEHOLDER}} keys")
	readmeCmd.Flags().StringP("output", "o", "README.md", "File to write")
	readmeCmd.Flags().Bool("markers", false, "Replace only the marker-delimited block of the output file")
}
