package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/naka-gawa/github-xp/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manages the settings file",
	// Settings are not loaded here so that a broken file can be replaced.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a settings file with the default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := config.Default().WriteYAML(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		successColor.Fprintf(cmd.ErrOrStderr(), "✓ %s written\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringP("output", "o", config.FileName+".yaml", "Settings file to write")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
