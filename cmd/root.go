// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-xp/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	vcfg     = config.New()
	settings = config.Default()
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "github-xp",
	Short: "A CLI tool that turns GitHub contributions into XP and levels.",
	Long: `github-xp aggregates a user's public GitHub contributions (commits, pull
requests, issues, stars, followers, releases...), converts them into experience
points and a level, and renders the result as JSON, a README block or SVG images.

The token is read from GITHUB_TOKEN (or PAT_TOKEN). Settings are read from
.github-xp.yaml and GITHUB_XP_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(cmd); err != nil {
			return err
		}
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("user", "u", "", "Target GitHub user name (default $GITHUB_USERNAME)")
	flags.StringP("repo", "r", "", "Restrict per-repository stats to owner/repo or its URL (default $GITHUB_REPO)")
	flags.String("mode", "", "Fetch mode: rest or graphql")
	flags.String("policy", "", "Level policy: bucket or exponential")
	flags.String("config", "", "Settings file (default is ./.github-xp.yaml or $HOME/.github-xp.yaml)")
	flags.Duration("timeout", 0, "Abort the run after this long (0 means no limit)")
	flags.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	flags.BoolP("quiet", "q", false, "Disable logging")
}

func initLogger(cmd *cobra.Command) error {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		logger = zap.NewNop()
		return nil
	}
	cfg := zap.NewProductionConfig()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// initConfig merges flags over the file, environment and defaults.
func initConfig(cmd *cobra.Command) error {
	for _, name := range []string{"mode", "policy", "timeout"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := vcfg.BindPFlag(name, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	configFile, _ := cmd.Flags().GetString("config")
	s, err := config.Load(vcfg, configFile)
	if err != nil {
		return err
	}
	settings = s
	if used := vcfg.ConfigFileUsed(); used != "" {
		logger.Debug("loaded settings file", zap.String("path", used))
	}
	return nil
}
