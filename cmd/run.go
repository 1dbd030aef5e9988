package cmd

import (
	"context"
	"fmt"

	"github.com/naka-gawa/github-xp/internal/config"
	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/naka-gawa/github-xp/internal/gateway"
	"github.com/naka-gawa/github-xp/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveTarget combines the --user/--repo flags with their environment fallbacks.
func resolveTarget(cmd *cobra.Command, creds config.Credentials) (usecase.Target, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = creds.Username
	}
	repo, _ := cmd.Flags().GetString("repo")
	if repo == "" {
		repo = creds.Repo
	}
	target := usecase.Target{User: user}
	if repo != "" {
		owner, name, err := usecase.ParseRepository(repo)
		if err != nil {
			return usecase.Target{}, err
		}
		target.Owner, target.Repo = owner, name
	}
	if err := target.Validate(); err != nil {
		return usecase.Target{}, fmt.Errorf("%w (use --user or GITHUB_USERNAME)", err)
	}
	return target, nil
}

// buildReport runs one aggregation with the resolved settings and levels the result.
func buildReport(cmd *cobra.Command, calendar bool) (*usecase.Report, error) {
	leveling, err := settings.Leveling()
	if err != nil {
		return nil, err
	}
	creds, err := config.ParseCredentials()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	token, err := creds.AccessToken()
	if err != nil {
		return nil, err
	}
	target, err := resolveTarget(cmd, creds)
	if err != nil {
		return nil, err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(token, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, githubGateway, logger, usecase.Options{
		Mode:        settings.Mode,
		RecentRepos: settings.RecentRepos,
		Calendar:    calendar,
	})

	ctx := cmd.Context()
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}
	result, err := aggregator.Aggregate(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	report := usecase.BuildReport(result, leveling)
	logger.Info("report built",
		zap.String("user", report.User),
		zap.Int("level", report.XP.Level),
		zap.Float64("total_xp", report.XP.TotalXP),
		zap.Int("degradations", len(result.Diagnostics.Degradations)),
	)
	return report, nil
}
