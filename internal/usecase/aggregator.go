// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/naka-gawa/github-xp/internal/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Query modes.
const (
	ModeREST    = "rest"
	ModeGraphQL = "graphql"
)

// DefaultRecentRepos is how many repositories the profile lists when not configured.
const DefaultRecentRepos = 5

// Target identifies whose contributions are aggregated.
// When Owner and Repo are set, repository-level counts are restricted to that repository.
type Target struct {
	User  string
	Owner string
	Repo  string
}

// Scoped reports whether the target names a single repository.
func (t Target) Scoped() bool { return t.Owner != "" && t.Repo != "" }

// Validate checks that a user is given and that owner and repo come as a pair.
func (t Target) Validate() error {
	if strings.TrimSpace(t.User) == "" {
		return fmt.Errorf("%w: a GitHub user name is required", domain.ErrConfiguration)
	}
	if (t.Owner == "") != (t.Repo == "") {
		return fmt.Errorf("%w: repository target must be given as owner/repo", domain.ErrConfiguration)
	}
	return nil
}

// ParseRepository accepts "owner/repo" or a github.com URL and returns its parts.
func ParseRepository(s string) (owner, repo string, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid repository %q, expected owner/repo", domain.ErrConfiguration, s)
	}
	return parts[0], parts[1], nil
}

// Options tunes an aggregation run.
type Options struct {
	Mode        string
	RecentRepos int
	// Calendar also fetches the contribution calendar; it needs a SummaryFetcher.
	Calendar bool
}

// AggregateResult is everything gathered for one user.
type AggregateResult struct {
	Stats       domain.ContributionStats `json:"stats"`
	Profile     domain.Profile           `json:"profile"`
	Diagnostics domain.Diagnostics       `json:"diagnostics"`
}

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	summary gateway.SummaryFetcher
	logger  *zap.Logger
	opts    Options
}

// NewAggregator creates a new Aggregator instance.
// summary may be nil when only the REST mode and no calendar are needed.
func NewAggregator(fetcher gateway.Fetcher, summary gateway.SummaryFetcher, logger *zap.Logger, opts Options) *Aggregator {
	if opts.Mode == "" {
		opts.Mode = ModeREST
	}
	if opts.RecentRepos <= 0 {
		opts.RecentRepos = DefaultRecentRepos
	}
	return &Aggregator{
		fetcher: fetcher,
		summary: summary,
		logger:  logger,
		opts:    opts,
	}
}

// Aggregate performs the main business logic.
// Failure of the primary user or repository lookup aborts the run. Every other
// sub-query that fails is counted as zero and recorded in the result's Diagnostics,
// except authentication failures and cancellation, which are always fatal.
func (a *Aggregator) Aggregate(ctx context.Context, target Target) (*AggregateResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	switch a.opts.Mode {
	case ModeREST:
	case ModeGraphQL:
		if a.summary == nil {
			return nil, fmt.Errorf("%w: graphql mode needs a GraphQL client", domain.ErrConfiguration)
		}
	default:
		return nil, fmt.Errorf("%w: unknown query mode %q", domain.ErrConfiguration, a.opts.Mode)
	}
	a.logger.Info("Starting data aggregation", zap.String("user", target.User), zap.String("mode", a.opts.Mode))

	var (
		result AggregateResult
		repos  []gateway.Repository
		err    error
	)
	if a.opts.Mode == ModeGraphQL {
		repos, err = a.primaryGraphQL(ctx, target, &result)
	} else {
		repos, err = a.primaryREST(ctx, target, &result)
	}
	if err != nil {
		return nil, err
	}

	// The repositories whose contents are counted one by one.
	var sweepRepos []gateway.Repository
	if target.Scoped() {
		repo, err := a.fetcher.FetchRepository(ctx, target.Owner, target.Repo)
		if err != nil {
			return nil, fmt.Errorf("failed to look up target repository: %w", err)
		}
		sweepRepos = []gateway.Repository{*repo}
	} else if a.opts.Mode == ModeREST {
		sweepRepos = ownedSources(repos)
	}

	var (
		commits, issues, releases, comments sweep
		pulls                               pullSweep
		starred, gists                      sweep
		calendar                            []domain.ContributionDay
		calendarDegradation                 []domain.Degradation
	)
	eg, egCtx := errgroup.WithContext(ctx)

	if len(sweepRepos) > 0 {
		author := result.Profile.Login
		eg.Go(func() error {
			return a.sweepRepos(egCtx, &commits, domain.StatCommit, sweepRepos, func(ctx context.Context, r gateway.Repository) (int, error) {
				return a.fetcher.CountCommits(ctx, r.Owner, r.Name, author)
			})
		})
		eg.Go(func() error {
			return a.sweepPullRequests(egCtx, &pulls, sweepRepos, author)
		})
		eg.Go(func() error {
			return a.sweepRepos(egCtx, &issues, domain.StatIssue, sweepRepos, func(ctx context.Context, r gateway.Repository) (int, error) {
				return a.fetcher.CountIssues(ctx, r.Owner, r.Name, author)
			})
		})
		eg.Go(func() error {
			return a.sweepRepos(egCtx, &releases, domain.StatRelease, sweepRepos, func(ctx context.Context, r gateway.Repository) (int, error) {
				return a.fetcher.CountReleases(ctx, r.Owner, r.Name)
			})
		})
		eg.Go(func() error {
			return a.sweepRepos(egCtx, &comments, domain.StatReviewComment, sweepRepos, func(ctx context.Context, r gateway.Repository) (int, error) {
				return a.fetcher.CountReviewComments(ctx, r.Owner, r.Name, author)
			})
		})
	}

	if a.opts.Mode == ModeREST {
		login := result.Profile.Login
		eg.Go(func() error {
			n, err := a.fetcher.CountStarred(egCtx, login)
			if err != nil {
				return a.absorb(egCtx, &starred, domain.StatStarGiven, "", err)
			}
			starred.total = n
			return nil
		})
		eg.Go(func() error {
			n, err := a.fetcher.CountGists(egCtx, login)
			if err != nil {
				return a.absorb(egCtx, &gists, domain.StatGist, "", err)
			}
			gists.total = n
			return nil
		})
	}

	if a.opts.Calendar && a.summary != nil {
		login := result.Profile.Login
		eg.Go(func() error {
			days, err := a.summary.FetchContributionCalendar(egCtx, login)
			if err != nil {
				var s sweep
				if err := a.absorb(egCtx, &s, "", "contribution calendar", err); err != nil {
					return err
				}
				calendarDegradation = s.degraded
				return nil
			}
			calendar = days
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Debug("All data fetched")

	stats := &result.Stats
	if len(sweepRepos) > 0 {
		stats.Commits = commits.total
		stats.PullRequests = pulls.created
		stats.MergedPullRequests = pulls.merged
		stats.Issues = issues.total
		stats.Releases = releases.total
		stats.ReviewComments = comments.total
	}
	if a.opts.Mode == ModeREST {
		stats.StarsGiven = starred.total
		stats.Gists = gists.total
	}
	result.Profile.Contributions = calendar

	for _, d := range [][]domain.Degradation{
		commits.degraded, pulls.degraded, issues.degraded, releases.degraded, comments.degraded,
		starred.degraded, gists.degraded, calendarDegradation,
	} {
		for _, deg := range d {
			result.Diagnostics.Add(deg)
		}
	}

	result.Profile.RecentRepos = recentRepositories(repos, a.opts.RecentRepos)
	result.Profile.Languages = languages(repos)

	a.logger.Info("Aggregation complete",
		zap.Int("repositories", stats.Repositories),
		zap.Int("degraded", len(result.Diagnostics.Degradations)))
	return &result, nil
}

// primaryREST looks up the user (fatal) and lists their repositories (soft).
func (a *Aggregator) primaryREST(ctx context.Context, target Target, result *AggregateResult) ([]gateway.Repository, error) {
	user, err := a.fetcher.FetchUser(ctx, target.User)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	result.Profile.Login = user.Login
	result.Profile.Name = user.Name
	result.Stats.Followers = user.Followers

	repos, err := a.fetcher.ListRepositories(ctx, user.Login)
	if err != nil {
		var s sweep
		if err := a.absorb(ctx, &s, domain.StatRepository, "", err); err != nil {
			return nil, err
		}
		// Every count derived from the listing is now zero as well.
		dependent := []domain.Stat{domain.StatStar, domain.StatFork}
		if !target.Scoped() {
			dependent = append(dependent, sweptStats...)
		}
		for _, stat := range dependent {
			s.degraded = append(s.degraded, domain.Degradation{Stat: stat, Scope: "repository listing", Err: err})
		}
		result.Diagnostics.Merge(domain.Diagnostics{Degradations: s.degraded})
		return nil, nil
	}
	result.Stats.Repositories = len(repos)
	for _, r := range repos {
		result.Stats.Stars += r.Stars
		if r.Fork {
			result.Stats.Forks++
		}
	}
	return repos, nil
}

// primaryGraphQL fetches the aggregate summary. Its first page is the primary lookup, so failing it is fatal;
// a failure on a later page degrades the per-repository sums.
func (a *Aggregator) primaryGraphQL(ctx context.Context, target Target, result *AggregateResult) ([]gateway.Repository, error) {
	summary, err := a.summary.FetchSummary(ctx, target.User)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user summary: %w", err)
	}
	result.Profile.Login = summary.User.Login
	result.Profile.Name = summary.User.Name
	result.Stats = summary.Stats
	if summary.Incomplete != nil {
		var s sweep
		if err := a.absorb(ctx, &s, domain.StatStar, "repository pages", summary.Incomplete); err != nil {
			return nil, err
		}
		for _, stat := range []domain.Stat{domain.StatRelease, domain.StatFork} {
			s.degraded = append(s.degraded, domain.Degradation{Stat: stat, Scope: "repository pages", Err: summary.Incomplete})
		}
		result.Diagnostics.Merge(domain.Diagnostics{Degradations: s.degraded})
	}
	return summary.Repositories, nil
}

// sweptStats are the stats counted repository by repository.
var sweptStats = []domain.Stat{
	domain.StatCommit,
	domain.StatPullRequest,
	domain.StatMergedPullRequest,
	domain.StatIssue,
	domain.StatRelease,
	domain.StatReviewComment,
}

// sweep accumulates one stat across repositories. Each goroutine owns its sweep exclusively.
type sweep struct {
	total    int
	degraded []domain.Degradation
}

type pullSweep struct {
	sweep
	created int
	merged  int
}

// absorb records err as a degradation of stat, unless it must abort the run.
func (a *Aggregator) absorb(ctx context.Context, s *sweep, stat domain.Stat, scope string, err error) error {
	if errors.Is(err, domain.ErrAuthentication) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	a.logger.Warn("Sub-query failed, counting it as zero",
		zap.String("stat", string(stat)), zap.String("scope", scope), zap.Error(err))
	s.degraded = append(s.degraded, domain.Degradation{Stat: stat, Scope: scope, Err: err})
	return nil
}

func (a *Aggregator) sweepRepos(ctx context.Context, s *sweep, stat domain.Stat, repos []gateway.Repository, count func(context.Context, gateway.Repository) (int, error)) error {
	for _, r := range repos {
		n, err := count(ctx, r)
		if err != nil {
			if err := a.absorb(ctx, s, stat, r.FullName(), err); err != nil {
				return err
			}
			continue
		}
		s.total += n
	}
	a.logger.Debug("Completed sweep", zap.String("stat", string(stat)), zap.Int("total", s.total))
	return nil
}

// sweepPullRequests counts created and merged PRs together, since both come from the same listing.
func (a *Aggregator) sweepPullRequests(ctx context.Context, s *pullSweep, repos []gateway.Repository, author string) error {
	for _, r := range repos {
		counts, err := a.fetcher.CountPullRequests(ctx, r.Owner, r.Name, author)
		if err != nil {
			if err := a.absorb(ctx, &s.sweep, domain.StatPullRequest, r.FullName(), err); err != nil {
				return err
			}
			s.degraded = append(s.degraded, domain.Degradation{Stat: domain.StatMergedPullRequest, Scope: r.FullName(), Err: err})
			continue
		}
		s.created += counts.Created
		s.merged += counts.Merged
	}
	return nil
}

// ownedSources drops forks, whose history mostly belongs to upstream.
func ownedSources(repos []gateway.Repository) []gateway.Repository {
	out := make([]gateway.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			out = append(out, r)
		}
	}
	return out
}

// recentRepositories returns the n most recently updated repositories.
func recentRepositories(repos []gateway.Repository, n int) []domain.Repository {
	sorted := make([]gateway.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]domain.Repository, 0, len(sorted))
	for _, r := range sorted {
		desc := r.Description
		if desc == "" {
			desc = "No description"
		}
		lang := r.Language
		if lang == "" {
			lang = "Unknown"
		}
		out = append(out, domain.Repository{
			Name:        r.Name,
			Description: desc,
			Stars:       r.Stars,
			Language:    lang,
			URL:         r.URL,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out
}

// languages returns the distinct primary languages of non-fork repositories, lower-cased and sorted.
func languages(repos []gateway.Repository) []string {
	seen := make(map[string]bool)
	for _, r := range repos {
		if r.Fork || r.Language == "" {
			continue
		}
		seen[strings.ToLower(r.Language)] = true
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
