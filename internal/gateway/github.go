// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// DefaultPageSize is the largest page GitHub's listing endpoints return.
const DefaultPageSize = 100

// User is the primary subject of an aggregation.
type User struct {
	Login       string
	Name        string
	Followers   int
	PublicRepos int
	PublicGists int
}

// Repository is a repository as seen by the aggregator.
type Repository struct {
	Owner       string
	Name        string
	Description string
	URL         string
	Language    string
	Stars       int
	Fork        bool
	UpdatedAt   time.Time
}

// FullName returns "owner/name".
func (r Repository) FullName() string { return r.Owner + "/" + r.Name }

// PullRequestCounts holds the PRs a user opened in one repository and how many of them were merged.
type PullRequestCounts struct {
	Created int
	Merged  int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub over REST.
// Every listing method pages through all results.
type Fetcher interface {
	FetchUser(ctx context.Context, login string) (*User, error)
	FetchRepository(ctx context.Context, owner, repo string) (*Repository, error)
	ListRepositories(ctx context.Context, login string) ([]Repository, error)
	CountCommits(ctx context.Context, owner, repo, author string) (int, error)
	CountPullRequests(ctx context.Context, owner, repo, author string) (PullRequestCounts, error)
	CountIssues(ctx context.Context, owner, repo, author string) (int, error)
	CountReleases(ctx context.Context, owner, repo string) (int, error)
	CountReviewComments(ctx context.Context, owner, repo, author string) (int, error)
	CountStarred(ctx context.Context, login string) (int, error)
	CountGists(ctx context.Context, login string) (int, error)
}

// Summary is what a single cursor-paginated GraphQL query can tell about a user.
// Review comments are not part of it.
type Summary struct {
	User         User
	Stats        domain.ContributionStats
	Repositories []Repository
	// Incomplete is set when a later repository page failed. Stars, releases and forks
	// then only cover the repositories in Repositories.
	Incomplete error
}

// SummaryFetcher fetches aggregate counts through the GraphQL API.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, login string) (*Summary, error)
	FetchContributionCalendar(ctx context.Context, login string) ([]domain.ContributionDay, error)
}

// GitHubGateway is the concrete implementation of Fetcher and SummaryFetcher.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
	pageSize      int
}

var (
	_ Fetcher        = (*GitHubGateway)(nil)
	_ SummaryFetcher = (*GitHubGateway)(nil)
)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// It fails with domain.ErrAuthentication when no token is supplied.
func NewGitHubGateway(token string, logger *zap.Logger) (*GitHubGateway, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no GitHub token supplied", domain.ErrAuthentication)
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		pageSize:      DefaultPageSize,
	}, nil
}
