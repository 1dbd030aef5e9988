package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
)

func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*User, error) {
	g.logger.Debug("Fetching user", zap.String("login", login))
	u, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, classifyPrimaryREST(err, "user "+login)
	}
	return &User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Followers:   u.GetFollowers(),
		PublicRepos: u.GetPublicRepos(),
		PublicGists: u.GetPublicGists(),
	}, nil
}

func (g *GitHubGateway) FetchRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	g.logger.Debug("Fetching repository", zap.String("owner", owner), zap.String("repo", repo))
	r, _, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, classifyPrimaryREST(err, fmt.Sprintf("repository %s/%s", owner, repo))
	}
	converted := toRepository(r)
	return &converted, nil
}

// ListRepositories returns the repositories owned by login, most recently updated first.
func (g *GitHubGateway) ListRepositories(ctx context.Context, login string) ([]Repository, error) {
	g.logger.Debug("Listing repositories", zap.String("login", login))
	repos, err := listAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.Repository, *github.Response, error) {
		return g.restClient.Repositories.ListByUser(ctx, login, &github.RepositoryListByUserOptions{
			Type:        "owner",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: lo,
		})
	})
	if err != nil {
		return nil, classifyREST(err, "repositories of "+login)
	}
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepository(r))
	}
	g.logger.Debug("Completed listing repositories", zap.Int("count", len(out)))
	return out, nil
}

// CountCommits counts the commits authored by author on the default branch of owner/repo.
// An empty repository has no commits rather than an error.
func (g *GitHubGateway) CountCommits(ctx context.Context, owner, repo, author string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
		return g.restClient.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{Author: author, ListOptions: lo})
	}, nil)
	if err != nil {
		if isEmptyRepository(err) {
			return 0, nil
		}
		return 0, classifyREST(err, fmt.Sprintf("commits of %s/%s", owner, repo))
	}
	return n, nil
}

func (g *GitHubGateway) CountPullRequests(ctx context.Context, owner, repo, author string) (PullRequestCounts, error) {
	prs, err := listAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return g.restClient.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{State: "all", ListOptions: lo})
	})
	if err != nil {
		return PullRequestCounts{}, classifyREST(err, fmt.Sprintf("pull requests of %s/%s", owner, repo))
	}
	var counts PullRequestCounts
	for _, pr := range prs {
		if !strings.EqualFold(pr.GetUser().GetLogin(), author) {
			continue
		}
		counts.Created++
		if pr.MergedAt != nil {
			counts.Merged++
		}
	}
	return counts, nil
}

// CountIssues counts issues opened by author, excluding pull requests.
func (g *GitHubGateway) CountIssues(ctx context.Context, owner, repo, author string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.Issue, *github.Response, error) {
		return g.restClient.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{State: "all", Creator: author, ListOptions: lo})
	}, func(i *github.Issue) bool {
		return !i.IsPullRequest() && strings.EqualFold(i.GetUser().GetLogin(), author)
	})
	if err != nil {
		return 0, classifyREST(err, fmt.Sprintf("issues of %s/%s", owner, repo))
	}
	return n, nil
}

func (g *GitHubGateway) CountReleases(ctx context.Context, owner, repo string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
		return g.restClient.Repositories.ListReleases(ctx, owner, repo, &lo)
	}, nil)
	if err != nil {
		return 0, classifyREST(err, fmt.Sprintf("releases of %s/%s", owner, repo))
	}
	return n, nil
}

// CountReviewComments counts pull request review comments left by author anywhere in owner/repo.
func (g *GitHubGateway) CountReviewComments(ctx context.Context, owner, repo, author string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.PullRequestComment, *github.Response, error) {
		// Number 0 lists the comments of every pull request in the repository.
		return g.restClient.PullRequests.ListComments(ctx, owner, repo, 0, &github.PullRequestListCommentsOptions{ListOptions: lo})
	}, func(c *github.PullRequestComment) bool {
		return strings.EqualFold(c.GetUser().GetLogin(), author)
	})
	if err != nil {
		return 0, classifyREST(err, fmt.Sprintf("review comments of %s/%s", owner, repo))
	}
	return n, nil
}

// CountStarred counts the repositories login has starred.
func (g *GitHubGateway) CountStarred(ctx context.Context, login string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.StarredRepository, *github.Response, error) {
		return g.restClient.Activity.ListStarred(ctx, login, &github.ActivityListStarredOptions{ListOptions: lo})
	}, nil)
	if err != nil {
		return 0, classifyREST(err, "starred repositories of "+login)
	}
	return n, nil
}

func (g *GitHubGateway) CountGists(ctx context.Context, login string) (int, error) {
	n, err := countAll(ctx, g.pageSize, func(ctx context.Context, lo github.ListOptions) ([]*github.Gist, *github.Response, error) {
		return g.restClient.Gists.List(ctx, login, &github.GistListOptions{ListOptions: lo})
	}, nil)
	if err != nil {
		return 0, classifyREST(err, "gists of "+login)
	}
	return n, nil
}

func toRepository(r *github.Repository) Repository {
	return Repository{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Fork:        r.GetFork(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}
