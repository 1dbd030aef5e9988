package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

// userSummaryQuery fetches user-level totals and one page of owned repositories.
type userSummaryQuery struct {
	User struct {
		Login     string
		Name      string
		Followers struct {
			TotalCount int
		}
		Gists struct {
			TotalCount int
		}
		StarredRepositories struct {
			TotalCount int
		}
		PullRequests struct {
			TotalCount int
		}
		MergedPullRequests struct {
			TotalCount int
		} `graphql:"mergedPullRequests: pullRequests(states: MERGED)"`
		Issues struct {
			TotalCount int
		}
		ContributionsCollection struct {
			TotalCommitContributions int
		}
		Repositories struct {
			TotalCount int
			PageInfo   struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name        string
				Description string
				Url         string
				IsFork      bool
				UpdatedAt   githubv4.DateTime
				Owner       struct {
					Login string
				}
				StargazerCount  int
				PrimaryLanguage *struct {
					Name string
				}
				Releases struct {
					TotalCount int
				}
			}
		} `graphql:"repositories(first: 100, after: $cursor, ownerAffiliations: OWNER, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"user(login: $login)"`
}

// contributionCalendarQuery fetches the last year of daily contribution counts.
type contributionCalendarQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// FetchSummary walks the user's repositories with cursor pagination and returns the totals
// GraphQL can report in aggregate. ReviewComments is always 0.
// A failure after the first page is reported through Summary.Incomplete, not as an error.
func (g *GitHubGateway) FetchSummary(ctx context.Context, login string) (*Summary, error) {
	g.logger.Debug("Fetching user summary using GraphQL API", zap.String("login", login))
	variables := map[string]interface{}{
		"login":  githubv4.String(login),
		"cursor": (*githubv4.String)(nil),
	}

	summary := &Summary{}
	first := true
	for {
		var q userSummaryQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			err = classifyGraphQL(err, "summary of "+login)
			if first || errors.Is(err, domain.ErrAuthentication) {
				return nil, err
			}
			// The user totals came with the first page; only the per-repository sums are short.
			g.logger.Warn("Repository page failed, keeping the partial summary",
				zap.String("login", login), zap.Int("repositories", len(summary.Repositories)), zap.Error(err))
			summary.Incomplete = err
			break
		}
		if q.User.Login == "" {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, login)
		}

		if first {
			u := q.User
			summary.User = User{
				Login:       u.Login,
				Name:        u.Name,
				Followers:   u.Followers.TotalCount,
				PublicRepos: u.Repositories.TotalCount,
				PublicGists: u.Gists.TotalCount,
			}
			summary.Stats = domain.ContributionStats{
				Commits:            u.ContributionsCollection.TotalCommitContributions,
				PullRequests:       u.PullRequests.TotalCount,
				MergedPullRequests: u.MergedPullRequests.TotalCount,
				Issues:             u.Issues.TotalCount,
				StarsGiven:         u.StarredRepositories.TotalCount,
				Followers:          u.Followers.TotalCount,
				Gists:              u.Gists.TotalCount,
				Repositories:       u.Repositories.TotalCount,
			}
			first = false
		}

		for _, n := range q.User.Repositories.Nodes {
			language := ""
			if n.PrimaryLanguage != nil {
				language = n.PrimaryLanguage.Name
			}
			summary.Stats.Stars += n.StargazerCount
			summary.Stats.Releases += n.Releases.TotalCount
			if n.IsFork {
				summary.Stats.Forks++
			}
			summary.Repositories = append(summary.Repositories, Repository{
				Owner:       n.Owner.Login,
				Name:        n.Name,
				Description: n.Description,
				URL:         n.Url,
				Language:    language,
				Stars:       n.StargazerCount,
				Fork:        n.IsFork,
				UpdatedAt:   n.UpdatedAt.Time,
			})
		}

		if !q.User.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.User.Repositories.PageInfo.EndCursor)
		g.logger.Debug("Fetching next page of repositories for summary...")
	}
	g.logger.Debug("Completed fetching user summary", zap.Int("repositories", len(summary.Repositories)))
	return summary, nil
}

// FetchContributionCalendar returns one entry per calendar day, oldest first.
func (g *GitHubGateway) FetchContributionCalendar(ctx context.Context, login string) ([]domain.ContributionDay, error) {
	g.logger.Debug("Fetching contribution calendar", zap.String("login", login))
	var q contributionCalendarQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, classifyGraphQL(err, "contribution calendar of "+login)
	}

	var days []domain.ContributionDay
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, d := range week.ContributionDays {
			date, err := time.Parse("2006-01-02", d.Date)
			if err != nil {
				return nil, fmt.Errorf("unexpected contribution date %q: %w", d.Date, err)
			}
			days = append(days, domain.ContributionDay{Date: date, Count: d.ContributionCount})
		}
	}
	return days, nil
}
