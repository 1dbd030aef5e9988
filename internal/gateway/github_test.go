package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) *GitHubGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        zap.NewNop(),
		pageSize:      DefaultPageSize,
	}
}

// jsonArray renders n copies of item as a JSON array.
func jsonArray(n int, item string) string {
	items := make([]string, n)
	for i := range items {
		items[i] = item
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestNewGitHubGateway_RequiresToken(t *testing.T) {
	gw, err := NewGitHubGateway("", zap.NewNop())
	assert.Nil(t, gw)
	assert.True(t, errors.Is(err, domain.ErrAuthentication))

	gw, err = NewGitHubGateway("token", zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestGitHubGateway_FetchUser(t *testing.T) {
	testCases := []struct {
		name        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		expected    *User
		expectedErr error
	}{
		{
			name: "happy path - returns the user profile",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/octocat", r.URL.Path)
				fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","followers":42,"public_repos":8,"public_gists":3}`)
			},
			expected: &User{Login: "octocat", Name: "The Octocat", Followers: 42, PublicRepos: 8, PublicGists: 3},
		},
		{
			name: "error case - unknown user",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			},
			expectedErr: domain.ErrNotFound,
		},
		{
			name: "error case - bad credentials",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"Bad credentials"}`)
			},
			expectedErr: domain.ErrAuthentication,
		},
		{
			name: "error case - forbidden",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"Resource not accessible by personal access token"}`)
			},
			expectedErr: domain.ErrAuthentication,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			user, err := gateway.FetchUser(context.Background(), "octocat")
			if tc.expectedErr != nil {
				assert.Nil(t, user)
				assert.True(t, errors.Is(err, tc.expectedErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, user)
		})
	}
}

func TestGitHubGateway_CountCommits_PagesUntilShortPage(t *testing.T) {
	var requests atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/repos/me/repo/commits", r.URL.Path)
		assert.Equal(t, "me", r.URL.Query().Get("author"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		// 250 commits in total: 100, 100, 50.
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		n := 100
		if page == 3 {
			n = 50
		}
		fmt.Fprint(w, jsonArray(n, `{"sha":"abc"}`))
	}
	gateway := setupTestGateway(t, http.HandlerFunc(handler))

	count, err := gateway.CountCommits(context.Background(), "me", "repo", "me")
	require.NoError(t, err)
	assert.Equal(t, 250, count)
	assert.Equal(t, int32(3), requests.Load())
}

func TestGitHubGateway_CountCommits_EmptyRepository(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	}))

	count, err := gateway.CountCommits(context.Background(), "me", "empty", "me")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGitHubGateway_CountPullRequests(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/repo/pulls", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[
			{"number":1,"user":{"login":"Me"},"merged_at":"2024-03-01T10:00:00Z"},
			{"number":2,"user":{"login":"me"}},
			{"number":3,"user":{"login":"someone-else"},"merged_at":"2024-03-02T10:00:00Z"}
		]`)
	}))

	counts, err := gateway.CountPullRequests(context.Background(), "me", "repo", "me")
	require.NoError(t, err)
	assert.Equal(t, PullRequestCounts{Created: 2, Merged: 1}, counts)
}

func TestGitHubGateway_CountIssues_ExcludesPullRequests(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "me", r.URL.Query().Get("creator"))
		fmt.Fprint(w, `[
			{"number":1,"user":{"login":"me"}},
			{"number":2,"user":{"login":"me"},"pull_request":{"url":"https://api.github.com/repos/me/repo/pulls/2"}},
			{"number":3,"user":{"login":"me"}}
		]`)
	}))

	count, err := gateway.CountIssues(context.Background(), "me", "repo", "me")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGitHubGateway_CountReviewComments(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/repo/pulls/comments", r.URL.Path)
		fmt.Fprint(w, `[{"id":1,"user":{"login":"me"}},{"id":2,"user":{"login":"bot"}},{"id":3,"user":{"login":"me"}}]`)
	}))

	count, err := gateway.CountReviewComments(context.Background(), "me", "repo", "me")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGitHubGateway_ListRepositories(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/repos", r.URL.Path)
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		fmt.Fprint(w, `[
			{"name":"tool","owner":{"login":"me"},"stargazers_count":7,"language":"Go","html_url":"https://github.com/me/tool","updated_at":"2024-05-01T00:00:00Z"},
			{"name":"fork","owner":{"login":"me"},"fork":true}
		]`)
	}))

	repos, err := gateway.ListRepositories(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "me/tool", repos[0].FullName())
	assert.Equal(t, 7, repos[0].Stars)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, 2024, repos[0].UpdatedAt.Year())
	assert.True(t, repos[1].Fork)
}

func TestGitHubGateway_SecondaryErrorsAreWrapped(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"Internal Server Error"}`)
	}))

	_, err := gateway.CountReleases(context.Background(), "me", "repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch releases of me/repo with REST API")
	assert.False(t, errors.Is(err, domain.ErrAuthentication))
}

func TestGitHubGateway_SecondaryForbiddenIsSoft(t *testing.T) {
	gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Repository access blocked"}`)
	}))

	_, err := gateway.CountIssues(context.Background(), "me", "repo", "me")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAuthentication))
}
