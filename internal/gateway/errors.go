package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-xp/internal/domain"
)

// statusCode extracts the HTTP status of a go-github error, or 0.
func statusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

// classifyREST maps REST failures onto the domain error classes.
func classifyREST(err error, subject string) error {
	switch statusCode(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: GitHub rejected the token while fetching %s: %v", domain.ErrAuthentication, subject, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %v", domain.ErrNotFound, subject, err)
	}
	return fmt.Errorf("failed to fetch %s with REST API: %w", subject, err)
}

// classifyPrimaryREST is classifyREST for the user and repository lookups,
// where a 403 also means the credential cannot reach the subject.
func classifyPrimaryREST(err error, subject string) error {
	if statusCode(err) == http.StatusForbidden {
		return fmt.Errorf("%w: access to %s is forbidden: %v", domain.ErrAuthentication, subject, err)
	}
	return classifyREST(err, subject)
}

// classifyGraphQL does the same for githubv4, which only reports failures as text.
func classifyGraphQL(err error, subject string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "401 Unauthorized"), strings.Contains(msg, "Bad credentials"):
		return fmt.Errorf("%w: GitHub rejected the token while fetching %s: %v", domain.ErrAuthentication, subject, err)
	case strings.Contains(msg, "Could not resolve to a"):
		return fmt.Errorf("%w: %s: %v", domain.ErrNotFound, subject, err)
	}
	return fmt.Errorf("failed to execute GraphQL query for %s: %w", subject, err)
}

// isEmptyRepository reports the 409 GitHub returns when listing commits of an empty repository.
func isEmptyRepository(err error) bool {
	return statusCode(err) == http.StatusConflict
}
