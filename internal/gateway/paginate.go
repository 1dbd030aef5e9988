package gateway

import (
	"context"

	"github.com/google/go-github/v62/github"
)

// pageFunc fetches one page of a REST listing.
type pageFunc[T any] func(ctx context.Context, opts github.ListOptions) ([]T, *github.Response, error)

// listAll requests pages 1, 2, ... until a page comes back shorter than pageSize.
func listAll[T any](ctx context.Context, pageSize int, fetch pageFunc[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, _, err := fetch(ctx, github.ListOptions{Page: page, PerPage: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// countAll pages through a listing and counts the items accepted by keep.
// A nil keep counts every item.
func countAll[T any](ctx context.Context, pageSize int, fetch pageFunc[T], keep func(T) bool) (int, error) {
	items, err := listAll(ctx, pageSize, fetch)
	if err != nil {
		return 0, err
	}
	if keep == nil {
		return len(items), nil
	}
	n := 0
	for _, item := range items {
		if keep(item) {
			n++
		}
	}
	return n, nil
}
