package github

import (
	"context"
	"net/url"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// SearchCount returns total_count for an issue search query.
func (c *Client) SearchCount(ctx context.Context, query string) (int, error) {
	var res gh.IssuesSearchResult
	path := "/search/issues?q=" + url.QueryEscape(query) + "&per_page=1"
	if _, err := c.Get(ctx, path, &res); err != nil {
		return 0, err
	}
	return res.GetTotal(), nil
}

// Contributions counts pull requests and issues authored by login. Both
// searches run concurrently; either failing fails the whole call.
func (c *Client) Contributions(ctx context.Context, login string) (portfolio.Contributions, error) {
	var out portfolio.Contributions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.SearchCount(gctx, "author:"+login+" type:pr")
		out.PRCount = n
		return err
	})
	g.Go(func() error {
		n, err := c.SearchCount(gctx, "author:"+login+" type:issue")
		out.IssueCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return portfolio.Contributions{}, err
	}
	return out, nil
}
