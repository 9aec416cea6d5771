package github

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/observability"
	"github.com/matzehuels/devlens/pkg/portfolio"
)

// maxPinned matches the number of pins GitHub allows on a profile.
const maxPinned = 6

type pinnedQuery struct {
	User struct {
		PinnedItems struct {
			Nodes []struct {
				Repository struct {
					Name           githubv4.String
					URL            githubv4.String `graphql:"url"`
					StargazerCount githubv4.Int
				} `graphql:"... on Repository"`
			}
		} `graphql:"pinnedItems(first: 6, types: REPOSITORY)"`
	} `graphql:"user(login: $login)"`
}

// Pinned returns the repositories login has pinned. It requires a token and
// fails with UNAUTHORIZED without one. Nodes missing a name or URL are
// skipped.
func (c *Client) Pinned(ctx context.Context, login string) ([]portfolio.PinnedRepo, error) {
	if c.graphql == nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "GitHub token is required for GraphQL requests.")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	host, path := "", c.cfg.GraphQLURL
	if u, err := url.Parse(c.cfg.GraphQLURL); err == nil {
		host, path = u.Host, u.Path
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	var q pinnedQuery
	variables := map[string]interface{}{
		"login": githubv4.String(login),
	}
	if err := c.graphql.Query(callCtx, &q, variables); err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		if perr := ctx.Err(); perr != nil {
			return nil, errors.FromContext(perr)
		}
		if stderrors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "GitHub GraphQL request timed out.")
		}
		return nil, errors.Wrap(errors.ErrCodeAPI, err, "GraphQL query failed.")
	}
	hooks.OnResponse(ctx, http.MethodPost, host, path, http.StatusOK, time.Since(start))

	pins := make([]portfolio.PinnedRepo, 0, maxPinned)
	for _, n := range q.User.PinnedItems.Nodes {
		r := n.Repository
		name, link := strings.TrimSpace(string(r.Name)), strings.TrimSpace(string(r.URL))
		if name == "" || link == "" {
			continue
		}
		pins = append(pins, portfolio.PinnedRepo{Name: name, URL: link, Stars: int(r.StargazerCount)})
	}
	return pins, nil
}
