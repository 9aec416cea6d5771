package github

import (
	"context"
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v62/github"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// Profile fetches /users/{login}. A missing account surfaces as NOT_FOUND.
func (c *Client) Profile(ctx context.Context, login string) (portfolio.Profile, error) {
	var u gh.User
	if _, err := c.Get(ctx, "/users/"+url.PathEscape(login), &u); err != nil {
		return portfolio.Profile{}, err
	}
	p := toProfile(&u)
	if p.Login == "" {
		p.Login = login
	}
	return p, nil
}

// Repositories lists repositories owned by login, most recently updated
// first, reading at most maxPages pages of 100. Forks are included; callers
// decide what is scorable. maxPages <= 0 selects [MaxRepoPages].
func (c *Client) Repositories(ctx context.Context, login string, maxPages int) ([]portfolio.Repository, error) {
	if maxPages <= 0 {
		maxPages = MaxRepoPages
	}

	var repos []portfolio.Repository
	for page := 1; page <= maxPages; page++ {
		path := fmt.Sprintf("/users/%s/repos?type=owner&sort=updated&per_page=%d&page=%d",
			url.PathEscape(login), perPage, page)

		var batch []*gh.Repository
		if _, err := c.Get(ctx, path, &batch); err != nil {
			return nil, err
		}
		for _, r := range batch {
			if r != nil {
				repos = append(repos, toRepository(r))
			}
		}
		if len(batch) < perPage {
			break
		}
	}
	return repos, nil
}
