package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/matzehuels/devlens/pkg/errors"
)

// Languages returns the language byte breakdown of owner/repo.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	langs := map[string]int64{}
	path := fmt.Sprintf("/repos/%s/%s/languages", url.PathEscape(owner), url.PathEscape(repo))
	if _, err := c.Get(ctx, path, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// HasReadme probes for a README. A 404 is a definite "no"; any other
// failure is returned so the caller can count it as unknown.
func (c *Client) HasReadme(ctx context.Context, owner, repo string) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/readme", url.PathEscape(owner), url.PathEscape(repo))
	if _, err := c.Do(ctx, path); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
