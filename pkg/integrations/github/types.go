package github

import (
	"time"

	gh "github.com/google/go-github/v62/github"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// REST payloads are decoded into go-github's types and then flattened into
// the portfolio records the pipeline works with.

func toProfile(u *gh.User) portfolio.Profile {
	return portfolio.Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		HTMLURL:     u.GetHTMLURL(),
		AvatarURL:   u.GetAvatarURL(),
		Bio:         u.GetBio(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		CreatedAt:   timePtr(u.CreatedAt),
		UpdatedAt:   timePtr(u.UpdatedAt),
	}
}

func toRepository(r *gh.Repository) portfolio.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return portfolio.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		URL:         r.GetHTMLURL(),
		Description: r.GetDescription(),
		Homepage:    r.GetHomepage(),
		Topics:      topics,
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		Size:        r.GetSize(),
		Fork:        r.GetFork(),
		PushedAt:    timePtr(r.PushedAt),
	}
}

func timePtr(ts *gh.Timestamp) *time.Time {
	if ts == nil || ts.Time.IsZero() {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
