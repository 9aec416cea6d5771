// Package pipeline runs one portfolio analysis end to end.
//
// A run collects the subject's profile and repositories, enriches the
// strongest candidates, gathers contribution counts and pinned repositories,
// then scores the result and derives insights. [Runner] is shared by the CLI
// and the HTTP front door so both behave identically.
//
// # Stages
//
//  1. profile: /users/{subject}; NOT_FOUND here means the subject is absent
//  2. repositories: up to MaxRepoPages pages; forks are dropped immediately
//  3. enrichment, contributions and pinned, concurrently:
//     enrichment never fails the run except on cancellation, pinned data is
//     best-effort, contribution failures propagate
//  4. scoring: metrics, subscores, ranking and insights (pure)
//
// # Usage
//
//	runner := pipeline.NewRunner(client, results, pipeline.Options{}, logger)
//	analysis, outcome, err := runner.Analyze(ctx, "octocat")
//
// Concurrent Analyze calls for the same subject share one run, and
// successful results are cached for the result store's TTL.
package pipeline

import (
	"context"

	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/portfolio"
)

const (
	// DefaultMaxRepoPages bounds the repository listing.
	DefaultMaxRepoPages = 3

	// DefaultMaxDeepRepos is the number of repositories that get per-repository
	// language and README calls.
	DefaultMaxDeepRepos = 30

	// DefaultWorkers is the enrichment worker pool size.
	DefaultWorkers = 5
)

// Stage names reported to observability hooks.
const (
	StageProfile       = "profile"
	StageRepositories  = "repositories"
	StageEnrichment    = "enrichment"
	StageContributions = "contributions"
	StagePinned        = "pinned"
	StageScoring       = "scoring"
)

// Source is the upstream the pipeline collects from. *github.Client
// satisfies it.
type Source interface {
	Profile(ctx context.Context, login string) (portfolio.Profile, error)
	Repositories(ctx context.Context, login string, maxPages int) ([]portfolio.Repository, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int64, error)
	HasReadme(ctx context.Context, owner, repo string) (bool, error)
	Contributions(ctx context.Context, login string) (portfolio.Contributions, error)
	Pinned(ctx context.Context, login string) ([]portfolio.PinnedRepo, error)

	// HasToken reports whether authenticated-only queries are possible.
	HasToken() bool
}

// Options tunes a run. Zero fields select the package defaults.
type Options struct {
	MaxRepoPages int
	MaxDeepRepos int
	Workers      int

	// SkipPinned disables the pinned repository query even with a token.
	SkipPinned bool
}

// WithDefaults returns o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.MaxRepoPages <= 0 {
		o.MaxRepoPages = DefaultMaxRepoPages
	}
	if o.MaxDeepRepos <= 0 {
		o.MaxDeepRepos = DefaultMaxDeepRepos
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

// KeyOpts returns the options that distinguish cached analyses.
func (o Options) KeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		MaxRepoPages: o.MaxRepoPages,
		MaxDeepRepos: o.MaxDeepRepos,
		Pinned:       !o.SkipPinned,
	}
}
