package pipeline

import (
	"cmp"
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/observability"
	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

// Candidates returns the indices of the limit repositories with the highest
// [scoring.PreRank], best first. Ties keep listing order.
func Candidates(repos []portfolio.Repository, limit int, now time.Time) []int {
	idx := make([]int, len(repos))
	rank := make([]int, len(repos))
	for i := range repos {
		idx[i] = i
		rank[i] = scoring.PreRank(&repos[i], now)
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(rank[b], rank[a]) })
	return idx[:min(limit, len(idx))]
}

type deepResult struct {
	meta         portfolio.DeepMetadata
	langFailed   bool
	readmeFailed bool
}

// Enrich attaches [portfolio.DeepMetadata] to the candidate repositories in
// place, using a pool of workers pulling from a shared queue. Each candidate
// gets a language breakdown and a README probe.
//
// A README 404 is a checked absence. Any other sub-call failure, including a
// per-call TIMEOUT, is counted and leaves that field unchecked. Only the end
// of ctx aborts enrichment; the returned error is then CANCELED or TIMEOUT.
func Enrich(ctx context.Context, src Source, owner string, repos []portfolio.Repository, candidates []int, workers int) (portfolio.EnrichmentStats, error) {
	stats := portfolio.EnrichmentStats{DeepRepoCount: len(candidates)}
	if len(candidates) == 0 {
		return stats, nil
	}
	workers = max(1, min(workers, len(candidates)))

	jobs := make(chan int)
	results := make([]deepResult, len(candidates))

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for slot := range jobs {
				res, err := enrichOne(ctx, src, owner, &repos[candidates[slot]])
				if err != nil {
					return err
				}
				results[slot] = res
			}
			return nil
		})
	}

feed:
	for slot := range candidates {
		select {
		case jobs <- slot:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)

	if err := g.Wait(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, errors.FromContext(err)
	}

	for slot, res := range results {
		repos[candidates[slot]].Deep = &res.meta
		if res.meta.LanguageChecked {
			stats.LanguageChecked++
		}
		if res.meta.ReadmeChecked {
			stats.ReadmeChecked++
		}
		if res.langFailed {
			stats.LanguageFailures++
		}
		if res.readmeFailed {
			stats.ReadmeFailures++
		}
	}
	return stats, nil
}

// enrichOne runs both sub-calls for one repository concurrently.
func enrichOne(ctx context.Context, src Source, owner string, repo *portfolio.Repository) (deepResult, error) {
	var (
		res                deepResult
		langErr, readmeErr error
		languages          map[string]int64
		hasReadme          bool
	)

	var g errgroup.Group
	g.Go(func() error {
		languages, langErr = src.Languages(ctx, owner, repo.Name)
		return nil
	})
	g.Go(func() error {
		hasReadme, readmeErr = src.HasReadme(ctx, owner, repo.Name)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, errors.FromContext(err)
	}

	hooks := observability.Pipeline()
	if langErr != nil {
		res.langFailed = true
		hooks.OnPartialFailure(ctx, owner, repo.Name, "languages", langErr)
	} else {
		res.meta.Languages = languages
		res.meta.LanguageChecked = true
	}
	if readmeErr != nil {
		res.readmeFailed = true
		hooks.OnPartialFailure(ctx, owner, repo.Name, "readme", readmeErr)
	} else {
		res.meta.HasReadme = hasReadme
		res.meta.ReadmeChecked = true
	}
	return res, nil
}
