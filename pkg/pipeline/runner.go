package pipeline

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/insights"
	"github.com/matzehuels/devlens/pkg/observability"
	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

// Runner executes analyses with result caching and request coalescing.
//
// A Runner holds no per-run state. One instance serves every concurrent
// request in the process.
type Runner struct {
	Source  Source
	Results *cache.Coalescer[*portfolio.Analysis]
	Keyer   cache.Keyer
	Options Options
	Logger  *log.Logger

	// Anonymous, when set, is retried once in place of Source if a run fails
	// with UNAUTHORIZED.
	Anonymous Source

	// Now supplies the reference time for recency. Defaults to time.Now.
	Now func() time.Time
}

// NewRunner creates a runner. A nil results coalescer disables result
// caching but still coalesces concurrent runs.
func NewRunner(src Source, results *cache.Coalescer[*portfolio.Analysis], opts Options, logger *log.Logger) *Runner {
	if results == nil {
		results = cache.NewCoalescer[*portfolio.Analysis](nil, 0, "analysis")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Source:  src,
		Results: results,
		Keyer:   cache.NewDefaultKeyer(),
		Options: opts.WithDefaults(),
		Logger:  logger,
		Now:     time.Now,
	}
}

// Analyze returns the analysis for an already validated subject, from the
// result cache, from a run another caller started, or from a fresh run.
func (r *Runner) Analyze(ctx context.Context, subject string) (*portfolio.Analysis, cache.Outcome, error) {
	key := r.Keyer.AnalysisKey(subject, r.Options.KeyOpts())
	return r.Results.Do(ctx, key, func(ctx context.Context) (*portfolio.Analysis, error) {
		return r.runWithFallback(ctx, subject)
	})
}

func (r *Runner) runWithFallback(ctx context.Context, subject string) (*portfolio.Analysis, error) {
	a, err := r.Run(ctx, r.Source, subject)
	if err == nil || r.Anonymous == nil || !errors.Is(err, errors.ErrCodeUnauthorized) {
		return a, err
	}
	r.Logger.Warn("credential rejected, retrying anonymously", "subject", subject)
	return r.Run(ctx, r.Anonymous, subject)
}

// Run executes one uncached analysis against src. It returns either a
// complete analysis or an error; never both.
func (r *Runner) Run(ctx context.Context, src Source, subject string) (*portfolio.Analysis, error) {
	opts := r.Options.WithDefaults()
	now := r.now()
	start := time.Now()

	var profile portfolio.Profile
	err := stage(ctx, StageProfile, subject, func() (err error) {
		profile, err = src.Profile(ctx, subject)
		return err
	})
	if err != nil {
		return nil, err
	}

	var repos []portfolio.Repository
	err = stage(ctx, StageRepositories, subject, func() (err error) {
		repos, err = src.Repositories(ctx, subject, opts.MaxRepoPages)
		return err
	})
	if err != nil {
		return nil, err
	}
	listed := len(repos)
	repos = slices.DeleteFunc(repos, func(repo portfolio.Repository) bool { return repo.Fork })

	var (
		enrichment    portfolio.EnrichmentStats
		contributions portfolio.Contributions
		pins          []portfolio.PinnedRepo
	)
	candidates := Candidates(repos, opts.MaxDeepRepos, now)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stage(gctx, StageEnrichment, subject, func() (err error) {
			enrichment, err = Enrich(gctx, src, subject, repos, candidates, opts.Workers)
			return err
		})
	})
	g.Go(func() error {
		return stage(gctx, StageContributions, subject, func() (err error) {
			contributions, err = src.Contributions(gctx, subject)
			return err
		})
	})
	if src.HasToken() && !opts.SkipPinned {
		g.Go(func() error {
			return stage(gctx, StagePinned, subject, func() error {
				var err error
				pins, err = src.Pinned(gctx, subject)
				if err == nil {
					return nil
				}
				if ctx.Err() != nil {
					return errors.FromContext(ctx.Err())
				}
				if errors.IsCanceled(err) {
					// A sibling stage failed and cancelled the group.
					return err
				}
				r.Logger.Debug("pinned repositories unavailable", "subject", subject, "err", err)
				pins = nil
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}

	var analysis *portfolio.Analysis
	_ = stage(ctx, StageScoring, subject, func() error {
		res := scoring.Score(scoring.Input{
			Profile:       profile,
			Repos:         repos,
			Contributions: contributions,
			Enrichment:    enrichment,
		}, now)
		pinned := insights.SelectPinned(pins, res.Ranked)
		report := insights.Build(insights.FromScore(res, pinned, now))
		analysis = assemble(profile, res, pinned, report, now)
		return nil
	})

	r.Logger.Info("analysis complete",
		"subject", subject,
		"repos", listed,
		"scorable", len(repos),
		"candidates", len(candidates),
		"partial_failures", enrichment.PartialFailures(),
		"score", analysis.OverallScore,
		"duration", time.Since(start))
	return analysis, nil
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// stage runs fn between the pipeline start and complete hooks.
func stage(ctx context.Context, name, subject string, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name, subject)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, subject, time.Since(start), err)
	return err
}

func assemble(profile portfolio.Profile, res scoring.Result, pinned portfolio.PinnedRepos, rep insights.Report, now time.Time) *portfolio.Analysis {
	return &portfolio.Analysis{
		Profile:             portfolio.Summarize(profile),
		GeneratedAt:         now.UTC(),
		Weights:             scoring.Weights,
		Subscores:           res.Subscores,
		OverallScore:        res.Overall,
		HireabilityScore:    rep.Hireability,
		Readiness:           rep.Readiness,
		ReadinessLevel:      rep.Readiness.Label,
		Metrics:             res.Metrics,
		Strengths:           rep.Strengths,
		RedFlags:            rep.RedFlags,
		Suggestions:         rep.Suggestions,
		HiddenRisks:         rep.HiddenRisks,
		RecruiterSimulation: rep.Recruiter,
		CareerPath:          rep.CareerPath,
		ImprovementRoadmap:  rep.Roadmap,
		PinnedRepos:         pinned,
		RankedRepos:         res.Ranked,
		LanguageTotals:      res.LanguageTotals,
		Grade:               res.Grade,
		ScoreSummary:        rep.ScoreSummary,
	}
}
