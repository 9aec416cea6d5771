package scoring

import (
	"time"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// Weights are the fixed contribution of each dimension to the overall score.
// They sum to 100.
var Weights = portfolio.Subscores{
	DocumentationQuality:    18,
	CodeActivityConsistency: 17,
	ProjectPopularity:       15,
	RepositoryCompleteness:  14,
	LanguageDiversity:       10,
	RecentActivity:          14,
	ImpactSignals:           12,
}

// Result is the scored portfolio.
type Result struct {
	Metrics        portfolio.Metrics
	Subscores      portfolio.Subscores
	Overall        int
	Grade          string
	Ranked         []portfolio.RankedRepo
	LanguageTotals map[string]int64
}

// Score runs the full scoring stage.
func Score(in Input, now time.Time) Result {
	m, langs := ComputeMetrics(in, now)
	sub := ComputeSubscores(m, in.Profile.Followers)
	overall := Overall(sub)
	return Result{
		Metrics:        m,
		Subscores:      sub,
		Overall:        overall,
		Grade:          Grade(overall),
		Ranked:         Rank(in.Repos, now),
		LanguageTotals: TotalsMap(langs),
	}
}

// ComputeSubscores derives the seven dimension scores. followers comes from
// the profile; everything else is in m.
func ComputeSubscores(m portfolio.Metrics, followers int) portfolio.Subscores {
	return portfolio.Subscores{
		DocumentationQuality:    FromRatio(0.75*m.ReadmeCoverage + 0.25*m.DescriptionCoverage),
		CodeActivityConsistency: FromRatio(0.6*m.ActiveMonthsLast6Ratio + 0.4*m.ReposUpdated90dRatio),
		ProjectPopularity: FromRatio(
			0.6*Cap01(m.StarsPerRepo/50) +
				0.25*Cap01(m.ForksPerRepo/20) +
				0.15*Cap01(m.WatchersPerRepo/20),
		),
		RepositoryCompleteness: FromRatio(
			0.5*m.NonEmptyRepoRatio +
				0.3*m.HomepageRatio +
				0.2*m.TopicsRatio,
		),
		LanguageDiversity: FromRatio(
			0.7*Cap01(float64(m.UniqueLanguages)/8) +
				0.3*m.NormalizedEntropy,
		),
		RecentActivity: FromRatio(0.7*m.RecencyBucket + 0.3*m.ReposUpdated30dRatio),
		ImpactSignals: FromRatio(
			0.35*Cap01(float64(m.TopRepoStars)/300) +
				0.25*Cap01(float64(followers)/500) +
				0.25*Cap01(float64(m.AuthoredPRCount)/200) +
				0.15*Cap01(float64(m.AuthoredIssueCount)/100),
		),
	}
}

// Overall is the weighted mean of sub, rounded and clamped to [0,100].
func Overall(sub portfolio.Subscores) int {
	sum := 0
	for _, d := range portfolio.Dimensions {
		sum += sub.Get(d) * Weights.Get(d)
	}
	return Clamp(Round(float64(sum)/100), 0, 100)
}

// Grade maps an overall score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "E"
	}
}
