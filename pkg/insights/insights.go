package insights

import (
	"time"

	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

const (
	maxFindings    = 6
	maxSuggestions = 7
	minSuggestions = 5
	maxRoadmap     = 7
	minRoadmap     = 5
)

// Input is the scored portfolio the rules read.
type Input struct {
	Subscores portfolio.Subscores
	Overall   int
	Grade     string
	Metrics   portfolio.Metrics
	Ranked    []portfolio.RankedRepo
	Pinned    portfolio.PinnedRepos
	Now       time.Time
}

// FromScore builds an Input from a scoring result.
func FromScore(res scoring.Result, pinned portfolio.PinnedRepos, now time.Time) Input {
	return Input{
		Subscores: res.Subscores,
		Overall:   res.Overall,
		Grade:     res.Grade,
		Metrics:   res.Metrics,
		Ranked:    res.Ranked,
		Pinned:    pinned,
		Now:       now,
	}
}

// Report holds every derived insight.
type Report struct {
	Strengths    []string
	RedFlags     []string
	Suggestions  []string
	HiddenRisks  []string
	Hireability  int
	Readiness    portfolio.Readiness
	Recruiter    portfolio.RecruiterSimulation
	CareerPath   portfolio.CareerPath
	Roadmap      []string
	ScoreSummary string
}

// Build runs every rule in dependency order: hireability needs the hidden
// risks, readiness needs hireability, and the roadmap needs the career path.
func Build(in Input) Report {
	var r Report
	r.Strengths = Strengths(in)
	r.RedFlags = RedFlags(in)
	r.Suggestions = Suggestions(in)
	r.HiddenRisks = HiddenRisks(in)
	r.Hireability = Hireability(in, r.HiddenRisks)
	r.Readiness = ClassifyReadiness(r.Hireability, in.Overall)
	r.CareerPath = RecommendCareer(in)
	r.Roadmap = Roadmap(in, r.CareerPath, r.HiddenRisks)
	r.Recruiter = SimulateRecruiter(in, r)
	r.ScoreSummary = ScoreSummary(in, r.Hireability, r.Readiness.Label)
	return r
}
