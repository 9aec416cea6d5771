package insights

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := testNow.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

func uniform(v int) portfolio.Subscores {
	return portfolio.Subscores{
		DocumentationQuality:    v,
		CodeActivityConsistency: v,
		ProjectPopularity:       v,
		RepositoryCompleteness:  v,
		LanguageDiversity:       v,
		RecentActivity:          v,
		ImpactSignals:           v,
	}
}

// healthy is an input where no repository- or metric-driven rule fires.
func healthy() Input {
	return Input{
		Subscores: uniform(90),
		Overall:   90,
		Grade:     "A+",
		Metrics: portfolio.Metrics{
			ScorableRepoCount:   2,
			TotalStars:          40,
			TopRepoStars:        25,
			ReadmeCoverage:      0.9,
			DescriptionCoverage: 1,
			NonEmptyRepoRatio:   1,
			HomepageRatio:       1,
			TopicsRatio:         1,
			UniqueLanguages:     5,
			TopLanguages:        []string{"Haskell"},
			DominantLanguage:    "Haskell",
			DominantShare:       0.5,
			DaysSinceLastPush:   3,
			AuthoredPRCount:     50,
			AuthoredIssueCount:  10,
			ActiveMonthsLast6:   6,
			ReposUpdated90d:     2,
		},
		Ranked: []portfolio.RankedRepo{
			{Name: "alpha", Importance: 100, Stars: 25, Homepage: "https://a.dev", HasDescription: true, HasReadme: true, ReadmeKnown: true, PushedAt: daysAgo(3)},
			{Name: "bravo", Importance: 70, Stars: 15, Homepage: "https://b.dev", HasDescription: true, HasReadme: true, ReadmeKnown: true, PushedAt: daysAgo(10)},
		},
		Pinned: portfolio.PinnedRepos{Source: portfolio.PinnedSourceGraphQL},
		Now:    testNow,
	}
}

func TestBuildEmptyPortfolio(t *testing.T) {
	res := scoring.Score(scoring.Input{Profile: portfolio.Profile{Login: "empty"}}, testNow)
	in := FromScore(res, SelectPinned(nil, res.Ranked), testNow)
	r := Build(in)

	assert.Equal(t, []string{
		"Public portfolio is visible (0 non-fork repositories) but still needs stronger recruiter-facing signals.",
	}, r.Strengths)
	assert.Equal(t, []string{
		"Low README coverage (0%) in sampled repositories makes project intent harder to evaluate.",
		"100% of repositories look empty or near-empty based on repository size.",
		"100% of repositories have missing descriptions, which weakens recruiter readability.",
		"No recent pushes in the last 90 days (latest push was 9999 day(s) ago).",
		"Impact signals are weak (0/100) due to low follower, PR, issue, or top-repo traction.",
	}, r.RedFlags)
	assert.Equal(t, []string{
		"Discoverability risk: weak metadata coverage (topics and project links) can reduce recruiter confidence during quick profile scans.",
	}, r.HiddenRisks)

	assert.Equal(t, []string{
		"Improve project descriptions for your weakest repos with concise problem, stack, and outcomes so recruiters can scan faster.",
		"Improve commit consistency: target at least 1 meaningful commit per week for 8 weeks and aim for 4/6 active months.",
		"Increase impact signals by targeting 2 authored PRs and 2 authored issues per month on relevant repositories.",
		"Pin your strongest repositories (target repositories) so recruiters immediately see your best work.",
		"Add GitHub topics/tags to your key repositories to improve discovery and communicate stack relevance quickly.",
		"Showcase at least one additional production-quality project in a different language or framework to broaden stack signals.",
	}, r.Suggestions)

	assert.Equal(t, 0, r.Hireability)
	assert.Equal(t, "Foundation Stage", r.Readiness.Label)
	assert.Equal(t, portfolio.SeverityRisk, r.Readiness.Severity)
	assert.Equal(t, 1, r.Readiness.Percent)

	assert.Equal(t, "Not Ready for Interview Loop", r.Recruiter.Verdict)
	assert.Equal(t, portfolio.SeverityRisk, r.Recruiter.Level)
	assert.Equal(t, "Not Ready for Interview Loop: overall 1/100 and hireability 0/100. Current readiness is Foundation Stage. No standout repository identified yet.", r.Recruiter.Summary)
	assert.Equal(t, []string{
		"Positive signal: " + r.Strengths[0],
		"Market traction is minimal; add demos and visibility to increase external validation.",
		"Primary concern: " + r.RedFlags[0],
		"Hidden concern: " + r.HiddenRisks[0],
		"Interview risk: impact signals are below benchmark for competitive product roles.",
	}, r.Recruiter.Signals)

	assert.Equal(t, "Generalist Software Engineer", r.CareerPath.Title)
	assert.Equal(t, 52, r.CareerPath.Confidence)
	assert.Equal(t, "Strengthen documentation quality to make your projects legible to non-engineers.", r.CareerPath.NextSkills[3])
	assert.Len(t, r.CareerPath.NextSkills, 4)

	assert.Equal(t, []string{
		"Week 1: Set portfolio baseline by updating profile bio, pinning top repositories, and documenting measurable outcomes.",
		"Week 2-5: Maintain weekly commits (minimum 1 meaningful update/week) across at least 4 core repositories.",
		"Week 4: Publish concise demo posts and architecture threads to improve repository discoverability and star velocity.",
		"Week 5-7: Build one production-quality project in an adjacent stack to expand technical breadth signals.",
		"Week 3-6: Target 8 authored PRs and 6 authored issues in repositories aligned to your target role.",
		"Week 4: Resolve hidden risk identified by analysis: " + r.HiddenRisks[0],
		"Week 8: Repackage top 3 projects for Generalist Software Engineer positioning with recruiter-focused case studies and outcomes.",
	}, r.Roadmap)

	assert.Equal(t, "Score 1/100 (E), hireability 0/100 (Foundation Stage). Strongest area: Recent Activity. Biggest gap: Documentation Quality.", r.ScoreSummary)
}

func TestStrengthsAllFire(t *testing.T) {
	in := healthy()
	got := Strengths(in)
	assert.Equal(t, []string{
		"Strong activity consistency with 6/6 active months and 2 repositories updated in the last 90 days.",
		"Good popularity signals: 40 total stars and alpha as a leading project.",
		"Diverse technical stack with 5 detected languages.",
		"Recent contribution momentum: latest push was 3 day(s) ago.",
		"Documentation quality is strong with 90% README coverage in sampled repositories.",
		"Impact signals are healthy with 50 authored PRs and 10 authored issues.",
	}, got)

	in.Ranked = nil
	assert.Contains(t, Strengths(in)[1], "multiple visible projects")
}

func TestRedFlagsFallback(t *testing.T) {
	assert.Equal(t, []string{"No major red flags detected from the available public signals."}, RedFlags(healthy()))
}

func TestSuggestionsBackfill(t *testing.T) {
	got := Suggestions(healthy())
	assert.Equal(t, []string{
		"Raise README coverage from 90% to at least 80% in your top repositories.",
		"Set a monthly maintenance pass to close stale issues and refresh pinned projects with recent commits.",
		"Improve repository completeness by ensuring every flagship repo has README, topics, and a demo/homepage link.",
		"Create a monthly portfolio changelog in one pinned repository to highlight recent improvements and impact.",
		"Publish measurable project outcomes (users, performance, business value) in your top README files.",
	}, got)
}

func TestSuggestionsPriorityOrder(t *testing.T) {
	in := healthy()
	in.Subscores.DocumentationQuality = 20
	in.Subscores.RecentActivity = 40
	in.Ranked = []portfolio.RankedRepo{
		{Name: "old", ReadmeKnown: true, HasDescription: true, Homepage: "x", PushedAt: daysAgo(400)},
		{Name: "nodate", ReadmeKnown: true, HasReadme: true, HasDescription: true, Homepage: "x"},
	}

	got := Suggestions(in)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "Add README files to `old` with problem statement, setup, usage, and outcomes.", got[0])
	assert.Equal(t, "Update or archive stale repositories (`old`, `nodate`) so recruiters see a maintained portfolio.", got[1],
		"a missing push date counts as stale")
	assert.LessOrEqual(t, len(got), 7)
	assert.GreaterOrEqual(t, len(got), 5)
}

func TestHiddenRisks(t *testing.T) {
	in := healthy()
	in.Metrics.DominantShare = 0.9
	in.Metrics.DominantLanguage = "Go"
	in.Metrics.TotalStars = 100
	in.Metrics.TopRepoStars = 90
	in.Metrics.AuthoredPRCount = 2
	in.Metrics.ScorableRepoCount = 12
	in.Metrics.ReposUpdated90dRatio = 0.5
	in.Metrics.ReposUpdated30dRatio = 0.1
	in.Subscores.RepositoryCompleteness = 40
	in.Metrics.TopicsRatio = 0.2
	in.Ranked = nil
	for i := range 6 {
		in.Ranked = append(in.Ranked, portfolio.RankedRepo{Name: fmt.Sprintf("r%d", i)})
	}

	got := HiddenRisks(in)
	assert.Equal(t, []string{
		"Stack concentration risk: Go accounts for 90% of detected language volume.",
		"Conversion risk: 5 of your top repositories lack demo/homepage links (`r0`, `r1`, `r2`).",
		"Brand concentration risk: one repository drives 90% of total stars, so portfolio impact is overly dependent on a single project.",
		"Collaboration signal risk: only 2 authored PRs across a portfolio of 12 repositories.",
		"Momentum decay risk: older recent activity exists, but updates in the last 30 days are sparse.",
		"Discoverability risk: weak metadata coverage (topics and project links) can reduce recruiter confidence during quick profile scans.",
	}, got)

	assert.Equal(t, []string{"No hidden structural risks detected beyond the visible red flags."}, HiddenRisks(healthy()))
}

func TestHireabilityPenaltyCapped(t *testing.T) {
	in := healthy()
	in.Overall = 80
	in.Subscores = uniform(80)
	// 0.45*80 + 0.2*80 + 0.15*80 + 0.1*80 + 0.1*80 = 80
	assert.Equal(t, 80, Hireability(in, []string{"No hidden structural risks detected beyond the visible red flags."}))
	assert.Equal(t, 72, Hireability(in, []string{"a", "b"}))
	assert.Equal(t, 64, Hireability(in, []string{"a", "b", "c", "d", "e", "f"}))
}

func TestClassifyReadiness(t *testing.T) {
	tests := []struct {
		hire, overall int
		label         string
		severity      string
	}{
		{90, 80, "Recruiter-Ready", portfolio.SeverityGood},
		{84, 84, "Interview-Ready", portfolio.SeverityGood},
		{84, 85, "Recruiter-Ready", portfolio.SeverityGood},
		{70, 70, "Interview-Ready", portfolio.SeverityGood},
		{55, 54, "Emerging", portfolio.SeverityWarn},
		{54, 54, "Foundation Stage", portfolio.SeverityRisk},
	}
	for _, tt := range tests {
		got := ClassifyReadiness(tt.hire, tt.overall)
		assert.Equal(t, tt.label, got.Label, "%d/%d", tt.hire, tt.overall)
		assert.Equal(t, tt.severity, got.Severity)
	}
}

func TestRecruiterVerdictBands(t *testing.T) {
	tests := map[int]string{
		82: "Strong Consider",
		81: "Proceed to Technical Screen",
		68: "Proceed to Technical Screen",
		67: "Potential with Portfolio Polish",
		52: "Potential with Portfolio Polish",
		51: "Not Ready for Interview Loop",
	}
	in := healthy()
	for hire, want := range tests {
		r := Report{Hireability: hire, Strengths: Strengths(in), RedFlags: RedFlags(in), HiddenRisks: HiddenRisks(in)}
		sim := SimulateRecruiter(in, r)
		assert.Equal(t, want, sim.Verdict, "hireability %d", hire)
		assert.True(t, strings.HasSuffix(sim.Summary, "Top signal comes from alpha (100/100 importance)."))
	}

	r := Build(healthy())
	assert.Equal(t, []string{
		"Positive signal: " + r.Strengths[0],
		"Market traction: 40 total stars across 2 scored repositories.",
	}, r.Recruiter.Signals, "fallback findings never become concerns")
}

func TestCareerTracks(t *testing.T) {
	tests := []struct {
		langs []string
		title string
	}{
		{[]string{"TypeScript", "Go"}, "Full-Stack JavaScript Engineer"},
		{[]string{"Go", "Python"}, "Data / AI Engineer"},
		{[]string{"Kotlin"}, "Backend Platform Engineer"},
		{[]string{"C++"}, "Systems / Infrastructure Engineer"},
		{[]string{"Dart"}, "Mobile Application Engineer"},
		{[]string{"Haskell"}, "Generalist Software Engineer"},
		{nil, "Generalist Software Engineer"},
	}
	for _, tt := range tests {
		in := healthy()
		in.Metrics.TopLanguages = tt.langs
		assert.Equal(t, tt.title, RecommendCareer(in).Title, "%v", tt.langs)
	}
}

func TestCareerConfidenceAndSkills(t *testing.T) {
	in := healthy()
	in.Metrics.DominantShare = 1
	in.Subscores.LanguageDiversity = 10

	c := RecommendCareer(in)
	assert.Equal(t, 95, c.Confidence, "52+18+20+6+6 is clamped")
	assert.Equal(t, []string{
		"Create 2 case-study READMEs that highlight architecture decisions and measurable outcomes.",
		"Add live demos to your top projects to improve recruiter conversion.",
		"Contribute at least 2 PRs/month to repositories related to your target role.",
		"Add one adjacent-stack project to signal broader technical range.",
		"Position `alpha` as flagship project with a complete case-study README.",
	}, c.NextSkills)

	in = healthy()
	in.Metrics.UniqueLanguages = 0
	in.Metrics.DominantShare = 0
	in.Subscores = uniform(0)
	assert.Equal(t, 52, RecommendCareer(in).Confidence)
}

func TestRoadmapDeficitOrder(t *testing.T) {
	in := healthy()
	in.Subscores.RepositoryCompleteness = 10
	in.Subscores.DocumentationQuality = 20
	in.Ranked = []portfolio.RankedRepo{
		{Name: "a", ReadmeKnown: true, PushedAt: daysAgo(300)},
		{Name: "b", ReadmeKnown: true, Homepage: "x", PushedAt: daysAgo(1)},
		{Name: "c", ReadmeKnown: true},
	}
	career := portfolio.CareerPath{Title: "Backend Platform Engineer"}

	got := Roadmap(in, career, []string{"No hidden structural risks detected beyond the visible red flags."})
	assert.Equal(t, []string{
		"Week 1: Set portfolio baseline by updating profile bio, pinning top repositories, and documenting measurable outcomes.",
		"Week 2-3: Add demo/homepage links and GitHub topics for `a`, `c`.",
		"Week 1-2: Add structured README files to `a`, `b` with problem, architecture, setup, and results.",
		"Week 2-5: Maintain weekly commits (minimum 1 meaningful update/week) across at least 4 core repositories.",
		"Week 4: Publish concise demo posts and architecture threads to improve repository discoverability and star velocity.",
		"Week 3-6: Target 8 authored PRs and 6 authored issues in repositories aligned to your target role.",
		"Week 3: Refresh or archive stale repositories (`a`, `c`) to reduce portfolio noise.",
	}, got, "capped at seven steps")
}

func TestRoadmapBackfill(t *testing.T) {
	in := healthy()
	in.Subscores = uniform(90)
	in.Subscores.LanguageDiversity = 10
	got := Roadmap(in, portfolio.CareerPath{Title: "Generalist Software Engineer"}, nil)
	assert.Equal(t, []string{
		"Week 1: Set portfolio baseline by updating profile bio, pinning top repositories, and documenting measurable outcomes.",
		"Week 2-5: Maintain weekly commits (minimum 1 meaningful update/week) across at least 4 core repositories.",
		"Week 4: Publish concise demo posts and architecture threads to improve repository discoverability and star velocity.",
		"Week 3-6: Target 8 authored PRs and 6 authored issues in repositories aligned to your target role.",
		"Week 8: Repackage top 3 projects for Generalist Software Engineer positioning with recruiter-focused case studies and outcomes.",
	}, got)
}

func TestSelectPinned(t *testing.T) {
	ranked := make([]portfolio.RankedRepo, 8)
	for i := range ranked {
		ranked[i] = portfolio.RankedRepo{Name: fmt.Sprintf("r%d", i), URL: "u", Stars: i}
	}

	fallback := SelectPinned(nil, ranked)
	assert.Equal(t, portfolio.PinnedSourceFallback, fallback.Source)
	require.Len(t, fallback.Items, 6)
	assert.Equal(t, "r0", fallback.Items[0].Name)

	pins := []portfolio.PinnedRepo{{Name: "mine", URL: "u", Stars: 3}}
	got := SelectPinned(pins, ranked)
	assert.Equal(t, portfolio.PinnedSourceGraphQL, got.Source)
	assert.Equal(t, pins, got.Items)

	empty := SelectPinned([]portfolio.PinnedRepo{}, nil)
	assert.Equal(t, portfolio.PinnedSourceFallback, empty.Source)
	assert.Empty(t, empty.Items)
}

func TestScoreSummaryPartialWarning(t *testing.T) {
	in := healthy()
	in.Subscores.ImpactSignals = 95
	in.Subscores.ProjectPopularity = 10
	in.Metrics.PartialLanguageFailures = 2
	in.Metrics.PartialReadmeFailures = 1

	assert.Equal(t,
		"Score 90/100 (A+), hireability 88/100 (Recruiter-Ready). Strongest area: Impact Signals. Biggest gap: Project Popularity. Partial data warning: 3 deep checks failed due to API limits or transient errors.",
		ScoreSummary(in, 88, "Recruiter-Ready"))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "target repositories", joinRepoNames(nil))
	assert.Equal(t, "`a`, `b`", joinRepoNames([]string{"a", "b"}))
	assert.Equal(t, "100%", formatPercent(1.7))
	assert.Equal(t, "0%", formatPercent(-1))
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a"}))
}
