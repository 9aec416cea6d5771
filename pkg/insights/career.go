package insights

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

type careerTrack struct {
	languages []string
	title     string
	summary   string
	skills    []string
}

// careerTracks are checked in order; the first track sharing a language with
// the subject's top languages wins.
var careerTracks = []careerTrack{
	{
		languages: []string{"javascript", "typescript"},
		title:     "Full-Stack JavaScript Engineer",
		summary:   "Your language mix and repository profile align best with product-focused full-stack roles.",
		skills: []string{
			"Ship one end-to-end project with production deployment, auth, and monitoring.",
			"Document system architecture and tradeoffs for your top JavaScript/TypeScript repositories.",
			"Add test coverage and CI status badges to your top 3 repositories.",
		},
	},
	{
		languages: []string{"python"},
		title:     "Data / AI Engineer",
		summary:   "Python-heavy activity indicates strong alignment with data and AI engineering tracks.",
		skills: []string{
			"Publish one reproducible ML/data project with dataset, metrics, and inference/demo endpoint.",
			"Add evaluation methodology and model limitations to README docs.",
			"Showcase pipeline automation and observability in at least one repository.",
		},
	},
	{
		languages: []string{"java", "kotlin", "scala"},
		title:     "Backend Platform Engineer",
		summary:   "JVM-oriented repositories and contribution signals fit backend and platform engineering roles.",
		skills: []string{
			"Demonstrate API design quality with versioned contracts and load/performance notes.",
			"Add reliability signals: retries, circuit breakers, and structured logging.",
			"Publish a backend project with deployment and scalability benchmarks.",
		},
	},
	{
		languages: []string{"go", "rust", "c", "c++"},
		title:     "Systems / Infrastructure Engineer",
		summary:   "Your dominant languages suggest strongest fit for systems and infrastructure engineering paths.",
		skills: []string{
			"Build one performance-focused project with clear latency/throughput benchmarks.",
			"Document low-level design choices and profiling evidence in README.",
			"Add automation scripts for build/test/release workflows.",
		},
	},
	{
		languages: []string{"swift", "objective-c", "dart"},
		title:     "Mobile Application Engineer",
		summary:   "Language signals indicate strongest fit for modern mobile development roles.",
		skills: []string{
			"Publish a shipped-quality mobile app with store-ready documentation and screenshots.",
			"Add crash/error monitoring strategy and release notes cadence.",
			"Showcase offline support and performance considerations.",
		},
	},
}

var generalistTrack = careerTrack{
	title:   "Generalist Software Engineer",
	summary: "Your repositories indicate broad engineering capability across multiple project types.",
	skills: []string{
		"Create 2 case-study READMEs that highlight architecture decisions and measurable outcomes.",
		"Add live demos to your top projects to improve recruiter conversion.",
		"Contribute at least 2 PRs/month to repositories related to your target role.",
	},
}

var weakestAdvice = map[portfolio.Dimension]string{
	portfolio.DocumentationQuality:    "Strengthen documentation quality to make your projects legible to non-engineers.",
	portfolio.CodeActivityConsistency: "Establish a visible weekly commit cadence to reduce perceived delivery risk.",
	portfolio.ProjectPopularity:       "Increase visibility through demos, developer posts, and open-source collaboration.",
	portfolio.RepositoryCompleteness:  "Add project metadata (description, topics, demos) to boost portfolio clarity.",
	portfolio.LanguageDiversity:       "Add one adjacent-stack project to signal broader technical range.",
	portfolio.RecentActivity:          "Prioritize recent updates in top repositories to maintain recruiter confidence.",
	portfolio.ImpactSignals:           "Increase authored PR and issue activity in relevant external repositories.",
}

func matchTrack(topLanguages []string) careerTrack {
	langs := make([]string, len(topLanguages))
	for i, l := range topLanguages {
		langs[i] = strings.ToLower(l)
	}
	for _, t := range careerTracks {
		for _, l := range t.languages {
			if slices.Contains(langs, l) {
				return t
			}
		}
	}
	return generalistTrack
}

// RecommendCareer picks a career track from the top languages and attaches
// next skills: the track's own, advice for the weakest dimension, and a
// flagship hint when one repository clearly leads.
func RecommendCareer(in Input) portfolio.CareerPath {
	m, s := in.Metrics, in.Subscores
	track := matchTrack(m.TopLanguages)

	confidence := 52 + m.DominantShare*18 + float64(min(m.UniqueLanguages, 5)*4)
	if s.CodeActivityConsistency >= 70 {
		confidence += 6
	}
	if s.ImpactSignals >= 60 {
		confidence += 6
	}

	skills := slices.Clone(track.skills)
	skills = append(skills, weakestAdvice[s.Weakest()])
	if len(in.Ranked) > 0 && in.Ranked[0].Importance >= 80 {
		skills = append(skills, fmt.Sprintf(
			"Position `%s` as flagship project with a complete case-study README.", in.Ranked[0].Name))
	}

	return portfolio.CareerPath{
		Title:      track.title,
		Confidence: scoring.Clamp(scoring.Round(confidence), 35, 95),
		Summary:    track.summary,
		NextSkills: capList(dedupe(skills), maxFindings),
	}
}

// Roadmap orders week-tagged steps by deficit, weakest dimension first.
func Roadmap(in Input, career portfolio.CareerPath, hiddenRisks []string) []string {
	ranked := in.Ranked
	missingReadmes := repoNames(ranked, 2, missingReadme)
	noHomepages := repoNames(ranked, 2, noHomepage)
	staleRepos := repoNames(ranked, 2, stale(in.Now))

	steps := []string{
		"Week 1: Set portfolio baseline by updating profile bio, pinning top repositories, and documenting measurable outcomes.",
	}
	for _, d := range in.Subscores.Ascending() {
		switch {
		case d == portfolio.DocumentationQuality && len(missingReadmes) > 0:
			steps = append(steps, fmt.Sprintf(
				"Week 1-2: Add structured README files to %s with problem, architecture, setup, and results.", joinRepoNames(missingReadmes)))
		case d == portfolio.RecentActivity || d == portfolio.CodeActivityConsistency:
			steps = append(steps, "Week 2-5: Maintain weekly commits (minimum 1 meaningful update/week) across at least 4 core repositories.")
		case d == portfolio.RepositoryCompleteness && len(noHomepages) > 0:
			steps = append(steps, fmt.Sprintf(
				"Week 2-3: Add demo/homepage links and GitHub topics for %s.", joinRepoNames(noHomepages)))
		case d == portfolio.ImpactSignals:
			steps = append(steps, "Week 3-6: Target 8 authored PRs and 6 authored issues in repositories aligned to your target role.")
		case d == portfolio.ProjectPopularity:
			steps = append(steps, "Week 4: Publish concise demo posts and architecture threads to improve repository discoverability and star velocity.")
		case d == portfolio.LanguageDiversity && in.Metrics.UniqueLanguages < 4:
			steps = append(steps, "Week 5-7: Build one production-quality project in an adjacent stack to expand technical breadth signals.")
		}
	}

	if len(staleRepos) > 0 {
		steps = append(steps, fmt.Sprintf(
			"Week 3: Refresh or archive stale repositories (%s) to reduce portfolio noise.", joinRepoNames(staleRepos)))
	}
	if risk, ok := firstReal(hiddenRisks, noHiddenRisks); ok {
		steps = append(steps, "Week 4: Resolve hidden risk identified by analysis: "+risk)
	}
	steps = append(steps, fmt.Sprintf(
		"Week 8: Repackage top 3 projects for %s positioning with recruiter-focused case studies and outcomes.", career.Title))

	steps = dedupe(steps)
	defaults := []string{
		"Set a monthly portfolio review reminder to keep all flagship repositories active and complete.",
		"Add short demo videos/GIFs to your top repositories for faster recruiter evaluation.",
	}
	for i := 0; len(steps) < minRoadmap && i < len(defaults); i++ {
		steps = append(steps, defaults[i])
	}
	return capList(steps, maxRoadmap)
}
