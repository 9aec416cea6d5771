package insights

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

type suggestion struct {
	priority int
	text     string
}

// Suggestions returns prioritized improvement actions, highest priority
// first. Subscore-driven priorities grow as the subscore shrinks. The list is
// backfilled with generic advice to at least five items and capped at seven.
func Suggestions(in Input) []string {
	s, m, ranked := in.Subscores, in.Metrics, in.Ranked

	missingReadmes := repoNames(ranked, 3, missingReadme)
	staleRepos := repoNames(ranked, 3, stale(in.Now))
	noHomepages := repoNames(ranked, 3, noHomepage)
	empties := repoNames(ranked, 3, emptyRepo)
	undescribed := repoNames(ranked, 3, noDescription)

	var list []suggestion
	add := func(priority int, format string, args ...any) {
		list = append(list, suggestion{priority: priority, text: fmt.Sprintf(format, args...)})
	}

	if len(missingReadmes) > 0 {
		add(120-s.DocumentationQuality,
			"Add README files to %s with problem statement, setup, usage, and outcomes.", joinRepoNames(missingReadmes))
	}
	if len(staleRepos) > 0 {
		add(120-s.RecentActivity,
			"Update or archive stale repositories (%s) so recruiters see a maintained portfolio.", joinRepoNames(staleRepos))
	}
	if len(noHomepages) > 0 {
		add(110-s.RepositoryCompleteness,
			"Add live demo or homepage links for %s to improve project completeness.", joinRepoNames(noHomepages))
	}
	if len(empties) > 0 {
		add(108-s.RepositoryCompleteness,
			"Complete or archive near-empty repositories (%s) to reduce noise in your public profile.", joinRepoNames(empties))
	}
	if len(undescribed) > 0 || m.DescriptionlessRatio > 0.4 {
		target := "your weakest repos"
		if len(undescribed) > 0 {
			target = joinRepoNames(undescribed)
		}
		add(109-s.DocumentationQuality,
			"Improve project descriptions for %s with concise problem, stack, and outcomes so recruiters can scan faster.", target)
	}
	if s.CodeActivityConsistency < 70 {
		add(105-s.CodeActivityConsistency,
			"Improve commit consistency: target at least 1 meaningful commit per week for 8 weeks and aim for 4/6 active months.")
	}
	if s.ImpactSignals < 70 {
		add(105-s.ImpactSignals,
			"Increase impact signals by targeting 2 authored PRs and 2 authored issues per month on relevant repositories.")
	}
	if in.Pinned.Source == portfolio.PinnedSourceFallback {
		names := make([]string, 0, 3)
		for _, r := range ranked[:min(3, len(ranked))] {
			names = append(names, r.Name)
		}
		add(102, "Pin your strongest repositories (%s) so recruiters immediately see your best work.", joinRepoNames(names))
	}
	if m.TopicsRatio < 0.5 {
		add(95, "Add GitHub topics/tags to your key repositories to improve discovery and communicate stack relevance quickly.")
	}
	if m.UniqueLanguages < 3 {
		add(88, "Showcase at least one additional production-quality project in a different language or framework to broaden stack signals.")
	}

	slices.SortStableFunc(list, func(a, b suggestion) int { return cmp.Compare(b.priority, a.priority) })
	texts := make([]string, len(list))
	for i, sg := range list {
		texts[i] = sg.text
	}
	texts = dedupe(texts)

	defaults := []string{
		fmt.Sprintf("Raise README coverage from %d%% to at least 80%% in your top repositories.", pct(m.ReadmeCoverage)),
		"Set a monthly maintenance pass to close stale issues and refresh pinned projects with recent commits.",
		"Improve repository completeness by ensuring every flagship repo has README, topics, and a demo/homepage link.",
		"Create a monthly portfolio changelog in one pinned repository to highlight recent improvements and impact.",
		"Publish measurable project outcomes (users, performance, business value) in your top README files.",
	}
	for i := 0; len(texts) < minSuggestions && i < len(defaults); i++ {
		texts = append(texts, defaults[i])
	}
	return capList(texts, maxSuggestions)
}
