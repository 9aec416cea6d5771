package insights

import (
	"fmt"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// Strengths lists dimensions scoring 70 or more, in a fixed order.
func Strengths(in Input) []string {
	s, m := in.Subscores, in.Metrics
	var out []string

	if s.CodeActivityConsistency >= 70 {
		out = append(out, fmt.Sprintf(
			"Strong activity consistency with %d/6 active months and %d repositories updated in the last 90 days.",
			m.ActiveMonthsLast6, m.ReposUpdated90d))
	}
	if s.ProjectPopularity >= 70 {
		lead := "multiple visible projects"
		if len(in.Ranked) > 0 {
			lead = in.Ranked[0].Name + " as a leading project"
		}
		out = append(out, fmt.Sprintf("Good popularity signals: %d total stars and %s.", m.TotalStars, lead))
	}
	if s.LanguageDiversity >= 70 {
		out = append(out, fmt.Sprintf("Diverse technical stack with %d detected languages.", m.UniqueLanguages))
	}
	if s.RecentActivity >= 70 {
		out = append(out, fmt.Sprintf("Recent contribution momentum: latest push was %d day(s) ago.", m.DaysSinceLastPush))
	}
	if s.DocumentationQuality >= 70 {
		out = append(out, fmt.Sprintf(
			"Documentation quality is strong with %d%% README coverage in sampled repositories.", pct(m.ReadmeCoverage)))
	}
	if s.ImpactSignals >= 70 {
		out = append(out, fmt.Sprintf(
			"Impact signals are healthy with %d authored PRs and %d authored issues.",
			m.AuthoredPRCount, m.AuthoredIssueCount))
	}

	if len(out) == 0 {
		out = append(out, fmt.Sprintf(
			"Public portfolio is visible (%d non-fork repositories) but still needs stronger recruiter-facing signals.",
			m.ScorableRepoCount))
	}
	return capList(out, maxFindings)
}

// RedFlags lists visible weaknesses.
func RedFlags(in Input) []string {
	m := in.Metrics
	var out []string

	if m.ReadmeCoverage < 0.5 {
		out = append(out, fmt.Sprintf(
			"Low README coverage (%d%%) in sampled repositories makes project intent harder to evaluate.", pct(m.ReadmeCoverage)))
	}
	if m.ReposInactive180dRatio > 0.5 {
		out = append(out, fmt.Sprintf(
			"%d of %d repositories have been inactive for more than 180 days.", m.ReposInactive180d, m.ScorableRepoCount))
	}
	if m.EmptyRepoRatio > 0.3 {
		out = append(out, fmt.Sprintf(
			"%d%% of repositories look empty or near-empty based on repository size.", pct(m.EmptyRepoRatio)))
	}
	if m.DescriptionlessRatio > 0.4 {
		out = append(out, fmt.Sprintf(
			"%d%% of repositories have missing descriptions, which weakens recruiter readability.", pct(m.DescriptionlessRatio)))
	}
	if m.DaysSinceLastPush > 90 {
		out = append(out, fmt.Sprintf(
			"No recent pushes in the last 90 days (latest push was %d day(s) ago).", m.DaysSinceLastPush))
	}
	if in.Subscores.ImpactSignals < 40 {
		out = append(out, fmt.Sprintf(
			"Impact signals are weak (%d/100) due to low follower, PR, issue, or top-repo traction.", in.Subscores.ImpactSignals))
	}

	if len(out) == 0 {
		out = append(out, "No major red flags detected from the available public signals.")
	}
	return capList(out, maxFindings)
}

// HiddenRisks lists structural weaknesses that no single metric shows.
func HiddenRisks(in Input) []string {
	m := in.Metrics
	var out []string

	if m.DominantShare > 0.78 && m.UniqueLanguages >= 2 {
		out = append(out, fmt.Sprintf(
			"Stack concentration risk: %s accounts for %s of detected language volume.",
			m.DominantLanguage, formatPercent(m.DominantShare)))
	}

	top := in.Ranked[:min(5, len(in.Ranked))]
	if lacking := repoNames(top, len(top), noHomepage); len(lacking) >= 3 {
		out = append(out, fmt.Sprintf(
			"Conversion risk: %d of your top repositories lack demo/homepage links (%s).",
			len(lacking), joinRepoNames(lacking[:3])))
	}

	starShare := 0.0
	if m.TotalStars > 0 {
		starShare = float64(m.TopRepoStars) / float64(m.TotalStars)
	}
	if starShare > 0.85 && m.TotalStars >= 20 && len(in.Ranked) >= 4 {
		out = append(out, fmt.Sprintf(
			"Brand concentration risk: one repository drives %s of total stars, so portfolio impact is overly dependent on a single project.",
			formatPercent(starShare)))
	}

	if m.AuthoredPRCount < 5 && m.ScorableRepoCount >= 10 {
		out = append(out, fmt.Sprintf(
			"Collaboration signal risk: only %d authored PRs across a portfolio of %d repositories.",
			m.AuthoredPRCount, m.ScorableRepoCount))
	}
	if m.ReposUpdated90dRatio > 0.45 && m.ReposUpdated30dRatio < 0.15 {
		out = append(out, "Momentum decay risk: older recent activity exists, but updates in the last 30 days are sparse.")
	}
	if in.Subscores.RepositoryCompleteness < 50 && m.TopicsRatio < 0.35 {
		out = append(out, "Discoverability risk: weak metadata coverage (topics and project links) can reduce recruiter confidence during quick profile scans.")
	}

	if len(out) == 0 {
		out = append(out, "No hidden structural risks detected beyond the visible red flags.")
	}
	return capList(out, maxFindings)
}

// SelectPinned prefers the profile's own pins and otherwise substitutes the
// six highest-ranked repositories.
func SelectPinned(pins []portfolio.PinnedRepo, ranked []portfolio.RankedRepo) portfolio.PinnedRepos {
	if len(pins) > 0 {
		return portfolio.PinnedRepos{Source: portfolio.PinnedSourceGraphQL, Items: pins}
	}
	items := make([]portfolio.PinnedRepo, 0, 6)
	for _, r := range ranked[:min(6, len(ranked))] {
		items = append(items, portfolio.PinnedRepo{Name: r.Name, URL: r.URL, Stars: r.Stars})
	}
	return portfolio.PinnedRepos{Source: portfolio.PinnedSourceFallback, Items: items}
}
