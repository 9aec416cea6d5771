package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// reportRepoLimit caps the ranked-repository table.
const reportRepoLimit = 10

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// renderReport writes the human-readable analysis.
func renderReport(w io.Writer, a *portfolio.Analysis) {
	p := a.Profile
	fmt.Fprintln(w, StyleTitle.Render(p.Name)+" "+StyleDim.Render("@"+p.Login))
	fmt.Fprintln(w, StyleLink.Render(p.HTMLURL))
	fmt.Fprintln(w, StyleDim.Render(p.Bio))

	printSection(w, "Score")
	printKeyValue(w, "Overall", fmt.Sprintf("%s  %s  grade %s",
		scoreStyle(a.OverallScore).Render(strconv.Itoa(a.OverallScore)), scoreBar(a.OverallScore, 20), a.Grade))
	printKeyValue(w, "Hireability", scoreStyle(a.HireabilityScore).Render(strconv.Itoa(a.HireabilityScore)))
	printKeyValue(w, "Readiness", severityStyle(a.Readiness.Severity).Render(a.Readiness.Label)+
		StyleDim.Render(fmt.Sprintf(" (%d%%)", a.Readiness.Percent)))
	fmt.Fprintln(w, StyleDim.Render(a.ScoreSummary))

	printSection(w, "Subscores")
	fmt.Fprintln(w, subscoreTable(a.Subscores, a.Weights))

	printSection(w, "Signals")
	m := a.Metrics
	printKeyValue(w, "Repositories", fmt.Sprintf("%d scorable, %d inspected", m.ScorableRepoCount, m.DeepRepoCount))
	printKeyValue(w, "Stars / forks", fmt.Sprintf("%d / %d", m.TotalStars, m.TotalForks))
	printKeyValue(w, "PRs / issues", fmt.Sprintf("%d / %d", m.AuthoredPRCount, m.AuthoredIssueCount))
	printKeyValue(w, "Languages", languagesLine(m))
	printKeyValue(w, "Last push", lastPushLine(m))
	if m.PartialFailures > 0 {
		printWarning(w, "%d repository lookups failed; README and language data are partial", m.PartialFailures)
	}

	printSection(w, "Strengths")
	printBullets(w, a.Strengths, StyleSuccess)
	printSection(w, "Red flags")
	printBullets(w, a.RedFlags, StyleRisk)
	printSection(w, "Hidden risks")
	printBullets(w, a.HiddenRisks, StyleWarning)

	rs := a.RecruiterSimulation
	printSection(w, "Recruiter view")
	fmt.Fprintln(w, severityStyle(rs.Level).Render(rs.Verdict)+" "+StyleDim.Render(rs.Summary))
	printBullets(w, rs.Signals, StyleDim)

	cp := a.CareerPath
	printSection(w, "Career path")
	fmt.Fprintln(w, StyleValue.Render(cp.Title)+" "+StyleDim.Render(fmt.Sprintf("(%d%% confidence)", cp.Confidence)))
	fmt.Fprintln(w, StyleDim.Render(cp.Summary))
	printBullets(w, cp.NextSkills, StyleDim)

	printSection(w, "Suggestions")
	printBullets(w, a.Suggestions, StyleValue)
	printSection(w, "Roadmap")
	printBullets(w, a.ImprovementRoadmap, StyleValue)

	if len(a.RankedRepos) > 0 {
		printSection(w, "Top repositories")
		fmt.Fprintln(w, repoTable(a.RankedRepos, reportRepoLimit))
	}
	if len(a.PinnedRepos.Items) > 0 {
		names := make([]string, len(a.PinnedRepos.Items))
		for i, pr := range a.PinnedRepos.Items {
			names[i] = pr.Name
		}
		printSection(w, "Pinned ("+a.PinnedRepos.Source+")")
		fmt.Fprintln(w, "  "+strings.Join(names, ", "))
	}
}

func subscoreTable(scores, weights portfolio.Subscores) string {
	rows := make([][]string, 0, len(portfolio.Dimensions))
	for _, d := range portfolio.Dimensions {
		v := scores.Get(d)
		rows = append(rows, []string{d.Label(), strconv.Itoa(v), scoreBar(v, 20), fmt.Sprintf("%d%%", weights.Get(d))})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Dimension", "Score", "", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func repoTable(repos []portfolio.RankedRepo, limit int) string {
	if len(repos) > limit {
		repos = repos[:limit]
	}
	rows := make([][]string, len(repos))
	for i, r := range repos {
		rows[i] = repoRow(r)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Repository", "Importance", "Stars", "Lang", "README", "Pushed").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func repoRow(r portfolio.RankedRepo) []string {
	lang := r.Language
	if lang == "" {
		lang = "—"
	}
	return []string{r.Name, strconv.Itoa(r.Importance), strconv.Itoa(r.Stars), lang, readmeCell(r), formatRelativeTime(r.PushedAt, time.Now())}
}

func readmeCell(r portfolio.RankedRepo) string {
	switch {
	case !r.ReadmeKnown:
		return "?"
	case r.HasReadme:
		return "yes"
	default:
		return "no"
	}
}

func languagesLine(m portfolio.Metrics) string {
	if len(m.TopLanguages) == 0 {
		return "none detected"
	}
	return fmt.Sprintf("%s (%d unique, %s %.0f%%)",
		strings.Join(m.TopLanguages, ", "), m.UniqueLanguages, m.DominantLanguage, m.DominantShare*100)
}

func lastPushLine(m portfolio.Metrics) string {
	if m.LastPushDate == nil {
		return "never"
	}
	return fmt.Sprintf("%s (%d days ago)", m.LastPushDate.Format("Jan 2, 2006"), m.DaysSinceLastPush)
}

// formatRelativeTime renders t relative to now, falling back to a date
// after a week.
func formatRelativeTime(t *time.Time, now time.Time) string {
	if t == nil {
		return "—"
	}
	diff := now.Sub(*t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
