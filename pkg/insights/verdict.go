package insights

import (
	"fmt"

	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

// Hireability blends the overall score with the dimensions recruiters weigh
// most, minus 4 points per real hidden risk (at most 16).
func Hireability(in Input, hiddenRisks []string) int {
	s := in.Subscores
	penalty := min(countReal(hiddenRisks, noHiddenRisks)*4, 16)
	raw := float64(in.Overall)*0.45 +
		float64(s.ImpactSignals)*0.2 +
		float64(s.RecentActivity)*0.15 +
		float64(s.DocumentationQuality)*0.1 +
		float64(s.RepositoryCompleteness)*0.1
	return scoring.Clamp(scoring.Round(raw-float64(penalty)), 0, 100)
}

// ClassifyReadiness bands the mean of hireability and overall.
func ClassifyReadiness(hireability, overall int) portfolio.Readiness {
	blended := scoring.Clamp(scoring.Round(float64(hireability+overall)/2), 0, 100)
	switch {
	case blended >= 85:
		return portfolio.Readiness{
			Label: "Recruiter-Ready", Severity: portfolio.SeverityGood, Percent: blended,
			Summary: "Portfolio can usually pass recruiter screens without major concerns.",
		}
	case blended >= 70:
		return portfolio.Readiness{
			Label: "Interview-Ready", Severity: portfolio.SeverityGood, Percent: blended,
			Summary: "Strong enough for interview pipelines with minor polish opportunities.",
		}
	case blended >= 55:
		return portfolio.Readiness{
			Label: "Emerging", Severity: portfolio.SeverityWarn, Percent: blended,
			Summary: "Promising portfolio that needs stronger consistency and presentation signals.",
		}
	default:
		return portfolio.Readiness{
			Label: "Foundation Stage", Severity: portfolio.SeverityRisk, Percent: blended,
			Summary: "Core work is visible, but recruiter confidence is currently limited.",
		}
	}
}

// SimulateRecruiter produces the verdict a recruiter skimming the profile
// would likely reach. It reads the findings already in r.
func SimulateRecruiter(in Input, r Report) portfolio.RecruiterSimulation {
	sim := portfolio.RecruiterSimulation{Verdict: "Not Ready for Interview Loop", Level: portfolio.SeverityRisk}
	switch {
	case r.Hireability >= 82:
		sim.Verdict, sim.Level = "Strong Consider", portfolio.SeverityGood
	case r.Hireability >= 68:
		sim.Verdict, sim.Level = "Proceed to Technical Screen", portfolio.SeverityWarn
	case r.Hireability >= 52:
		sim.Verdict, sim.Level = "Potential with Portfolio Polish", portfolio.SeverityWarn
	}

	lead := "No standout repository identified yet."
	if len(in.Ranked) > 0 {
		lead = fmt.Sprintf("Top signal comes from %s (%d/100 importance).", in.Ranked[0].Name, in.Ranked[0].Importance)
	}
	sim.Summary = fmt.Sprintf("%s: overall %d/100 and hireability %d/100. Current readiness is %s. %s",
		sim.Verdict, in.Overall, r.Hireability, r.Readiness.Label, lead)

	m := in.Metrics
	var signals []string
	if len(r.Strengths) > 0 {
		signals = append(signals, "Positive signal: "+r.Strengths[0])
	}
	if m.TotalStars > 0 {
		signals = append(signals, fmt.Sprintf("Market traction: %d total stars across %d scored repositories.", m.TotalStars, m.ScorableRepoCount))
	} else {
		signals = append(signals, "Market traction is minimal; add demos and visibility to increase external validation.")
	}
	if flag, ok := firstReal(r.RedFlags, noRedFlags); ok {
		signals = append(signals, "Primary concern: "+flag)
	}
	if risk, ok := firstReal(r.HiddenRisks, noHiddenRisks); ok {
		signals = append(signals, "Hidden concern: "+risk)
	}
	if in.Subscores.ImpactSignals < 60 {
		signals = append(signals, "Interview risk: impact signals are below benchmark for competitive product roles.")
	}
	sim.Signals = capList(signals, maxFindings)
	return sim
}

// ScoreSummary is the one-paragraph headline.
func ScoreSummary(in Input, hireability int, readinessLabel string) string {
	summary := fmt.Sprintf("Score %d/100 (%s), hireability %d/100 (%s). Strongest area: %s. Biggest gap: %s.",
		in.Overall, in.Grade, hireability, readinessLabel,
		in.Subscores.Strongest().Label(), in.Subscores.Weakest().Label())

	m := in.Metrics
	if m.PartialLanguageFailures > 0 || m.PartialReadmeFailures > 0 {
		summary += fmt.Sprintf(" Partial data warning: %d deep checks failed due to API limits or transient errors.",
			m.PartialLanguageFailures+m.PartialReadmeFailures)
	}
	return summary
}
