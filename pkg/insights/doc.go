// Package insights turns a scored portfolio into recruiter-facing prose:
// strengths, red flags, prioritized suggestions, hidden risks, the
// hireability score and readiness band, a simulated recruiter verdict, a
// career path recommendation and a week-by-week improvement roadmap.
//
// Every rule is a fixed threshold over subscores, metrics and the ranked
// repository list. Lists are capped and never empty: when no rule fires a
// fallback sentence is returned instead.
package insights
