package insights

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/scoring"
)

var (
	noRedFlags    = regexp.MustCompile(`(?i)No major red flags`)
	noHiddenRisks = regexp.MustCompile(`(?i)^No hidden`)
)

// joinRepoNames renders names as backticked code spans.
func joinRepoNames(names []string) string {
	if len(names) == 0 {
		return "target repositories"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}

// pct renders a ratio as a whole percentage without the sign.
func pct(v float64) int {
	return int(math.Round(v * 100))
}

// formatPercent renders a ratio capped to [0,1] as "NN%".
func formatPercent(v float64) string {
	return fmt.Sprintf("%d%%", pct(scoring.Cap01(v)))
}

// dedupe keeps the first occurrence of each item.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// repoNames returns up to limit names of ranked repositories matching keep,
// in ranked order.
func repoNames(ranked []portfolio.RankedRepo, limit int, keep func(*portfolio.RankedRepo) bool) []string {
	var names []string
	for i := range ranked {
		if len(names) == limit {
			break
		}
		if keep(&ranked[i]) {
			names = append(names, ranked[i].Name)
		}
	}
	return names
}

func missingReadme(r *portfolio.RankedRepo) bool { return r.ReadmeKnown && !r.HasReadme }
func noHomepage(r *portfolio.RankedRepo) bool    { return r.Homepage == "" }
func emptyRepo(r *portfolio.RankedRepo) bool     { return r.IsEmpty }
func noDescription(r *portfolio.RankedRepo) bool { return !r.HasDescription }

// stale reports repositories untouched for more than 180 days. A missing push
// date counts as stale.
func stale(now time.Time) func(*portfolio.RankedRepo) bool {
	return func(r *portfolio.RankedRepo) bool {
		return scoring.DaysSince(r.PushedAt, now) > 180
	}
}

// firstReal returns the first item that does not match the fallback pattern.
func firstReal(items []string, fallback *regexp.Regexp) (string, bool) {
	i := slices.IndexFunc(items, func(s string) bool { return !fallback.MatchString(s) })
	if i < 0 {
		return "", false
	}
	return items[i], true
}

func countReal(items []string, fallback *regexp.Regexp) int {
	n := 0
	for _, s := range items {
		if !fallback.MatchString(s) {
			n++
		}
	}
	return n
}
