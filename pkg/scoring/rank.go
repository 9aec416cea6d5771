package scoring

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// PreRank orders repositories for deep enrichment before any enrichment data
// exists: popularity plus a freshness bonus.
func PreRank(r *portfolio.Repository, now time.Time) int {
	return r.Stars*3 + r.Forks*2 + r.Watchers + freshness(DaysSince(r.PushedAt, now), 10, 6, 3)
}

func freshness(days float64, within30, within90, within180 int) int {
	switch {
	case days <= 30:
		return within30
	case days <= 90:
		return within90
	case days <= 180:
		return within180
	default:
		return 0
	}
}

// Rank scores each repository's importance relative to the strongest one and
// sorts by importance, then stars. The sort is stable.
func Rank(repos []portfolio.Repository, now time.Time) []portfolio.RankedRepo {
	ranked := make([]portfolio.RankedRepo, len(repos))
	raw := make([]int, len(repos))
	maxRaw := 1

	for i := range repos {
		r := &repos[i]
		score := r.Stars*4 + r.Forks*3 + r.Watchers*2 + freshness(DaysSince(r.PushedAt, now), 15, 8, 4)
		if r.HasReadme() {
			score += 8
		}
		if r.HasHomepage() {
			score += 4
		}
		if r.HasTopics() {
			score += 3
		}
		if r.HasDescription() {
			score += 3
		}
		if !r.IsEmpty() {
			score += 2
		}
		raw[i] = score
		maxRaw = max(maxRaw, score)

		lang := r.Language
		if lang == "" {
			lang = "Unknown"
		}
		ranked[i] = portfolio.RankedRepo{
			Name:           r.Name,
			URL:            r.URL,
			Stars:          r.Stars,
			Forks:          r.Forks,
			Watchers:       r.Watchers,
			PushedAt:       r.PushedAt,
			HasReadme:      r.HasReadme(),
			ReadmeKnown:    r.ReadmeChecked(),
			Language:       lang,
			Homepage:       strings.TrimSpace(r.Homepage),
			TopicsCount:    len(r.Topics),
			HasDescription: r.HasDescription(),
			IsEmpty:        r.IsEmpty(),
		}
	}

	for i := range ranked {
		ranked[i].Importance = Clamp(Round(float64(raw[i])/float64(maxRaw)*100), 0, 100)
	}
	slices.SortStableFunc(ranked, func(a, b portfolio.RankedRepo) int {
		if c := cmp.Compare(b.Importance, a.Importance); c != 0 {
			return c
		}
		return cmp.Compare(b.Stars, a.Stars)
	})
	return ranked
}
