package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

const (
	// fallbackLanguageBytes is credited to a repository's primary language
	// when no byte breakdown is available.
	fallbackLanguageBytes = 1000

	// unknownPushDays stands in for "days since last push" when no
	// repository has a push date.
	unknownPushDays = 9999

	topLanguageCount = 5
	activeMonthSpan  = 6
)

// Input is everything the scorer reads.
type Input struct {
	Profile       portfolio.Profile
	Repos         []portfolio.Repository // scorable (non-fork) repositories
	Contributions portfolio.Contributions
	Enrichment    portfolio.EnrichmentStats
}

// LanguageEntry is one aggregated language total.
type LanguageEntry struct {
	Name  string
	Bytes int64
}

// ComputeMetrics derives every portfolio metric from in, relative to now.
func ComputeMetrics(in Input, now time.Time) (portfolio.Metrics, []LanguageEntry) {
	repos := in.Repos
	n := float64(len(repos))

	m := portfolio.Metrics{
		ScorableRepoCount:       len(repos),
		AuthoredPRCount:         in.Contributions.PRCount,
		AuthoredIssueCount:      in.Contributions.IssueCount,
		PartialReadmeFailures:   in.Enrichment.ReadmeFailures,
		PartialLanguageFailures: in.Enrichment.LanguageFailures,
		PartialFailures:         in.Enrichment.PartialFailures(),
		DeepRepoCount:           in.Enrichment.DeepRepoCount,
		LanguageChecked:         in.Enrichment.LanguageChecked,
		ReadmeChecked:           in.Enrichment.ReadmeChecked,
	}

	var described, nonEmpty, withHomepage, withTopics, readmeChecked, withReadme int
	var lastPush *time.Time
	for i := range repos {
		r := &repos[i]
		m.TotalStars += r.Stars
		m.TotalForks += r.Forks
		m.TotalWatchers += r.Watchers
		m.TopRepoStars = max(m.TopRepoStars, r.Stars)

		if r.HasDescription() {
			described++
		}
		if !r.IsEmpty() {
			nonEmpty++
		}
		if r.HasHomepage() {
			withHomepage++
		}
		if r.HasTopics() {
			withTopics++
		}
		if r.ReadmeChecked() {
			readmeChecked++
			if r.HasReadme() {
				withReadme++
			}
		}

		if r.PushedAt != nil && (lastPush == nil || r.PushedAt.After(*lastPush)) {
			lastPush = r.PushedAt
		}

		days := DaysSince(r.PushedAt, now)
		if math.IsInf(days, 1) {
			continue
		}
		switch {
		case days <= 30:
			m.ReposUpdated30d++
			m.ActivityBuckets.Updated30d++
		case days <= 90:
			m.ActivityBuckets.Updated31to90d++
		case days <= 180:
			m.ActivityBuckets.Updated91to180d++
		default:
			m.ReposInactive180d++
			m.ActivityBuckets.Updated181Plus++
		}
		if days <= 90 {
			m.ReposUpdated90d++
		}
	}

	m.DescriptionCoverage = SafeRatio(float64(described), n)
	m.DescriptionlessRatio = Cap01(1 - m.DescriptionCoverage)
	m.ReadmeCoverage = SafeRatio(float64(withReadme), float64(readmeChecked))
	m.ReadmeSampleSize = readmeChecked
	m.NonEmptyRepoRatio = SafeRatio(float64(nonEmpty), n)
	m.EmptyRepoRatio = Cap01(1 - m.NonEmptyRepoRatio)
	m.HomepageRatio = SafeRatio(float64(withHomepage), n)
	m.TopicsRatio = SafeRatio(float64(withTopics), n)
	m.ReposInactive180dRatio = SafeRatio(float64(m.ReposInactive180d), n)
	m.ReposUpdated30dRatio = SafeRatio(float64(m.ReposUpdated30d), n)
	m.ReposUpdated90dRatio = SafeRatio(float64(m.ReposUpdated90d), n)
	m.StarsPerRepo = SafeRatio(float64(m.TotalStars), n)
	m.ForksPerRepo = SafeRatio(float64(m.TotalForks), n)
	m.WatchersPerRepo = SafeRatio(float64(m.TotalWatchers), n)

	m.LastPushDate = lastPush
	m.DaysSinceLastPush = unknownPushDays
	if lastPush != nil {
		m.DaysSinceLastPush = int(DaysSince(lastPush, now))
	}
	m.RecencyBucket = RecencyBucket(m.DaysSinceLastPush)

	m.ActiveMonthsLast6 = ActiveMonths(repos, now)
	m.ActiveMonthsLast6Ratio = float64(m.ActiveMonthsLast6) / activeMonthSpan

	langs := LanguageTotals(repos)
	var total int64
	for _, l := range langs {
		total += l.Bytes
	}
	m.UniqueLanguages = len(langs)
	m.NormalizedEntropy = NormalizedEntropy(langs)
	m.DominantLanguage = "Unknown"
	m.TopLanguages = []string{}
	if len(langs) > 0 {
		m.DominantLanguage = langs[0].Name
		if total > 0 {
			m.DominantShare = Cap01(float64(langs[0].Bytes) / float64(total))
		}
		for _, l := range langs[:min(topLanguageCount, len(langs))] {
			m.TopLanguages = append(m.TopLanguages, l.Name)
		}
	}
	return m, langs
}

// RecencyBucket maps days since the last push onto a freshness factor.
func RecencyBucket(days int) float64 {
	switch {
	case days <= 7:
		return 1
	case days <= 30:
		return 0.8
	case days <= 90:
		return 0.6
	case days <= 180:
		return 0.3
	default:
		return 0.1
	}
}

// ActiveMonths counts distinct UTC calendar months, among the current month
// and the five before it, in which at least one repository was pushed.
func ActiveMonths(repos []portfolio.Repository, now time.Time) int {
	now = now.UTC()
	window := make(map[string]bool, activeMonthSpan)
	for i := range activeMonthSpan {
		d := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		window[monthKey(d)] = true
	}

	active := map[string]bool{}
	for i := range repos {
		if repos[i].PushedAt == nil {
			continue
		}
		if k := monthKey(repos[i].PushedAt.UTC()); window[k] {
			active[k] = true
		}
	}
	return len(active)
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// LanguageTotals sums language bytes across repos, largest first. A
// repository without a non-empty breakdown credits its primary language
// with a fixed 1000 bytes. Equal totals keep first-seen order.
func LanguageTotals(repos []portfolio.Repository) []LanguageEntry {
	totals := map[string]int64{}
	var order []string
	add := func(lang string, bytes int64) {
		if _, ok := totals[lang]; !ok {
			order = append(order, lang)
		}
		totals[lang] += bytes
	}

	for i := range repos {
		r := &repos[i]
		if r.Deep != nil && len(r.Deep.Languages) > 0 {
			// Map order is random; add per-repo languages largest first so
			// first-seen order stays deterministic.
			names := make([]string, 0, len(r.Deep.Languages))
			for name := range r.Deep.Languages {
				names = append(names, name)
			}
			slices.SortFunc(names, func(a, b string) int {
				if c := cmp.Compare(r.Deep.Languages[b], r.Deep.Languages[a]); c != 0 {
					return c
				}
				return cmp.Compare(a, b)
			})
			for _, name := range names {
				add(name, r.Deep.Languages[name])
			}
			continue
		}
		if r.Language != "" {
			add(r.Language, fallbackLanguageBytes)
		}
	}

	out := make([]LanguageEntry, 0, len(order))
	for _, name := range order {
		out = append(out, LanguageEntry{Name: name, Bytes: totals[name]})
	}
	slices.SortStableFunc(out, func(a, b LanguageEntry) int {
		return cmp.Compare(b.Bytes, a.Bytes)
	})
	return out
}

// NormalizedEntropy is the Shannon entropy of the positive language totals
// divided by its maximum, log(n). It is 0 for fewer than two languages.
func NormalizedEntropy(langs []LanguageEntry) float64 {
	var data stats.Float64Data
	for _, l := range langs {
		if l.Bytes > 0 {
			data = append(data, float64(l.Bytes))
		}
	}
	if len(data) <= 1 {
		return 0
	}
	// Entropy normalizes its input in place.
	h, err := stats.Entropy(data)
	if err != nil {
		return 0
	}
	return h / math.Log(float64(len(data)))
}

// TotalsMap flattens entries into the map form used in results.
func TotalsMap(langs []LanguageEntry) map[string]int64 {
	out := make(map[string]int64, len(langs))
	for _, l := range langs {
		out[l.Name] = l.Bytes
	}
	return out
}
