package portfolio

import (
	"cmp"
	"slices"
)

// Dimension names one of the seven scored areas.
type Dimension string

const (
	DocumentationQuality    Dimension = "documentationQuality"
	CodeActivityConsistency Dimension = "codeActivityConsistency"
	ProjectPopularity       Dimension = "projectPopularity"
	RepositoryCompleteness  Dimension = "repositoryCompleteness"
	LanguageDiversity       Dimension = "languageDiversity"
	RecentActivity          Dimension = "recentActivity"
	ImpactSignals           Dimension = "impactSignals"
)

// Dimensions lists every dimension in canonical order. Ties in "weakest" and
// "strongest" lookups resolve to the earliest entry.
var Dimensions = []Dimension{
	DocumentationQuality,
	CodeActivityConsistency,
	ProjectPopularity,
	RepositoryCompleteness,
	LanguageDiversity,
	RecentActivity,
	ImpactSignals,
}

var dimensionLabels = map[Dimension]string{
	DocumentationQuality:    "Documentation Quality",
	CodeActivityConsistency: "Code Activity / Consistency",
	ProjectPopularity:       "Project Popularity",
	RepositoryCompleteness:  "Repository Completeness",
	LanguageDiversity:       "Language Diversity",
	RecentActivity:          "Recent Activity",
	ImpactSignals:           "Impact Signals",
}

// Label returns the display name.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// Subscores holds one integer in [0,100] per dimension. The same shape
// carries the weights.
type Subscores struct {
	DocumentationQuality    int `json:"documentationQuality"`
	CodeActivityConsistency int `json:"codeActivityConsistency"`
	ProjectPopularity       int `json:"projectPopularity"`
	RepositoryCompleteness  int `json:"repositoryCompleteness"`
	LanguageDiversity       int `json:"languageDiversity"`
	RecentActivity          int `json:"recentActivity"`
	ImpactSignals           int `json:"impactSignals"`
}

// Get returns the value for d.
func (s Subscores) Get(d Dimension) int {
	switch d {
	case DocumentationQuality:
		return s.DocumentationQuality
	case CodeActivityConsistency:
		return s.CodeActivityConsistency
	case ProjectPopularity:
		return s.ProjectPopularity
	case RepositoryCompleteness:
		return s.RepositoryCompleteness
	case LanguageDiversity:
		return s.LanguageDiversity
	case RecentActivity:
		return s.RecentActivity
	case ImpactSignals:
		return s.ImpactSignals
	}
	return 0
}

// Weakest returns the lowest-scoring dimension.
func (s Subscores) Weakest() Dimension {
	best := Dimensions[0]
	for _, d := range Dimensions[1:] {
		if s.Get(d) < s.Get(best) {
			best = d
		}
	}
	return best
}

// Strongest returns the highest-scoring dimension.
func (s Subscores) Strongest() Dimension {
	best := Dimensions[0]
	for _, d := range Dimensions[1:] {
		if s.Get(d) > s.Get(best) {
			best = d
		}
	}
	return best
}

// Ascending returns all dimensions from weakest to strongest, ties in
// canonical order.
func (s Subscores) Ascending() []Dimension {
	out := slices.Clone(Dimensions)
	slices.SortStableFunc(out, func(a, b Dimension) int {
		return cmp.Compare(s.Get(a), s.Get(b))
	})
	return out
}
