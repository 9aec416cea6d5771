package portfolio

import (
	"strings"
	"time"
)

// Profile is the subject's public account summary.
type Profile struct {
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	HTMLURL     string     `json:"htmlUrl"`
	AvatarURL   string     `json:"avatarUrl"`
	Bio         string     `json:"bio"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	PublicRepos int        `json:"publicRepos"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// Repository is one repository from the subject's listing.
type Repository struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Homepage    string     `json:"homepage"`
	Topics      []string   `json:"topics"`
	Language    string     `json:"language"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	Watchers    int        `json:"watchers"`
	Size        int        `json:"size"`
	Fork        bool       `json:"fork"`
	PushedAt    *time.Time `json:"pushedAt"`

	// Deep is nil for repositories outside the enrichment candidates.
	Deep *DeepMetadata `json:"-"`
}

// HasDescription reports a non-blank description.
func (r *Repository) HasDescription() bool { return strings.TrimSpace(r.Description) != "" }

// HasHomepage reports a non-blank homepage.
func (r *Repository) HasHomepage() bool { return strings.TrimSpace(r.Homepage) != "" }

// HasTopics reports at least one topic.
func (r *Repository) HasTopics() bool { return len(r.Topics) > 0 }

// IsEmpty reports a zero repository size.
func (r *Repository) IsEmpty() bool { return r.Size <= 0 }

// ReadmeChecked reports whether README presence is known.
func (r *Repository) ReadmeChecked() bool { return r.Deep != nil && r.Deep.ReadmeChecked }

// HasReadme reports a README known to exist. Unknown counts as false here;
// use ReadmeChecked to tell the two apart.
func (r *Repository) HasReadme() bool { return r.Deep != nil && r.Deep.ReadmeChecked && r.Deep.HasReadme }

// DeepMetadata is the best-effort per-repository enrichment. A field whose
// Checked flag is false is unknown, not absent.
type DeepMetadata struct {
	Languages       map[string]int64 `json:"languages,omitempty"`
	LanguageChecked bool             `json:"languageChecked"`
	HasReadme       bool             `json:"hasReadme"`
	ReadmeChecked   bool             `json:"readmeChecked"`
}

// EnrichmentStats counts deep-enrichment sub-calls for one run.
type EnrichmentStats struct {
	DeepRepoCount    int `json:"deepRepoCount"`
	LanguageChecked  int `json:"languageChecked"`
	ReadmeChecked    int `json:"readmeChecked"`
	LanguageFailures int `json:"languageFailures"`
	ReadmeFailures   int `json:"readmeFailures"`
}

// PartialFailures is the total number of failed sub-calls.
func (s EnrichmentStats) PartialFailures() int {
	return s.LanguageFailures + s.ReadmeFailures
}

// Contributions are authored pull request and issue counts from search.
type Contributions struct {
	PRCount    int `json:"prCount"`
	IssueCount int `json:"issueCount"`
}

// PinnedRepo is one pinned (or substitute) repository.
type PinnedRepo struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Stars int    `json:"stars"`
}

// Pinned sources.
const (
	PinnedSourceGraphQL  = "graphql"
	PinnedSourceFallback = "fallback"
)

// PinnedRepos records where the pinned list came from.
type PinnedRepos struct {
	Source string       `json:"source"`
	Items  []PinnedRepo `json:"items"`
}
