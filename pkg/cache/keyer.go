package cache

// Keyer builds cache keys for the two shared stores.
type Keyer interface {
	// ResponseKey returns the key for a cached upstream GET response.
	ResponseKey(url string) string

	// AnalysisKey returns the key for a cached analysis of subject.
	AnalysisKey(subject string, opts AnalysisKeyOpts) string
}

// AnalysisKeyOpts holds the pipeline options that change an analysis result.
// Two runs that differ in any of these must not share a cache entry.
type AnalysisKeyOpts struct {
	MaxRepoPages int  `json:"max_repo_pages"`
	MaxDeepRepos int  `json:"max_deep_repos"`
	Pinned       bool `json:"pinned"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResponseKey keys upstream responses by their full URL.
func (DefaultKeyer) ResponseKey(url string) string {
	return "http:" + url
}

// AnalysisKey keys analyses by subject plus a short hash of opts.
func (DefaultKeyer) AnalysisKey(subject string, opts AnalysisKeyOpts) string {
	return hashKey("analysis:"+subject, opts)
}
