package cache

// ScopedKeyer wraps a Keyer with a prefix for isolation between callers that
// share a store but must not see each other's entries.
//
// Example usage:
//
//	// Anonymous retries must not reuse responses fetched with a token
//	anonKeyer := NewScopedKeyer(NewDefaultKeyer(), "anon:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResponseKey generates a prefixed key for upstream response caching.
func (k *ScopedKeyer) ResponseKey(url string) string {
	return k.prefix + k.inner.ResponseKey(url)
}

// AnalysisKey generates a prefixed key for analysis result caching.
func (k *ScopedKeyer) AnalysisKey(subject string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(subject, opts)
}
