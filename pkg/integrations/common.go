package integrations

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default client settings.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultRetries  = 1
	DefaultCacheTTL = 120 * time.Second
	DefaultCacheCap = 500

	maxBodyBytes = 8 << 20
)

var rateLimitText = regexp.MustCompile(`(?i)rate limit`)

// RateInfo holds the upstream quota headers. Nil fields were absent or
// unparseable.
type RateInfo struct {
	Remaining *int       `json:"remaining,omitempty"`
	ResetAt   *time.Time `json:"resetAt,omitempty"`
}

// ParseRateInfo reads x-ratelimit-remaining and x-ratelimit-reset (epoch
// seconds) from h.
func ParseRateInfo(h http.Header) RateInfo {
	var info RateInfo
	if v := strings.TrimSpace(h.Get("X-Ratelimit-Remaining")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			info.Remaining = &n
		}
	}
	if v := strings.TrimSpace(h.Get("X-Ratelimit-Reset")); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			t := time.Unix(secs, 0).UTC()
			info.ResetAt = &t
		}
	}
	return info
}

// NewHTTPClient creates the transport used for upstream calls. It carries no
// client-level timeout: deadlines come from the per-call context so that a
// timeout can be told apart from a transport failure.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}
