package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/ratelimit"
)

type fakeAnalyzer struct {
	calls   atomic.Int32
	subject atomic.Value
	outcome cache.Outcome
	err     error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, subject string) (*portfolio.Analysis, cache.Outcome, error) {
	f.calls.Add(1)
	f.subject.Store(subject)
	if f.err != nil {
		return nil, "", f.err
	}
	out := f.outcome
	if out == "" {
		out = cache.OutcomeMiss
	}
	return &portfolio.Analysis{
		Profile:      portfolio.ProfileSummary{Login: subject},
		OverallScore: 72,
		Grade:        "B",
	}, out, nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC)

func newTestServer(a Analyzer, maxRequests int) *Server {
	lim := ratelimit.New(ratelimit.Config{
		Window:      time.Minute,
		MaxRequests: maxRequests,
		Now:         func() time.Time { return fixedNow },
	})
	s := New(a, lim, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func do(t *testing.T, h http.Handler, method, target string, hdr map[string]string) (*httptest.ResponseRecorder, envelopeProbe) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body envelopeProbe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

type envelopeProbe struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func TestAnalyzeSuccess(t *testing.T) {
	a := &fakeAnalyzer{outcome: cache.OutcomeHit}
	h := newTestServer(a, 5).Handler()

	rec, body := do(t, h, http.MethodGet, "/analyze?username=https://github.com/Octocat", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.OK)
	assert.Nil(t, body.Error)
	assert.Equal(t, "octocat", a.subject.Load())

	var data portfolio.Analysis
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "octocat", data.Profile.Login)
	assert.Equal(t, 72, data.OverallScore)

	h2 := rec.Header()
	assert.Equal(t, "HIT", h2.Get("X-Cache"))
	assert.Equal(t, cacheControl, h2.Get("Cache-Control"))
	assert.Equal(t, "5", h2.Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", h2.Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2025-03-01T12:01:00.000Z", h2.Get("X-RateLimit-Reset-At"))
	assert.Equal(t, "application/json; charset=utf-8", h2.Get("Content-Type"))
	assert.Equal(t, "nosniff", h2.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h2.Get("Referrer-Policy"))
	assert.NotEmpty(t, h2.Get("X-Request-ID"))
}

func TestAnalyzeAPIAlias(t *testing.T) {
	a := &fakeAnalyzer{}
	rec, body := do(t, newTestServer(a, 5).Handler(), http.MethodGet, "/api/analyze?username=@torvalds", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.OK)
	assert.Equal(t, "torvalds", a.subject.Load())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestAnalyzeValidation(t *testing.T) {
	for _, target := range []string{"/analyze", "/analyze?username=-bad-", "/analyze?username=https://gitlab.com/x"} {
		t.Run(target, func(t *testing.T) {
			a := &fakeAnalyzer{}
			rec, body := do(t, newTestServer(a, 5).Handler(), http.MethodGet, target, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, body.OK)
			require.NotNil(t, body.Error)
			assert.Equal(t, "Validation", body.Error.Type)
			assert.NotEmpty(t, body.Error.Message)
			assert.Zero(t, a.calls.Load())
			assert.Empty(t, rec.Header().Get("X-Cache"))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec, body := do(t, newTestServer(&fakeAnalyzer{}, 5).Handler(), http.MethodPost, "/analyze?username=octocat", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "MethodNotAllowed", body.Error.Type)
	assert.Equal(t, "Only GET is supported.", body.Error.Message)
}

func TestUnknownRoute(t *testing.T) {
	rec, body := do(t, newTestServer(&fakeAnalyzer{}, 5).Handler(), http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NotFound", body.Error.Type)
}

func TestAnalyzeRateLimited(t *testing.T) {
	a := &fakeAnalyzer{}
	h := newTestServer(a, 2).Handler()
	hdr := map[string]string{"X-Forwarded-For": "203.0.113.7"}

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodGet, "/analyze?username=octocat", hdr)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := do(t, h, http.MethodGet, "/analyze?username=octocat", hdr)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "RateLimited", body.Error.Type)
	assert.Equal(t, "Too many requests. Please retry later.", body.Error.Message)
	require.NotNil(t, body.Error.ResetAt)
	assert.Equal(t, "2025-03-01T12:01:00.000Z", *body.Error.ResetAt)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, int32(2), a.calls.Load())

	// A different caller has its own budget.
	rec, _ = do(t, h, http.MethodGet, "/analyze?username=octocat", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	reset := fixedNow.Add(90 * time.Second)

	tests := []struct {
		name    string
		err     error
		status  int
		typ     string
		message string
	}{
		{"not found", errors.New(errors.ErrCodeNotFound, "user missing"), 404, "NotFound", "GitHub profile not found."},
		{"upstream quota", errors.New(errors.ErrCodeRateLimited, "quota").WithResetAt(&reset), 429, "RateLimited", "GitHub upstream API rate limit reached. Retry shortly."},
		{"bad token", errors.New(errors.ErrCodeUnauthorized, "bad credentials"), 503, "Unauthorized", "Server GitHub token is invalid or missing in deployment configuration."},
		{"network", errors.New(errors.ErrCodeNetwork, "dial tcp"), 502, "Network", "Network error while fetching GitHub data."},
		{"api", errors.New(errors.ErrCodeAPI, "GitHub API error 500"), 502, "Upstream", "GitHub API error 500"},
		{"api empty", errors.New(errors.ErrCodeAPI, ""), 502, "Upstream", "GitHub API request failed."},
		{"timeout", errors.New(errors.ErrCodeTimeout, "deadline"), 504, "Timeout", "GitHub request timed out."},
		{"internal", errors.New(errors.ErrCodeInternal, "boom"), 500, "Internal", internalError.Message},
		{"plain", context.DeadlineExceeded, 500, "Internal", internalError.Message},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, newTestServer(&fakeAnalyzer{err: tt.err}, 5).Handler(), http.MethodGet, "/analyze?username=octocat", nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, body.OK)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.typ, body.Error.Type)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Empty(t, rec.Header().Get("X-Cache"))
		})
	}
}

func TestAnalyzeUpstreamRateLimitHeaders(t *testing.T) {
	reset := fixedNow.Add(90 * time.Second)
	a := &fakeAnalyzer{err: errors.New(errors.ErrCodeRateLimited, "quota").WithResetAt(&reset)}

	rec, body := do(t, newTestServer(a, 5).Handler(), http.MethodGet, "/analyze?username=octocat", nil)

	require.NotNil(t, body.Error)
	require.NotNil(t, body.Error.ResetAt)
	assert.Equal(t, "2025-03-01T12:02:00.000Z", *body.Error.ResetAt)
	assert.Equal(t, "2025-03-01T12:02:00.000Z", rec.Header().Get("X-RateLimit-Reset-At"))
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
}

func TestRequestIDPropagation(t *testing.T) {
	id := "5f0c6a8e-3a43-4b6e-9f1c-1f5a2b7d9e10"
	rec, _ := do(t, newTestServer(&fakeAnalyzer{}, 5).Handler(), http.MethodGet, "/healthz", map[string]string{"X-Request-ID": id})
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))

	rec, _ = do(t, newTestServer(&fakeAnalyzer{}, 5).Handler(), http.MethodGet, "/healthz", map[string]string{"X-Request-ID": "not a uuid"})
	assert.NotEqual(t, "not a uuid", rec.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(&fakeAnalyzer{}, 5).Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.OK)
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, string) (*portfolio.Analysis, cache.Outcome, error) {
	panic("kaboom")
}

func TestRecoverer(t *testing.T) {
	rec, body := do(t, newTestServer(panicAnalyzer{}, 5).Handler(), http.MethodGet, "/analyze?username=octocat", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "Internal", body.Error.Type)
}

func TestRunShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(&fakeAnalyzer{}, 5).Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
