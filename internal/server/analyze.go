package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/httputil"
	"github.com/matzehuels/devlens/pkg/integrations/github"
	"github.com/matzehuels/devlens/pkg/ratelimit"
)

type envelope struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	ResetAt *string `json:"resetAt,omitempty"`
}

var internalError = apiError{Type: "Internal", Message: "Unexpected server error while analyzing profile."}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d := s.limiter.Decide(ctx, httputil.ClientIP(r))
	resetAt := isoTime(d.ResetAt)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Max))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining()))
	h.Set("X-RateLimit-Reset-At", resetAt)
	if !d.Allowed {
		h.Set("Retry-After", strconv.Itoa(d.RetryAfter(s.now())))
		writeError(w, http.StatusTooManyRequests, apiError{
			Type: "RateLimited", Message: "Too many requests. Please retry later.", ResetAt: &resetAt,
		})
		return
	}

	subject, err := github.ParseSubject(r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, http.StatusBadRequest, apiError{Type: "Validation", Message: errors.UserMessage(err)})
		return
	}

	analysis, outcome, err := s.analyzer.Analyze(ctx, subject)
	if err != nil {
		if errors.IsCanceled(err) && ctx.Err() != nil {
			s.logger.Debug("client went away", "subject", subject, "request_id", requestIDFrom(ctx))
			return
		}
		s.writeAnalysisError(w, r, subject, err)
		return
	}

	h.Set("X-Cache", string(outcome))
	h.Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, envelope{OK: true, Data: analysis})
}

// writeAnalysisError renders a pipeline failure. The credential is always
// the server's own, so UNAUTHORIZED maps to 503.
func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, subject string, err error) {
	status := errors.HTTPStatus(err, false)
	body := internalError

	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		body = apiError{Type: "NotFound", Message: "GitHub profile not found."}
	case errors.ErrCodeRateLimited:
		body = apiError{Type: "RateLimited", Message: "GitHub upstream API rate limit reached. Retry shortly."}
		if t := errors.ResetAt(err); t != nil {
			reset := isoTime(*t)
			body.ResetAt = &reset
			w.Header().Set("X-RateLimit-Reset-At", reset)
			w.Header().Set("Retry-After", strconv.Itoa(ratelimit.Decision{ResetAt: *t}.RetryAfter(s.now())))
		}
	case errors.ErrCodeUnauthorized:
		body = apiError{Type: "Unauthorized", Message: "Server GitHub token is invalid or missing in deployment configuration."}
	case errors.ErrCodeNetwork:
		body = apiError{Type: "Network", Message: "Network error while fetching GitHub data."}
	case errors.ErrCodeTimeout:
		body = apiError{Type: "Timeout", Message: "GitHub request timed out."}
	case errors.ErrCodeAPI:
		msg := errors.UserMessage(err)
		if msg == "" {
			msg = "GitHub API request failed."
		}
		body = apiError{Type: "Upstream", Message: msg}
	}

	logFn := s.logger.Warn
	if status >= http.StatusInternalServerError && body.Type == internalError.Type {
		logFn = s.logger.Error
	}
	logFn("analysis failed", "subject", subject, "status", status, "err", err, "request_id", requestIDFrom(r.Context()))
	writeError(w, status, body)
}

func writeError(w http.ResponseWriter, status int, e apiError) {
	writeJSON(w, status, envelope{OK: false, Error: &e})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isoTime formats t like JavaScript's Date.toISOString.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
