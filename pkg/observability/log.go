package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level records to
// a charmbracelet logger. Failures and rate-limit rejections log at warn.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetRateLimitHooks(h)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage, subject string) {
	h.Logger.Debug("stage start", "stage", stage, "subject", subject)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage, subject string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("stage failed", "stage", stage, "subject", subject, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("stage done", "stage", stage, "subject", subject, "duration", d)
}

func (h *LogHooks) OnPartialFailure(_ context.Context, subject, repo, kind string, err error) {
	h.Logger.Debug("enrichment call failed", "subject", subject, "repo", repo, "kind", kind, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnCoalesced(_ context.Context, keyType string) {
	h.Logger.Debug("joined in-flight run", "type", keyType)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("upstream request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("upstream response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("upstream error", "method", method, "path", path, "error", err)
}

func (h *LogHooks) OnDecision(_ context.Context, source string, allowed bool, count int) {
	if !allowed {
		h.Logger.Warn("rate limited", "source", source, "count", count)
	}
}

func (h *LogHooks) OnStoreError(_ context.Context, err error) {
	h.Logger.Warn("rate-limit store unavailable, using local counters", "error", err)
}

var (
	_ PipelineHooks  = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
	_ HTTPHooks      = (*LogHooks)(nil)
	_ RateLimitHooks = (*LogHooks)(nil)
)
