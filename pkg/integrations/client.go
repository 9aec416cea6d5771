package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/httputil"
	"github.com/matzehuels/devlens/pkg/observability"
)

// Response is a completed upstream call. Cached responses are shared between
// callers and must be treated as read-only.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	Rate   RateInfo
}

// Decode JSON-decodes the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(errors.ErrCodeAPI, err, "malformed upstream response")
	}
	return nil
}

// Client provides shared HTTP functionality for an upstream API.
// It handles caching, retry logic, timeouts and common request headers.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	cache   cache.Cache[*Response]
	keyer   cache.Keyer
	headers map[string]string
	timeout time.Duration
	retries int
	logger  *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the transport. Tests pass httptest server clients.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache enables response caching in store, keyed by keyer.
func WithCache(store cache.Cache[*Response], keyer cache.Keyer) Option {
	return func(c *Client) {
		if store != nil {
			c.cache = store
		}
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithHeaders sets headers applied to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithTimeout sets the default per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many times a transport failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL. name is used in
// user-facing messages ("Failed to reach GitHub API.").
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(),
		cache:   cache.NewNullCache[*Response](),
		keyer:   cache.NewDefaultKeyer(),
		headers: make(map[string]string),
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// request holds per-call settings.
type request struct {
	method  string
	body    any
	headers map[string]string
	timeout time.Duration
	retries int
}

// RequestOption configures one call.
type RequestOption func(*request)

// Method sets the HTTP method. Non-GET requests bypass the cache.
func Method(m string) RequestOption { return func(r *request) { r.method = m } }

// Body sets a JSON request body. Bodied requests bypass the cache.
func Body(v any) RequestOption { return func(r *request) { r.body = v } }

// Header adds a request header.
func Header(k, v string) RequestOption {
	return func(r *request) { r.headers[k] = v }
}

// Timeout overrides the per-attempt deadline.
func Timeout(d time.Duration) RequestOption {
	return func(r *request) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Retries overrides the retry budget.
func Retries(n int) RequestOption {
	return func(r *request) {
		if n >= 0 {
			r.retries = n
		}
	}
}

// Get performs a request and JSON-decodes the body into v.
func (c *Client) Get(ctx context.Context, path string, v any, opts ...RequestOption) (*Response, error) {
	resp, err := c.Do(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	if v != nil {
		if err := resp.Decode(v); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Do performs a request against path, which is either absolute or relative
// to the base URL.
func (c *Client) Do(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	req := request{
		method:  http.MethodGet,
		headers: make(map[string]string),
		timeout: c.timeout,
		retries: c.retries,
	}
	for _, opt := range opts {
		opt(&req)
	}

	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}

	cacheKey := ""
	if req.method == http.MethodGet && req.body == nil {
		cacheKey = c.keyer.ResponseKey(target)
		if resp, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
			return resp, nil
		}
	}

	var resp *Response
	policy := httputil.Policy{
		Attempts: req.retries + 1,
		OnRetry: func(attempt int, err error) {
			c.logger.Debug("retrying upstream call", "api", c.name, "path", path, "attempt", attempt, "error", err)
		},
	}
	err := httputil.Retry(ctx, policy, func(int) error {
		var err error
		resp, err = c.once(ctx, target, &req)
		return err
	})
	if err != nil {
		var retryable *httputil.RetryableError
		if stderrors.As(err, &retryable) {
			err = retryable.Err
		}
		if errors.GetCode(err) == "" {
			// Retry only returns an uncoded error when ctx ended between attempts.
			err = errors.FromContext(err)
		}
		return nil, err
	}

	if cacheKey != "" {
		_ = c.cache.Set(ctx, cacheKey, resp, 0)
	}
	return resp, nil
}

func (c *Client) once(ctx context.Context, target string, req *request) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, req.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	hreq, err := http.NewRequestWithContext(callCtx, req.method, target, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	for k, v := range c.headers {
		hreq.Header.Set(k, v)
	}
	for k, v := range req.headers {
		hreq.Header.Set(k, v)
	}
	if req.body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}

	host, path := hostPath(target)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.method, host, path)
	start := time.Now()

	res, err := c.http.Do(hreq)
	if err != nil {
		err = c.transportError(ctx, callCtx, err)
		hooks.OnError(ctx, req.method, host, path, err)
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		err = c.transportError(ctx, callCtx, err)
		hooks.OnError(ctx, req.method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.method, host, path, res.StatusCode, time.Since(start))

	resp := &Response{
		Status: res.StatusCode,
		Header: res.Header,
		Body:   data,
		Rate:   ParseRateInfo(res.Header),
	}
	if res.StatusCode == http.StatusNoContent {
		resp.Body = nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, c.statusError(resp)
	}
	return resp, nil
}

// transportError classifies a failed round trip. Caller cancellation wins
// over the per-call deadline, which wins over a plain transport failure.
// Only the last is retryable.
func (c *Client) transportError(parent, call context.Context, err error) error {
	if perr := parent.Err(); perr != nil {
		return errors.FromContext(perr)
	}
	if call.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s API request timed out.", c.name)
	}
	return &httputil.RetryableError{
		Err: errors.Wrap(errors.ErrCodeNetwork, err, "Failed to reach %s API.", c.name),
	}
}

func (c *Client) statusError(resp *Response) error {
	msg := upstreamMessage(resp)
	if msg == "" {
		msg = fmt.Sprintf("%s API error (%d)", c.name, resp.Status)
	}

	switch {
	case resp.Status == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg).WithStatus(resp.Status)
	case resp.Status == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "%s", msg).WithStatus(resp.Status)
	case isRateLimited(resp, msg):
		return errors.New(errors.ErrCodeRateLimited, "%s", msg).
			WithStatus(resp.Status).
			WithResetAt(resp.Rate.ResetAt)
	default:
		return errors.New(errors.ErrCodeAPI, "%s", msg).WithStatus(resp.Status)
	}
}

func isRateLimited(resp *Response, msg string) bool {
	if resp.Status == http.StatusTooManyRequests {
		return true
	}
	if resp.Status != http.StatusForbidden {
		return false
	}
	if resp.Rate.Remaining != nil && *resp.Rate.Remaining == 0 {
		return true
	}
	return rateLimitText.MatchString(msg)
}

// upstreamMessage extracts {"message": ...} from JSON bodies, or the trimmed
// text of anything else.
func upstreamMessage(resp *Response) string {
	ct, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "json") {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body, &payload) == nil {
			return strings.TrimSpace(payload.Message)
		}
		return ""
	}
	return strings.TrimSpace(string(resp.Body))
}

func hostPath(target string) (string, string) {
	u, err := url.Parse(target)
	if err != nil {
		return "", target
	}
	return u.Host, u.Path
}
