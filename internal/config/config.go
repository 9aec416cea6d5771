// Package config loads devlens runtime settings.
//
// Sources, lowest precedence first: built-in defaults, an optional TOML file,
// a .env file in the working directory, then the process environment.
// Numeric settings that are missing, malformed or non-positive keep the
// default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the resolved configuration.
type Config struct {
	Addr        string `toml:"addr"`
	GitHubToken string `toml:"github_token"`
	// GitHubAPIURL overrides the REST base URL, for GitHub Enterprise.
	GitHubAPIURL string `toml:"github_api_url"`

	RequestTimeoutMs   int `toml:"request_timeout_ms"`
	ResponseCacheTTLMs int `toml:"response_cache_ttl_ms"`
	ResponseCacheSize  int `toml:"response_cache_size"`
	AnalysisCacheTTLMs int `toml:"analysis_cache_ttl_ms"`
	AnalysisCacheSize  int `toml:"analysis_cache_size"`

	RateLimitWindowMs    int `toml:"rate_limit_window_ms"`
	RateLimitMaxRequests int `toml:"rate_limit_max_requests"`

	RedisURL    string `toml:"redis_url"`
	KVRestURL   string `toml:"kv_rest_api_url"`
	KVRestToken string `toml:"kv_rest_api_token"`

	LogFormat         string `toml:"log_format"`
	AnonymousFallback bool   `toml:"anonymous_fallback"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:                 ":8080",
		RequestTimeoutMs:     10_000,
		ResponseCacheTTLMs:   120_000,
		ResponseCacheSize:    500,
		AnalysisCacheTTLMs:   300_000,
		AnalysisCacheSize:    300,
		RateLimitWindowMs:    60_000,
		RateLimitMaxRequests: 30,
		LogFormat:            "text",
	}
}

// Load resolves the configuration. path names an optional TOML file; when
// empty, DEVLENS_CONFIG is consulted.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("DEVLENS_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if strings.Contains(port, ":") {
			c.Addr = port
		} else {
			c.Addr = ":" + port
		}
	}
	setString(&c.GitHubToken, "GITHUB_TOKEN")
	setString(&c.GitHubAPIURL, "GITHUB_API_URL")
	setInt(&c.RequestTimeoutMs, "GITHUB_REQUEST_TIMEOUT_MS")
	setInt(&c.ResponseCacheTTLMs, "GITHUB_CACHE_TTL_MS")
	setInt(&c.AnalysisCacheTTLMs, "ANALYSIS_CACHE_TTL_MS")
	setInt(&c.RateLimitWindowMs, "RATE_LIMIT_WINDOW_MS")
	setInt(&c.RateLimitMaxRequests, "RATE_LIMIT_MAX_REQUESTS")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.KVRestURL, "KV_REST_API_URL")
	setString(&c.KVRestToken, "KV_REST_API_TOKEN")
	setString(&c.LogFormat, "DEVLENS_LOG_FORMAT")
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("DEVLENS_ANONYMOUS_FALLBACK"))); err == nil {
		c.AnonymousFallback = v
	}
}

func (c *Config) normalize() {
	d := Default()
	positive(&c.RequestTimeoutMs, d.RequestTimeoutMs)
	positive(&c.ResponseCacheTTLMs, d.ResponseCacheTTLMs)
	positive(&c.ResponseCacheSize, d.ResponseCacheSize)
	positive(&c.AnalysisCacheTTLMs, d.AnalysisCacheTTLMs)
	positive(&c.AnalysisCacheSize, d.AnalysisCacheSize)
	positive(&c.RateLimitWindowMs, d.RateLimitWindowMs)
	positive(&c.RateLimitMaxRequests, d.RateLimitMaxRequests)
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		*dst = n
	}
}

func positive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// RequestTimeout is the per-call upstream deadline.
func (c *Config) RequestTimeout() time.Duration { return ms(c.RequestTimeoutMs) }

// ResponseCacheTTL is the upstream response cache lifetime.
func (c *Config) ResponseCacheTTL() time.Duration { return ms(c.ResponseCacheTTLMs) }

// AnalysisCacheTTL is the result cache lifetime.
func (c *Config) AnalysisCacheTTL() time.Duration { return ms(c.AnalysisCacheTTLMs) }

// RateLimitWindow is the fixed admission window.
func (c *Config) RateLimitWindow() time.Duration { return ms(c.RateLimitWindowMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// CounterStoreURL returns the Redis URL for rate-limit counters, or "" when
// none is configured. REDIS_URL wins; otherwise a KV REST endpoint and token
// are turned into the equivalent TLS Redis URL on port 6379.
func (c *Config) CounterStoreURL() string {
	if c.RedisURL != "" {
		return c.RedisURL
	}
	if c.KVRestURL == "" || c.KVRestToken == "" {
		return ""
	}
	u, err := url.Parse(c.KVRestURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return (&url.URL{
		Scheme: "rediss",
		User:   url.UserPassword("default", c.KVRestToken),
		Host:   u.Hostname() + ":6379",
	}).String()
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	r := *c
	if r.GitHubToken != "" {
		r.GitHubToken = "***"
	}
	if r.KVRestToken != "" {
		r.KVRestToken = "***"
	}
	if u, err := url.Parse(r.RedisURL); err == nil && u.User != nil {
		u.User = url.User(u.User.Username())
		r.RedisURL = u.String()
	}
	return r
}
