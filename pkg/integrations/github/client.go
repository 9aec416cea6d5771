package github

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/matzehuels/devlens/pkg/buildinfo"
	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/integrations"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultGraphQLURL = "https://api.github.com/graphql"

	// APIVersion is sent as X-GitHub-Api-Version on every REST call.
	APIVersion = "2022-11-28"

	// MaxRepoPages bounds the repository listing (100 repositories per page).
	MaxRepoPages = 3
	perPage      = 100
)

// Config configures a [Client]. The zero value talks to api.github.com
// anonymously with the package defaults.
type Config struct {
	Token      string
	BaseURL    string
	GraphQLURL string

	// HTTPClient is the transport for REST and GraphQL calls.
	HTTPClient *http.Client

	// Cache stores successful GET responses. Nil disables caching.
	Cache cache.Cache[*integrations.Response]
	Keyer cache.Keyer

	// Timeout is the per-call deadline. Zero selects integrations.DefaultTimeout.
	Timeout time.Duration
	// Retries is the transport-failure retry budget. Zero selects
	// integrations.DefaultRetries; negative disables retries.
	Retries int

	Logger *log.Logger
}

// Client talks to the GitHub REST and GraphQL APIs on behalf of the
// analysis pipeline.
type Client struct {
	*integrations.Client

	cfg     Config
	graphql *githubv4.Client
	timeout time.Duration
}

// NewClient creates a GitHub client. GraphQL is only available when
// cfg.Token is set.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = DefaultGraphQLURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = integrations.NewHTTPClient()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = integrations.DefaultTimeout
	}

	retries := cfg.Retries
	switch {
	case retries == 0:
		retries = integrations.DefaultRetries
	case retries < 0:
		retries = 0
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": APIVersion,
		"User-Agent":           "devlens/" + buildinfo.Version,
	}
	if cfg.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.Token
	}

	c := &Client{
		Client: integrations.NewClient("GitHub", cfg.BaseURL,
			integrations.WithHTTPClient(cfg.HTTPClient),
			integrations.WithCache(cfg.Cache, cfg.Keyer),
			integrations.WithHeaders(headers),
			integrations.WithTimeout(cfg.Timeout),
			integrations.WithRetries(retries),
			integrations.WithLogger(cfg.Logger),
		),
		cfg:     cfg,
		timeout: cfg.Timeout,
	}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient := &http.Client{
			Transport: &oauth2.Transport{
				Base:   cfg.HTTPClient.Transport,
				Source: ts,
			},
		}
		c.graphql = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
	}
	return c
}

// HasToken reports whether requests carry a credential.
func (c *Client) HasToken() bool { return c.cfg.Token != "" }

// Anonymous returns a credential-less client sharing this client's cache
// under a separate key scope, so anonymous and authenticated responses never
// mix.
func (c *Client) Anonymous() *Client {
	cfg := c.cfg
	cfg.Token = ""
	cfg.Keyer = cache.NewScopedKeyer(cfg.Keyer, "anon:")
	return NewClient(cfg)
}
