package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/devlens/internal/server"
	"github.com/matzehuels/devlens/pkg/pipeline"
	"github.com/matzehuels/devlens/pkg/ratelimit"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve exposes GET /analyze?username=<user|url> (also /api/analyze) and
GET /healthz. Requests are rate limited per client IP; counters live in Redis
when REDIS_URL or KV_REST_API_URL/KV_REST_API_TOKEN are set and in memory
otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := newServerLogger(os.Stderr, c.Logger.GetLevel(), cfg.LogFormat)
			registerHooks(logger)

			runner, err := newRunner(cfg, pipeline.Options{}, logger)
			if err != nil {
				return err
			}
			if !runner.Source.HasToken() {
				logger.Warn("GITHUB_TOKEN is not set; upstream quota is 60 requests per hour")
			}

			limits := ratelimit.Config{
				Window:      cfg.RateLimitWindow(),
				MaxRequests: cfg.RateLimitMaxRequests,
			}
			if url := cfg.CounterStoreURL(); url != "" {
				store, err := ratelimit.DialRedis(url)
				if err != nil {
					logger.Warn("rate-limit store unavailable, counting in memory", "err", err)
				} else {
					defer store.Close()
					limits.External = store
					logger.Info("rate-limit counters in redis")
				}
			}

			srv := server.New(runner, ratelimit.New(limits), logger)
			return srv.Run(cmd.Context(), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PORT)")

	return cmd
}
