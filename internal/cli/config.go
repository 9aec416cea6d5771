package cli

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devlens/internal/config"
)

// configCommand prints the resolved configuration.
func (c *CLI) configCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Config resolves defaults, the TOML file, .env and the environment exactly
like analyze and serve do, then prints the result with secrets redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			red := cfg.Redacted()
			if asTOML {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(red)
			}
			printConfig(cmd.OutOrStdout(), &red)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as a TOML file")

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	orUnset := func(s string) string {
		if s == "" {
			return StyleDim.Render("unset")
		}
		return s
	}

	printSection(w, "Server")
	printKeyValue(w, "addr", cfg.Addr)
	printKeyValue(w, "log format", cfg.LogFormat)

	printSection(w, "GitHub")
	printKeyValue(w, "api url", orUnset(cfg.GitHubAPIURL))
	printKeyValue(w, "token", orUnset(cfg.GitHubToken))
	printKeyValue(w, "timeout", cfg.RequestTimeout().String())
	printKeyValue(w, "anon retry", fmt.Sprint(cfg.AnonymousFallback))

	printSection(w, "Caches")
	printKeyValue(w, "responses", fmt.Sprintf("%d entries, %s", cfg.ResponseCacheSize, cfg.ResponseCacheTTL()))
	printKeyValue(w, "analyses", fmt.Sprintf("%d entries, %s", cfg.AnalysisCacheSize, cfg.AnalysisCacheTTL()))

	printSection(w, "Rate limit")
	printKeyValue(w, "window", cfg.RateLimitWindow().String())
	printKeyValue(w, "max requests", fmt.Sprint(cfg.RateLimitMaxRequests))
	store := "memory"
	if cfg.CounterStoreURL() != "" {
		store = "redis"
	}
	printKeyValue(w, "store", store)
	printKeyValue(w, "redis url", orUnset(cfg.RedisURL))
	printKeyValue(w, "kv rest url", orUnset(cfg.KVRestURL))
}
