package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devlens/internal/config"
	"github.com/matzehuels/devlens/pkg/buildinfo"
	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/integrations"
	"github.com/matzehuels/devlens/pkg/integrations/github"
	"github.com/matzehuels/devlens/pkg/observability"
	"github.com/matzehuels/devlens/pkg/pipeline"
	"github.com/matzehuels/devlens/pkg/portfolio"
)

// appName is the application name used for display and completion help.
const appName = "devlens"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "devlens scores public GitHub portfolios",
		Long: `devlens collects public signals about a GitHub account, enriches its most
important repositories and reduces everything into a deterministic score
report with strengths, red flags and an improvement roadmap.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file (default $DEVLENS_CONFIG)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner wires the GitHub client, its response cache and the analysis
// result cache into a pipeline runner.
func newRunner(cfg *config.Config, opts pipeline.Options, logger *log.Logger) (*pipeline.Runner, error) {
	responses, err := cache.NewMemory[*integrations.Response](
		cfg.ResponseCacheSize, cfg.ResponseCacheTTL(), cache.WithKeyType("response"))
	if err != nil {
		return nil, err
	}
	analyses, err := cache.NewMemory[*portfolio.Analysis](
		cfg.AnalysisCacheSize, cfg.AnalysisCacheTTL(), cache.WithKeyType("analysis"))
	if err != nil {
		return nil, err
	}

	client := github.NewClient(github.Config{
		Token:   cfg.GitHubToken,
		BaseURL: cfg.GitHubAPIURL,
		Cache:   responses,
		Keyer:   cache.NewDefaultKeyer(),
		Timeout: cfg.RequestTimeout(),
		Logger:  logger,
	})

	results := cache.NewCoalescer[*portfolio.Analysis](analyses, cfg.AnalysisCacheTTL(), "analysis")
	r := pipeline.NewRunner(client, results, opts, logger)
	if cfg.AnonymousFallback && client.HasToken() {
		r.Anonymous = client.Anonymous()
	}
	return r, nil
}

// registerHooks routes library events to logger.
func registerHooks(logger *log.Logger) {
	observability.NewLogHooks(logger).Register()
}
