package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/errors"
	"github.com/matzehuels/devlens/pkg/integrations/github"
	"github.com/matzehuels/devlens/pkg/pipeline"
	"github.com/matzehuels/devlens/pkg/portfolio"
)

type analyzeOpts struct {
	json     bool
	browse   bool
	pipeline pipeline.Options
}

// analyzeCommand creates the one-shot analysis command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <username|profile-url>",
		Short: "Analyze a GitHub profile",
		Long: `Analyze collects the profile, repositories and contribution counts of a
GitHub account and prints the score report.

The subject may be a username, @username, github.com/<user> or a full
profile URL.`,
		Example: `  devlens analyze octocat
  devlens analyze https://github.com/torvalds --json
  devlens analyze @sindresorhus --browse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse ranked repositories interactively after the report")
	cmd.Flags().IntVar(&opts.pipeline.MaxRepoPages, "max-pages", pipeline.DefaultMaxRepoPages, "repository pages to list (100 per page)")
	cmd.Flags().IntVar(&opts.pipeline.MaxDeepRepos, "max-deep", pipeline.DefaultMaxDeepRepos, "repositories to inspect for languages and README")
	cmd.Flags().IntVar(&opts.pipeline.Workers, "workers", pipeline.DefaultWorkers, "concurrent repository inspections")
	cmd.Flags().BoolVar(&opts.pipeline.SkipPinned, "no-pinned", false, "skip the pinned repositories query")
	cmd.MarkFlagsMutuallyExclusive("json", "browse")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, out io.Writer, raw string, opts analyzeOpts) error {
	logger := loggerFromContext(ctx)

	subject, err := github.ParseSubject(raw)
	if err != nil {
		return fmt.Errorf("invalid subject %q: %s", raw, errors.UserMessage(err))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	registerHooks(logger)

	runner, err := newRunner(cfg, opts.pipeline, logger)
	if err != nil {
		return err
	}
	if !runner.Source.HasToken() {
		logger.Warn("GITHUB_TOKEN is not set; anonymous requests are limited to 60 per hour")
	}

	var a *portfolio.Analysis
	if opts.json {
		prog := newProgress(logger)
		a, _, err = runner.Analyze(ctx, subject)
		if err == nil {
			prog.done("Analyzed " + subject)
		}
	} else {
		spinner := newSpinner(ctx, os.Stderr, "Analyzing "+subject+"...")
		restore := trackStages(spinner)
		spinner.Start()
		var outcome cache.Outcome
		a, outcome, err = runner.Analyze(ctx, subject)
		spinner.Stop()
		restore()
		if err == nil {
			printSuccess(os.Stderr, "Analyzed %s %s", subject, StyleDim.Render("("+strings.ToLower(string(outcome))+")"))
		}
	}
	if err != nil {
		return describeError(err)
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	renderReport(out, a)
	if opts.browse {
		_, err := tea.NewProgram(NewRepoBrowserModel(a.RankedRepos, time.Now()), tea.WithContext(ctx)).Run()
		return err
	}
	return nil
}

// describeError turns a pipeline error into a one-line CLI message while
// keeping the chain for errors.Is.
func describeError(err error) error {
	if errors.IsCanceled(err) {
		return err
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return fmt.Errorf("GitHub profile not found: %w", err)
	case errors.ErrCodeRateLimited:
		if t := errors.ResetAt(err); t != nil {
			return fmt.Errorf("GitHub rate limit reached, resets at %s: %w", t.Local().Format(time.Kitchen), err)
		}
		return fmt.Errorf("GitHub rate limit reached: %w", err)
	case errors.ErrCodeUnauthorized:
		return fmt.Errorf("GitHub rejected the token; check GITHUB_TOKEN: %w", err)
	}
	return err
}
