// Package pkg provides the core libraries for devlens GitHub portfolio
// analysis.
//
// # Overview
//
// devlens turns the public footprint of a GitHub account into a deterministic
// score report. The pkg directory is organized into four areas:
//
//  1. Collection: [integrations] and [integrations/github] talk to the
//     upstream API with caching, retries, timeouts and error classification
//  2. Orchestration: [pipeline] runs the collectors, the bounded enrichment
//     pool and the scoring stage, with coalescing through [cache]
//  3. Derivation: [scoring] computes metrics and subscores, [insights] turns
//     them into strengths, red flags, suggestions and a roadmap
//  4. Support: [errors], [ratelimit], [observability], [httputil],
//     [portfolio] and [buildinfo]
//
// # Architecture
//
// The data flow of one analysis:
//
//	subject (validated login)
//	         ↓
//	    profile, repositories          [integrations/github]
//	         ↓
//	    enrichment ‖ contributions ‖ pinned
//	         ↓
//	    metrics, subscores, score      [scoring]
//	         ↓
//	    insight lists                  [insights]
//	         ↓
//	    [portfolio.Analysis]
//
// # Quick Start
//
//	client := github.NewClient(github.Config{Token: os.Getenv("GITHUB_TOKEN")})
//	runner := pipeline.NewRunner(client, nil, pipeline.Options{}, logger)
//	analysis, outcome, err := runner.Analyze(ctx, "octocat")
//
// [integrations/github]: github.com/matzehuels/devlens/pkg/integrations/github
package pkg
