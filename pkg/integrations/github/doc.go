// Package github collects the public signals devlens scores from the GitHub
// REST and GraphQL APIs.
//
// # Overview
//
// [Client] wraps the shared [integrations.Client], so every REST call gets
// the per-call timeout, the single transport retry, the URL-keyed response
// cache and the error classification (NOT_FOUND, UNAUTHORIZED, RATE_LIMITED,
// NETWORK, API, TIMEOUT, CANCELED) for free.
//
//	client := github.NewClient(github.Config{Token: os.Getenv("GITHUB_TOKEN")})
//
//	login, err := github.ParseSubject("https://github.com/Octocat")
//	profile, err := client.Profile(ctx, login)
//	repos, err := client.Repositories(ctx, login, github.MaxRepoPages)
//
// # Collectors
//
//   - [Client.Profile]: /users/{login}
//   - [Client.Repositories]: owner repositories, sorted by update, 100 per page
//   - [Client.Languages] and [Client.HasReadme]: per-repository enrichment
//   - [Client.Contributions]: authored PR and issue counts from issue search
//   - [Client.Pinned]: pinned repositories over GraphQL (token required)
//
// # Authentication
//
// A token is optional for REST. Without one GitHub allows 60 requests per
// hour. GraphQL always needs a token; it is attached with an oauth2 static
// token transport. [Client.Anonymous] derives a credential-less client whose
// cache entries are scoped apart from the authenticated ones.
package github
