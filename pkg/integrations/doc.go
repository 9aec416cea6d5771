// Package integrations provides the shared upstream HTTP client.
//
// # Overview
//
// [Client] wraps one upstream REST API. Service-specific packages (see
// [github]) embed it and add typed calls on top. The client owns:
//
//   - Response caching: bodiless GET responses are cached by URL in a
//     [cache.Cache], with TTL and capacity fixed by the store
//   - Retry: transport failures are retried (once by default); HTTP status
//     errors never are
//   - Per-call timeout: each attempt gets its own deadline, independent of
//     the caller's context
//   - Error classification into [errors.Code] values
//   - Quota headers: x-ratelimit-remaining and x-ratelimit-reset are parsed
//     into [RateInfo] on every response, success or not
//
// # Classification
//
//	404                                   NOT_FOUND
//	401                                   UNAUTHORIZED
//	429, or 403 with quota 0 / rate text  RATE_LIMITED (carries ResetAt)
//	other non-2xx                         API
//	transport failure after retries       NETWORK
//	per-call deadline exceeded            TIMEOUT
//	caller context cancelled              CANCELED
//
// [github]: github.com/matzehuels/devlens/pkg/integrations/github
package integrations
