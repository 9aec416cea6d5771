// Package httputil provides HTTP helpers shared by the upstream client and
// the HTTP front door.
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError].
// The upstream client wraps transport failures (connection refused, resets,
// DNS errors) this way; HTTP status errors are never retryable, so a 401,
// 404 or 429 surfaces immediately:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 2}, func(attempt int) error {
//	    return doRequest(ctx)
//	})
//
// # Client identity
//
// [ClientIP] resolves the caller address used as the rate-limit source,
// preferring proxy headers over the socket address.
package httputil
