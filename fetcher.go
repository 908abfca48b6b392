package newsgrab

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content and to absorb transient failures with retry.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	//
	// The URL must have an http or https scheme; anything else returns
	// EINVALID without a network round trip. Transient failures (timeouts,
	// retryable HTTP statuses, anti-bot challenges) are retried internally;
	// after retry exhaustion Fetch returns ETIMEOUT if the last failure was
	// a timeout and EUNAVAILABLE otherwise, with the URL and attempt count
	// in the message. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter rate-limits outbound requests per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	Wait(ctx context.Context, domain string) error
}
