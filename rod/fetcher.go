// Package rod provides a stealth browser-based implementation of
// newsgrab.Fetcher on top of go-rod headless Chrome.
package rod

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"newsgrab"
	"newsgrab/retry"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Defaults for fetch behavior.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxRetries   = 3
	defaultIdleWait     = 10 * time.Second
)

// Ensure Fetcher implements newsgrab.Fetcher at compile time.
var _ newsgrab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome with anti-bot
// evasion: user-agent rotation, fingerprint masking, humanlike delays and
// a lazy-load scroll pass. Each fetch runs in a fresh incognito browsing
// context that is disposed when the attempt finishes.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	retries int
	backoff retry.BackoffFunc

	preNavMin  time.Duration
	preNavMax  time.Duration
	settleMin  time.Duration
	settleMax  time.Duration
	scrollWait time.Duration

	// navigate performs one fetch attempt. Overridden in tests.
	navigate func(ctx context.Context, url string) (string, error)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt navigation timeout.
// Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxRetries sets the total number of fetch attempts.
// Defaults to DefaultMaxRetries.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) { f.retries = n }
}

// WithBackoff overrides the backoff schedule between attempts.
// Defaults to exponential backoff capped at 30s with jitter.
func WithBackoff(b retry.BackoffFunc) Option {
	return func(f *Fetcher) { f.backoff = b }
}

// WithHumanDelays overrides the humanlike delays before navigation and
// before the final snapshot. Useful to shorten test runs.
func WithHumanDelays(preNavMin, preNavMax, settleMin, settleMax time.Duration) Option {
	return func(f *Fetcher) {
		f.preNavMin, f.preNavMax = preNavMin, preNavMax
		f.settleMin, f.settleMax = settleMin, settleMax
	}
}

// NewFetcher creates a new Fetcher backed by the given BrowserManager.
// Close must be called when the Fetcher is no longer needed; it releases
// the manager's browser.
func NewFetcher(manager *BrowserManager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager:    manager,
		timeout:    DefaultFetchTimeout,
		retries:    DefaultMaxRetries,
		backoff:    retry.ExponentialBackoff(time.Second, 30*time.Second),
		preNavMin:  500 * time.Millisecond,
		preNavMax:  1500 * time.Millisecond,
		settleMin:  3 * time.Second,
		settleMax:  5 * time.Second,
		scrollWait: time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.navigate = f.fetchOnce
	return f
}

// Fetch navigates to the URL and returns the rendered HTML, retrying
// transient failures with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "invalid URL %q: http or https scheme required", url)
	}

	policy := retry.Policy{
		MaxAttempts: f.retries,
		Backoff:     f.backoff,
		Retryable:   retryableFetchError,
	}

	var html string
	var attempts int
	err := policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		h, err := f.navigate(ctx, url)
		if err != nil {
			return err
		}
		html = h
		return nil
	})
	if err != nil {
		return "", terminalFetchError(url, attempts, err)
	}

	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// fetchOnce performs a single fetch attempt in a fresh incognito context.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser := f.manager.Browser()

	incognito, err := browser.Incognito()
	if err != nil {
		return "", fmt.Errorf("creating browsing context: %w", err)
	}
	defer func() {
		// The incognito context holds cookies and storage for this fetch
		// only; dispose it so state never leaks across calls.
		_ = proto.TargetDisposeBrowserContext{
			BrowserContextID: incognito.BrowserContextID,
		}.Call(browser)
	}()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()
	page = page.Context(attemptCtx)

	if err := f.preparePage(page); err != nil {
		return "", err
	}

	if err := sleepRandom(attemptCtx, f.preNavMin, f.preNavMax); err != nil {
		return "", err
	}

	status, err := f.navigatePage(page, url)
	if err != nil {
		return "", err
	}
	if err := ClassifyStatus(status); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	if DetectBotChallenge(html) {
		return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "anti-bot challenge served instead of content")
	}

	// Give lazy-loaded content a chance to land before the final snapshot.
	if err := sleepRandom(attemptCtx, f.settleMin, f.settleMax); err != nil {
		return "", err
	}
	f.scrollPage(attemptCtx, page)

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading final page content: %w", err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// preparePage configures the page to minimize automation fingerprints.
func (f *Fetcher) preparePage(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      randomUserAgent(),
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return fmt.Errorf("setting user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("setting viewport: %w", err)
	}

	if err := (proto.EmulationSetLocaleOverride{Locale: "en-US"}).Call(page); err != nil {
		return fmt.Errorf("setting locale: %w", err)
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: "America/New_York"}).Call(page); err != nil {
		return fmt.Errorf("setting timezone: %w", err)
	}

	if _, err := page.SetExtraHeaders(extraHeaders); err != nil {
		return fmt.Errorf("setting headers: %w", err)
	}

	if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
		return fmt.Errorf("installing stealth script: %w", err)
	}

	return nil
}

// navigatePage navigates to the URL and returns the document response
// status. It waits for the network to settle and falls back to the weaker
// load event when the page keeps making requests past the deadline.
func (f *Fetcher) navigatePage(page *rod.Page, url string) (int, error) {
	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			status = e.Response.Status
			return true
		}
		return false
	})

	if err := page.Navigate(url); err != nil {
		return 0, newsgrab.Errorf(newsgrab.EUNAVAILABLE, "navigation failed: %s", err)
	}
	waitResponse()

	if err := page.Timeout(defaultIdleWait).WaitIdle(defaultIdleWait); err != nil {
		if err := page.WaitLoad(); err != nil {
			return 0, fmt.Errorf("waiting for page load: %w", err)
		}
	}

	return status, nil
}

// scrollPage performs a partial then full scroll with pauses to trigger
// lazy-loaded content. Scroll failures are ignored; some pages have no
// scrollable body.
func (f *Fetcher) scrollPage(ctx context.Context, page *rod.Page) {
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight / 2)`); err != nil {
		return
	}
	_ = sleepRandom(ctx, f.scrollWait, f.scrollWait)
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return
	}
	_ = sleepRandom(ctx, f.scrollWait, f.scrollWait)
}

// sleepRandom sleeps a random duration in [min, max], honoring cancellation.
func sleepRandom(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// retryableFetchError reports whether a fetch attempt failure is worth
// another attempt. Caller cancellation and invalid input are not.
func retryableFetchError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch newsgrab.ErrorCode(err) {
	case newsgrab.EINVALID, newsgrab.EUNAUTHORIZED:
		return false
	}
	return true
}

// terminalFetchError converts the last attempt error into the terminal
// error reported after retry exhaustion, carrying the URL and attempt count.
func terminalFetchError(url string, attempts int, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || newsgrab.ErrorCode(err) == newsgrab.ETIMEOUT {
		return newsgrab.Errorf(newsgrab.ETIMEOUT, "fetch %s timed out after %d attempts", url, attempts)
	}
	reason := err.Error()
	if msg := newsgrab.ErrorMessage(err); msg != "Internal error." {
		reason = msg
	}
	return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "fetch %s failed after %d attempts: %s", url, attempts, reason)
}
