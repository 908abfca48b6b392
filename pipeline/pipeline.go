// Package pipeline coordinates a scrape: fetch a page, reduce it to
// extractable text, ask the extractor for articles, and persist them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newsgrab"
)

// DefaultConcurrency bounds how many URLs are processed at once by RunAll.
const DefaultConcurrency = 4

// Pipeline orchestrates scraping news pages into the article store.
type Pipeline struct {
	Fetcher     newsgrab.Fetcher
	Reducer     newsgrab.Reducer
	Extractor   newsgrab.Extractor
	Articles    newsgrab.ArticleService
	RateLimiter newsgrab.DomainLimiter
	Logger      *slog.Logger
	Concurrency int
}

// Result holds the outcome of scraping a single URL.
type Result struct {
	RunID     string
	URL       string
	Extracted int
	Saved     int
	Duration  time.Duration
	Err       error
}

// Run scrapes one URL end to end. A fetch failure aborts the run before the
// store is touched. An extraction that finds no articles is a successful run
// with zero saves.
func (p *Pipeline) Run(ctx context.Context, pageURL string) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID: uuid.New().String(),
		URL:   pageURL,
	}
	logger := p.logger().With("run_id", result.RunID, "url", pageURL)

	domain, err := hostOf(pageURL)
	if err != nil {
		return nil, err
	}

	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx, domain); err != nil {
			return nil, err
		}
	}

	html, err := p.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Error("fetch failed", "err", err)
		return nil, err
	}
	logger.Debug("fetched page",
		"bytes", len(html),
		"fingerprint", fmt.Sprintf("%016x", xxhash.Sum64String(html)))

	reduced := p.Reducer.Reduce(html)
	logger.Debug("reduced content", "bytes", len(reduced))

	articles, err := p.Extractor.Extract(ctx, reduced, pageURL)
	if err != nil {
		logger.Error("extraction failed", "err", err)
		return nil, err
	}
	result.Extracted = len(articles)

	if len(articles) > 0 {
		saved, err := p.Articles.UpsertArticles(ctx, pageURL, articles)
		if err != nil {
			logger.Error("save failed", "err", err)
			return nil, err
		}
		result.Saved = saved
	} else {
		logger.Info("no articles found")
	}

	result.Duration = time.Since(start)
	logger.Info("scrape complete",
		"extracted", result.Extracted,
		"saved", result.Saved,
		"duration", result.Duration)

	return result, nil
}

// RunAll scrapes several URLs concurrently. Results come back in input order
// with per-URL failures recorded on Result.Err rather than aborting the
// whole batch. The returned error is reserved for context cancellation.
func (p *Pipeline) RunAll(ctx context.Context, urls []string) ([]*Result, error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			result, err := p.Run(gctx, u)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				result = &Result{URL: u, Err: err}
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// hostOf extracts the host for rate limiting purposes.
func hostOf(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "invalid URL %q", pageURL)
	}
	return u.Host, nil
}
