package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"newsgrab"
	"newsgrab/retry"
)

// DefaultRequestTimeout bounds a single chat-completions call.
const DefaultRequestTimeout = 120 * time.Second

// DefaultMaxRetries is the number of full model sweeps attempted before
// giving up on transient failures.
const DefaultMaxRetries = 3

// Ensure Extractor implements newsgrab.Extractor at compile time.
var _ newsgrab.Extractor = (*Extractor)(nil)

// Extractor extracts structured articles from reduced page content by asking
// an OpenRouter-hosted model. Models are tried in order until one returns a
// parseable, non-empty result.
type Extractor struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	models     []string
	maxRetries int
	backoff    retry.BackoffFunc
	referer    string
	appTitle   string
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBaseURL overrides the API root, for tests.
func WithBaseURL(url string) Option {
	return func(e *Extractor) {
		e.baseURL = url
	}
}

// WithModels overrides the model fallback list.
func WithModels(models []string) Option {
	return func(e *Extractor) {
		if len(models) > 0 {
			e.models = models
		}
	}
}

// WithMaxRetries sets how many sweeps over the model list are attempted.
func WithMaxRetries(n int) Option {
	return func(e *Extractor) {
		e.maxRetries = n
	}
}

// WithBackoff overrides the delay between sweeps.
func WithBackoff(b retry.BackoffFunc) Option {
	return func(e *Extractor) {
		e.backoff = b
	}
}

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		e.client = c
	}
}

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor. The API key is validated up front so a
// malformed key fails at startup rather than on the first scrape.
func NewExtractor(apiKey string, opts ...Option) (*Extractor, error) {
	if err := ValidateAPIKey(apiKey); err != nil {
		return nil, err
	}

	e := &Extractor{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		models:     DefaultModels,
		maxRetries: DefaultMaxRetries,
		backoff:    retry.ExponentialBackoff(time.Second, 30*time.Second),
		referer:    "https://github.com/smart-news-aggregator",
		appTitle:   "Smart News Aggregator",
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		e.client = &http.Client{Timeout: DefaultRequestTimeout}
	}

	return e, nil
}

// Extract asks the configured models for the articles present in content.
// A response that parses to zero articles is not an error: the page may
// genuinely carry no news. When every model parses but yields nothing, one
// extra sweep with a more permissive prompt is made before returning empty.
func (e *Extractor) Extract(ctx context.Context, content, sourceURL string) ([]*newsgrab.Article, error) {
	if content == "" {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "content required")
	}
	if sourceURL == "" {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "source URL required")
	}

	policy := retry.Policy{
		MaxAttempts: e.maxRetries,
		Backoff:     e.backoff,
		Retryable:   retryableExtractError,
	}

	var articles []*newsgrab.Article
	err := policy.Do(ctx, func(ctx context.Context) error {
		var sweepErr error
		articles, sweepErr = e.sweep(ctx, systemPrompt, buildUserPrompt(content, sourceURL))
		return sweepErr
	})
	if err != nil {
		return nil, err
	}
	if len(articles) > 0 {
		return articles, nil
	}

	// Every model answered but none produced a usable record. Headline-list
	// pages often need the relaxed prompt, so try it once without retrying.
	// The relaxed sweep is best-effort: a failure here does not undo the
	// successful primary sweep, and the page may simply carry no news.
	fallback, err := e.sweep(ctx, fallbackSystemPrompt, buildFallbackUserPrompt(content))
	if err != nil {
		e.logger.Debug("broadened extraction sweep failed", "url", sourceURL, "error", err)
		return []*newsgrab.Article{}, nil
	}
	return fallback, nil
}

// sweep tries each model in order with the given prompt. It returns the first
// non-empty parse, an empty slice when all models answered without usable
// records, or the last error when every model failed.
func (e *Extractor) sweep(ctx context.Context, system, user string) ([]*newsgrab.Article, error) {
	var lastErr error
	for _, model := range e.models {
		raw, err := e.complete(ctx, model, system, user)
		if err != nil {
			if errors.Is(err, errModelUnavailable) {
				continue
			}
			if newsgrab.ErrorCode(err) == newsgrab.EUNAUTHORIZED {
				return nil, err
			}
			lastErr = err
			continue
		}

		articles, err := ParseArticles(raw)
		if err != nil {
			lastErr = err
			continue
		}
		if len(articles) > 0 {
			return articles, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return []*newsgrab.Article{}, nil
}

// errModelUnavailable marks a 404 from the API: the model is gone, not the
// service, so the sweep moves on without recording an error.
var errModelUnavailable = errors.New("model unavailable")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete issues one chat-completions call and returns the raw assistant
// message content.
func (e *Extractor) complete(ctx context.Context, model, system, user string) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
		MaxTokens:   4000,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	e.setHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return "", newsgrab.Errorf(newsgrab.ETIMEOUT, "OpenRouter request timed out")
		}
		return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "failed to reach OpenRouter: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "failed to read OpenRouter response: %v", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "malformed OpenRouter response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return "", newsgrab.Errorf(newsgrab.EUNPROCESSABLE, "OpenRouter response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func (e *Extractor) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", e.referer)
	req.Header.Set("X-Title", e.appTitle)
}

// classifyStatus maps an API status code to an application error.
// 404 means the model does not exist and the sweep should move on.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return errModelUnavailable
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newsgrab.Errorf(newsgrab.EUNAUTHORIZED, "OpenRouter authentication failed")
	case status == http.StatusTooManyRequests:
		return newsgrab.Errorf(newsgrab.ERATELIMITED, "OpenRouter rate limit exceeded")
	case status >= 500:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "OpenRouter server error: HTTP %d", status)
	default:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "unexpected OpenRouter status: HTTP %d", status)
	}
}

// retryableExtractError reports whether a sweep failure is worth another
// sweep. Unparseable model output counts: completions are sampled, so the
// next sweep may well produce valid JSON. Auth and validation failures
// never recover on retry.
func retryableExtractError(err error) bool {
	switch newsgrab.ErrorCode(err) {
	case newsgrab.ERATELIMITED, newsgrab.ETIMEOUT, newsgrab.EUNAVAILABLE, newsgrab.EUNPROCESSABLE:
		return true
	default:
		return false
	}
}
