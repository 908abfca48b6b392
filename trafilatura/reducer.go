// Package trafilatura provides a boilerplate-removing implementation of
// newsgrab.Reducer: go-trafilatura selects the main content subtree, which
// is then rendered to markdown text within the character budget.
package trafilatura

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"newsgrab"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// DefaultMaxChars is the default character budget for reduced content.
const DefaultMaxChars = 80000

// fallbackChars bounds the raw-input fallback used when extraction fails.
const fallbackChars = 20000

// Ensure Reducer implements newsgrab.Reducer at compile time.
var _ newsgrab.Reducer = (*Reducer)(nil)

// Reducer reduces HTML using trafilatura's main-content extraction. It
// produces markdown rather than flat text, which keeps headline/paragraph
// structure visible to the model at a small markup cost.
type Reducer struct {
	maxChars int
	conv     *converter.Converter
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithMaxChars sets the character budget. Defaults to DefaultMaxChars.
func WithMaxChars(n int) ReducerOption {
	return func(r *Reducer) { r.maxChars = n }
}

// NewReducer creates a new Reducer.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{
		maxChars: DefaultMaxChars,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce extracts the main content and returns budgeted markdown text.
// It never fails: any extraction or conversion error falls back to
// truncating the raw input.
func (r *Reducer) Reduce(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result.ContentNode == nil {
		return r.fallback(rawHTML)
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return r.fallback(rawHTML)
	}

	markdown, err := r.conv.ConvertString(contentHTML)
	if err != nil {
		return r.fallback(rawHTML)
	}

	return truncate(strings.TrimSpace(markdown), r.maxChars)
}

// fallback truncates the raw input when extraction cannot run.
func (r *Reducer) fallback(rawHTML string) string {
	return truncate(cutAtRune(rawHTML, fallbackChars), r.maxChars)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncate enforces the character budget, appending an explicit marker so
// the extraction step knows content was cut.
func truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return cutAtRune(text, maxChars) + fmt.Sprintf("\n\n[Content truncated - showing first %d characters]", maxChars)
}

// cutAtRune slices text to at most n bytes without splitting a UTF-8 rune.
func cutAtRune(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
