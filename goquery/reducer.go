// Package goquery provides HTML content reduction for language-model
// prompts using CSS selection over the parsed document.
package goquery

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"newsgrab"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultMaxChars is the default character budget for reduced content.
// Free-tier models handle roughly 100k tokens, which leaves room for a
// large text payload; news front pages carry 10-30+ articles.
const DefaultMaxChars = 80000

// fallbackChars bounds the raw-input fallback used when parsing fails.
const fallbackChars = 20000

// nonContent matches elements that never carry article text.
const nonContent = "script, style, meta, link, noscript, iframe, svg, form, input, button, select, textarea"

// contentSelectors is the ordered list of main-content heuristics;
// the first selector with a match wins.
var contentSelectors = []string{
	"main",
	"div[class*=news]",
	"div[class*=article]",
	"section[class*=news]",
	"div[id*=news]",
	"div[class*=content]",
	"body",
}

// controlChars matches control characters other than newline and tab.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\x{9F}]`)

// Ensure Reducer implements newsgrab.Reducer at compile time.
var _ newsgrab.Reducer = (*Reducer)(nil)

// Reducer shrinks rendered HTML to a budgeted plain-text payload. It strips
// non-content markup, selects the main content subtree by heuristic CSS
// selectors and preserves line-break structure in the extracted text.
type Reducer struct {
	maxChars int
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithMaxChars sets the character budget. Defaults to DefaultMaxChars.
func WithMaxChars(n int) ReducerOption {
	return func(r *Reducer) { r.maxChars = n }
}

// NewReducer creates a new Reducer.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce strips non-content markup and returns budgeted text.
// It never fails: if the HTML cannot be parsed it falls back to truncating
// the raw input.
func (r *Reducer) Reduce(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return truncate(cutAtRune(rawHTML, fallbackChars), r.maxChars)
	}

	doc.Find(nonContent).Remove()

	var sel *goquery.Selection
	for _, selector := range contentSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			sel = s
			break
		}
	}
	if sel == nil {
		sel = doc.Selection
	}

	text := textWithBreaks(sel)
	text = controlChars.ReplaceAllString(text, "")
	text = collapseBlankLines(text)

	return truncate(text, r.maxChars)
}

// textWithBreaks extracts the selection's text with one line per text node,
// mirroring soup-style line-break-preserving extraction.
func textWithBreaks(sel *goquery.Selection) string {
	var lines []string
	for _, node := range sel.Nodes {
		collectText(node, &lines)
	}
	return strings.Join(lines, "\n")
}

// collectText walks the node tree appending trimmed text-node content.
func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*lines = append(*lines, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}

// collapseBlankLines strips each line and drops empty ones.
func collapseBlankLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
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
