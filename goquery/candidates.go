package goquery

import (
	"strings"

	"newsgrab"

	"github.com/PuerkitoBio/goquery"
)

// Candidate-list defaults. Headings shorter than minHeadingLen and anchor
// text shorter than minAnchorLen are menu items and section labels, not
// headlines.
const (
	DefaultMaxCandidates = 40
	minHeadingLen        = 20
	minAnchorLen         = 30
)

// Ensure CandidateReducer implements newsgrab.Reducer at compile time.
var _ newsgrab.Reducer = (*CandidateReducer)(nil)

// CandidateReducer reduces HTML to a bulleted list of headline candidates:
// heading and anchor text above a minimum length, capped at a maximum
// count. It produces far smaller prompts than full-text reduction at the
// cost of dropping article bodies.
type CandidateReducer struct {
	maxCandidates int
	maxChars      int
}

// CandidateOption configures a CandidateReducer.
type CandidateOption func(*CandidateReducer)

// WithMaxCandidates caps the number of extracted candidates.
// Defaults to DefaultMaxCandidates.
func WithMaxCandidates(n int) CandidateOption {
	return func(r *CandidateReducer) { r.maxCandidates = n }
}

// NewCandidateReducer creates a new CandidateReducer.
func NewCandidateReducer(opts ...CandidateOption) *CandidateReducer {
	r := &CandidateReducer{
		maxCandidates: DefaultMaxCandidates,
		maxChars:      DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce extracts headline candidates as "- " bulleted lines.
// It never fails: if the HTML cannot be parsed it falls back to truncating
// the raw input.
func (r *CandidateReducer) Reduce(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return truncate(rawHTML[:min(len(rawHTML), fallbackChars)], r.maxChars)
	}

	doc.Find("script, style, noscript").Remove()

	var candidates []string

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := normalizeSpace(sel.Text()); len(text) > minHeadingLen {
			candidates = append(candidates, text)
		}
		return len(candidates) < r.maxCandidates
	})

	if len(candidates) < r.maxCandidates {
		doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if text := normalizeSpace(sel.Text()); len(text) > minAnchorLen {
				candidates = append(candidates, text)
			}
			return len(candidates) < r.maxCandidates
		})
	}

	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	return truncate(strings.TrimRight(sb.String(), "\n"), r.maxChars)
}

// normalizeSpace trims and collapses internal whitespace to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
