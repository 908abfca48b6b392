package mock

import (
	"context"

	"newsgrab"
)

var _ newsgrab.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsgrab.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, content, sourceURL string) ([]*newsgrab.Article, error)
}

func (e *Extractor) Extract(ctx context.Context, content, sourceURL string) ([]*newsgrab.Article, error) {
	return e.ExtractFn(ctx, content, sourceURL)
}
