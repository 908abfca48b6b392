package mock

import (
	"context"

	"newsgrab"
)

var _ newsgrab.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of newsgrab.ArticleService.
type ArticleService struct {
	UpsertArticlesFn      func(ctx context.Context, sourceURL string, articles []*newsgrab.Article) (int, error)
	FindArticlesFn        func(ctx context.Context, filter newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error)
	CountArticlesFn       func(ctx context.Context, filter newsgrab.ArticleFilter) (int, error)
	DeleteArticlesByURLFn func(ctx context.Context, sourceURL string) (int, error)
	DeleteAllArticlesFn   func(ctx context.Context) (int, error)
}

func (s *ArticleService) UpsertArticles(ctx context.Context, sourceURL string, articles []*newsgrab.Article) (int, error) {
	return s.UpsertArticlesFn(ctx, sourceURL, articles)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) CountArticles(ctx context.Context, filter newsgrab.ArticleFilter) (int, error) {
	return s.CountArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticlesByURL(ctx context.Context, sourceURL string) (int, error) {
	return s.DeleteArticlesByURLFn(ctx, sourceURL)
}

func (s *ArticleService) DeleteAllArticles(ctx context.Context) (int, error) {
	return s.DeleteAllArticlesFn(ctx)
}
