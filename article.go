package newsgrab

import (
	"context"
	"strings"
	"time"
)

// Article represents a single news article extracted from a page.
// It is the transient form produced by an Extractor; the source URL is
// supplied by the caller at persistence time, not carried on the record.
type Article struct {
	// Title is the headline. It is the only required field.
	Title string `json:"title"`

	// Description is a brief summary. May be empty.
	Description string `json:"description"`

	// PublicationDate is free-form text, not validated as a calendar date.
	// nil means the date was absent, which is distinct from an empty string.
	PublicationDate *string `json:"publicationDate"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return Errorf(EINVALID, "article title required")
	}
	return nil
}

// StoredArticle is the persisted form of an Article.
type StoredArticle struct {
	ID              int64     `json:"id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublicationDate *string   `json:"publicationDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ArticleFilter represents a filter for FindArticles and CountArticles.
type ArticleFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleService represents a service for persisting and querying articles.
//
// The pair (url, title) is the natural key: the store never holds two rows
// with the same pair, and a later upsert for an existing pair updates the
// description, publication date and updated_at in place.
type ArticleService interface {
	// UpsertArticles inserts or updates each article under the key
	// (sourceURL, title) and returns the number of rows written. Articles
	// with an empty title after trimming are skipped without failing the
	// call. Returns EINVALID if sourceURL is empty.
	UpsertArticles(ctx context.Context, sourceURL string, articles []*Article) (int, error)

	// FindArticles retrieves articles matching the filter, most recent first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*StoredArticle, error)

	// CountArticles returns the number of stored articles matching the filter.
	CountArticles(ctx context.Context, filter ArticleFilter) (int, error)

	// DeleteArticlesByURL removes all articles for a source URL and returns
	// the number of rows removed. Returns EINVALID if sourceURL is empty.
	DeleteArticlesByURL(ctx context.Context, sourceURL string) (int, error)

	// DeleteAllArticles removes every stored article and returns the number
	// of rows removed.
	DeleteAllArticles(ctx context.Context) (int, error)
}
