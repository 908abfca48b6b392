package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"newsgrab"
)

// Compile-time interface verification.
var _ newsgrab.ArticleService = (*ArticleService)(nil)

// ArticleService implements newsgrab.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// UpsertArticles inserts or updates articles under the (sourceURL, title) key.
// The batch runs in a single transaction: either every usable article is
// written or none are. Articles with an empty trimmed title are skipped and
// do not count toward the result.
func (s *ArticleService) UpsertArticles(ctx context.Context, sourceURL string, articles []*newsgrab.Article) (int, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return 0, newsgrab.Errorf(newsgrab.EINVALID, "source URL required")
	}
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	saved := 0
	for _, a := range articles {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}

		var pubDate any
		if a.PublicationDate != nil {
			pubDate = *a.PublicationDate
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO articles (url, title, description, publication_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(url, title) DO UPDATE SET
				description = excluded.description,
				publication_date = excluded.publication_date,
				updated_at = excluded.updated_at
		`, sourceURL, title, a.Description, pubDate, now, now)
		if err != nil {
			return 0, err
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return saved, nil
}

// FindArticles retrieves articles matching the filter, most recent first.
func (s *ArticleService) FindArticles(ctx context.Context, filter newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, description, publication_date, created_at, updated_at FROM articles WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at DESC, id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*newsgrab.StoredArticle
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// CountArticles returns the number of stored articles matching the filter.
func (s *ArticleService) CountArticles(ctx context.Context, filter newsgrab.ArticleFilter) (int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT COUNT(*) FROM articles WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteArticlesByURL removes all articles for a source URL.
func (s *ArticleService) DeleteArticlesByURL(ctx context.Context, sourceURL string) (int, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return 0, newsgrab.Errorf(newsgrab.EINVALID, "source URL required")
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE url = ?", sourceURL)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(removed), nil
}

// DeleteAllArticles removes every stored article.
func (s *ArticleService) DeleteAllArticles(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles")
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(removed), nil
}

// scanArticle reads one row into a StoredArticle.
func scanArticle(rows *sql.Rows) (*newsgrab.StoredArticle, error) {
	var article newsgrab.StoredArticle
	var pubDate sql.NullString
	var createdAt, updatedAt string

	if err := rows.Scan(&article.ID, &article.URL, &article.Title, &article.Description,
		&pubDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if pubDate.Valid {
		article.PublicationDate = &pubDate.String
	}

	var err error
	article.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	article.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}

	return &article, nil
}
