package main_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgrab"
	main "newsgrab/cmd/newsgrab"
	csvexport "newsgrab/csv"
	"newsgrab/mock"
)

func storedArticles() []*newsgrab.StoredArticle {
	created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return []*newsgrab.StoredArticle{
		{ID: 1, URL: "https://news.example.com", Title: "Story", CreatedAt: created, UpdatedAt: created},
	}
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes CSV to stdout by default", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error) {
				return storedArticles(), nil
			},
		}

		deps, stdout, _ := newDeps(articles)
		deps.Exporter = csvexport.NewExporter()
		cmd := &main.ExportCmd{Output: "-"}

		require.NoError(t, cmd.Run(deps))
		output := stdout.String()
		assert.Contains(t, output, "id,url,title,description,publication_date,created_at,updated_at")
		assert.Contains(t, output, "Story")
	})

	t.Run("writes CSV to a file when given a path", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error) {
				return storedArticles(), nil
			},
		}

		deps, stdout, _ := newDeps(articles)
		deps.Exporter = csvexport.NewExporter()
		path := filepath.Join(t.TempDir(), "articles.csv")
		cmd := &main.ExportCmd{Output: path}

		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Exported 1 articles")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Story")
	})

	t.Run("empty store fails the export", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ newsgrab.ArticleFilter) ([]*newsgrab.StoredArticle, error) {
				return nil, nil
			},
		}

		deps, _, stderr := newDeps(articles)
		deps.Exporter = &mock.Exporter{
			ExportFn: func(w io.Writer, articles []*newsgrab.StoredArticle) error {
				return newsgrab.Errorf(newsgrab.EINVALID, "no articles to export")
			},
		}
		cmd := &main.ExportCmd{Output: "-"}

		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no articles to export")
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(&mock.ArticleService{})
		cmd := &main.DeleteCmd{URL: "https://news.example.com"}

		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes with force", func(t *testing.T) {
		t.Parallel()

		var deletedURL string
		articles := &mock.ArticleService{
			DeleteArticlesByURLFn: func(_ context.Context, sourceURL string) (int, error) {
				deletedURL = sourceURL
				return 3, nil
			},
		}

		deps, stdout, _ := newDeps(articles)
		cmd := &main.DeleteCmd{URL: "https://news.example.com", Force: true}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "https://news.example.com", deletedURL)
		assert.Contains(t, stdout.String(), "Deleted 3 articles")
	})
}

func TestClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(&mock.ArticleService{})
		err := (&main.ClearCmd{}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
	})

	t.Run("clears with force", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			DeleteAllArticlesFn: func(_ context.Context) (int, error) { return 7, nil },
		}

		deps, stdout, _ := newDeps(articles)
		require.NoError(t, (&main.ClearCmd{Force: true}).Run(deps))
		assert.Contains(t, stdout.String(), "Deleted 7 articles")
	})
}
