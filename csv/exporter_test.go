package csv_test

import (
	"bytes"
	stdcsv "encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgrab"
	csvexport "newsgrab/csv"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes a header and one row per article", func(t *testing.T) {
		t.Parallel()

		date := "2026-08-30"
		created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		articles := []*newsgrab.StoredArticle{
			{
				ID:              1,
				URL:             "https://news.example.com",
				Title:           "First Story",
				Description:     "Something happened",
				PublicationDate: &date,
				CreatedAt:       created,
				UpdatedAt:       created,
			},
			{
				ID:        2,
				URL:       "https://news.example.com",
				Title:     "Second Story",
				CreatedAt: created,
				UpdatedAt: created,
			},
		}

		var buf bytes.Buffer
		require.NoError(t, csvexport.NewExporter().Export(&buf, articles))

		records, err := stdcsv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, []string{"id", "url", "title", "description", "publication_date", "created_at", "updated_at"}, records[0])
		assert.Equal(t, []string{"1", "https://news.example.com", "First Story", "Something happened", "2026-08-30", "2026-08-31T12:00:00Z", "2026-08-31T12:00:00Z"}, records[1])
		assert.Equal(t, "2", records[2][0])
		assert.Equal(t, "", records[2][4], "absent publication date is an empty field")
	})

	t.Run("quotes fields containing commas and newlines", func(t *testing.T) {
		t.Parallel()

		created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		articles := []*newsgrab.StoredArticle{
			{
				ID:          1,
				URL:         "https://news.example.com",
				Title:       `A "quoted", tricky title`,
				Description: "line one\nline two",
				CreatedAt:   created,
				UpdatedAt:   created,
			},
		}

		var buf bytes.Buffer
		require.NoError(t, csvexport.NewExporter().Export(&buf, articles))

		records, err := stdcsv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, `A "quoted", tricky title`, records[1][2])
		assert.Equal(t, "line one\nline two", records[1][3])
	})

	t.Run("returns EINVALID for an empty export", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csvexport.NewExporter().Export(&buf, nil)
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
		assert.Zero(t, buf.Len(), "nothing is written on failure")
	})
}
