// Package csv writes stored articles as headered UTF-8 CSV.
package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"newsgrab"
)

// header is the column order the export has always used.
var header = []string{"id", "url", "title", "description", "publication_date", "created_at", "updated_at"}

// Ensure Exporter implements newsgrab.Exporter at compile time.
var _ newsgrab.Exporter = (*Exporter)(nil)

// Exporter writes articles in CSV form.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes articles to w with a header row. An absent publication date
// is written as an empty field.
func (e *Exporter) Export(w io.Writer, articles []*newsgrab.StoredArticle) error {
	if len(articles) == 0 {
		return newsgrab.Errorf(newsgrab.EINVALID, "no articles to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, a := range articles {
		pubDate := ""
		if a.PublicationDate != nil {
			pubDate = *a.PublicationDate
		}
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.URL,
			a.Title,
			a.Description,
			pubDate,
			a.CreatedAt.UTC().Format(time.RFC3339),
			a.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
