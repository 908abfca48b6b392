package mock

import (
	"io"

	"newsgrab"
)

var _ newsgrab.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of newsgrab.Exporter.
type Exporter struct {
	ExportFn func(w io.Writer, articles []*newsgrab.StoredArticle) error
}

func (e *Exporter) Export(w io.Writer, articles []*newsgrab.StoredArticle) error {
	return e.ExportFn(w, articles)
}
