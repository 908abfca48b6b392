package newsgrab

import "io"

// Exporter serializes stored articles for consumption outside the pipeline.
type Exporter interface {
	// Export writes the articles to w. An empty input is EINVALID: the
	// caller is expected to query the store first and treat "nothing to
	// export" as a user-facing condition, not an empty file.
	Export(w io.Writer, articles []*StoredArticle) error
}
