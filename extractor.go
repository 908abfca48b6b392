package newsgrab

import "context"

// Extractor turns reduced page content into structured article records
// using a hosted language model.
type Extractor interface {
	// Extract sends the content to a completion endpoint and parses the
	// response into articles. The source URL is included in the prompt for
	// context only.
	//
	// A valid response containing zero articles is not an error: Extract
	// returns an empty slice. An error is returned only after every
	// model and retry attempt has been exhausted without a parseable
	// response (EUNAUTHORIZED is surfaced immediately, without retry).
	Extract(ctx context.Context, content, sourceURL string) ([]*Article, error)
}
