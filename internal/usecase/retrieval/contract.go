package retrieval

import (
	"context"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

// SearchPage is one remote search response: the documents returned plus the
// API-reported total hit count.
type SearchPage struct {
	Documents []domain.Document
	Total     int
}

// Searcher issues a single search request against the document API.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) (SearchPage, error)
}
