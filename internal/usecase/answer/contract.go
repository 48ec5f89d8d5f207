package answer

import (
	"context"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/usecase/query"
	"github.com/geotaxlab/infohub-agent/internal/usecase/retrieval"
)

// ChatClient sends role-tagged messages to the LLM provider. Implementations
// must classify failures into domain.ErrPayloadTooLarge, domain.ErrRateLimited
// or domain.ErrUpstream.
type ChatClient interface {
	Chat(ctx context.Context, messages []domain.Message) (string, error)
}

// Retriever searches, scores and reranks documents for a processed query.
type Retriever interface {
	Retrieve(ctx context.Context, q query.Query) retrieval.Result
}
