package retrieval

import (
	"sort"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

// Rerank orders documents by score descending and truncates to topK.
// The sort is stable: ties keep the merged API order, so identical inputs
// always produce identical output.
func Rerank(docs []domain.Document, topK int) []domain.Document {
	ranked := make([]domain.Document, len(docs))
	copy(ranked, docs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
