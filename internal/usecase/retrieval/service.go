// Package retrieval fans search out across query variants, scores the merged
// results by keyword overlap, and reranks them locally.
package retrieval

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/usecase/query"
)

// Result is the outcome of one retrieval pass: ranked documents (at most
// rerankTopK) and the largest API-reported total across variants.
type Result struct {
	Documents []domain.Document
	Total     int
}

// Service retrieves and ranks documents for a processed query.
type Service struct {
	searcher   Searcher
	scorer     *Scorer
	searchTopK int
	rerankTopK int
	logger     *zap.Logger
}

// New creates a retrieval service.
func New(
	searcher Searcher,
	scorer *Scorer,
	searchTopK, rerankTopK int,
	logger *zap.Logger,
) *Service {
	return &Service{
		searcher:   searcher,
		scorer:     scorer,
		searchTopK: searchTopK,
		rerankTopK: rerankTopK,
		logger:     logger,
	}
}

// Retrieve searches every query variant, merges and deduplicates the hits,
// scores them against the keyword set, and returns the reranked top slice.
// A failed variant is logged and contributes nothing; when every variant
// fails (or returns nothing) the result is simply empty, so the caller can
// degrade to general-knowledge answering.
func (s *Service) Retrieve(ctx context.Context, q query.Query) Result {
	pages := s.searchVariants(ctx, q.Variants)

	var (
		merged []domain.Document
		seen   = make(map[string]struct{})
		total  int
	)
	// Merge in variant order so the original query keeps priority;
	// first occurrence of a UUID wins.
	for _, page := range pages {
		if page.Total > total {
			total = page.Total
		}
		for _, doc := range page.Documents {
			if _, dup := seen[doc.UUID]; dup {
				continue
			}
			seen[doc.UUID] = struct{}{}
			merged = append(merged, doc)
		}
	}

	for i := range merged {
		merged[i].Score = s.scorer.Score(q.Keywords, merged[i])
	}

	return Result{
		Documents: Rerank(merged, s.rerankTopK),
		Total:     total,
	}
}

// searchVariants issues one request per variant concurrently. Results come
// back indexed by variant position, so the merge stays deterministic
// regardless of completion order.
func (s *Service) searchVariants(ctx context.Context, variants []string) []SearchPage {
	pages := make([]SearchPage, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			page, err := s.searcher.Search(gctx, variant, s.searchTopK)
			if err != nil {
				// Variant failure is non-fatal: proceed with the rest.
				s.logger.Warn("search variant failed",
					zap.String("variant", variant),
					zap.Error(err),
				)
				return nil
			}
			pages[i] = page
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	return pages
}
