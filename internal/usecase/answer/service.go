// Package answer orchestrates the full question pipeline: normalize, expand,
// search, score, rerank, pack, generate.
package answer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
	"github.com/geotaxlab/infohub-agent/internal/usecase/contextpack"
	"github.com/geotaxlab/infohub-agent/internal/usecase/query"
)

// previewRunes bounds the description preview attached to each cited source.
const previewRunes = 200

// Service answers questions end to end. Each Ask call owns its own pipeline
// state; nothing is shared across concurrent requests.
type Service struct {
	processor  *query.Processor
	retriever  Retriever
	packer     *contextpack.Packer
	chat       ChatClient
	maxRetries int
	sleep      sleeper
	logger     *zap.Logger
}

// New creates the pipeline service. maxRetries is the per-failure-class
// retry budget of the generation state machine.
func New(
	processor *query.Processor,
	retriever Retriever,
	packer *contextpack.Packer,
	chat ChatClient,
	maxRetries int,
	logger *zap.Logger,
) *Service {
	return &Service{
		processor:  processor,
		retriever:  retriever,
		packer:     packer,
		chat:       chat,
		maxRetries: maxRetries,
		sleep:      sleepCtx,
		logger:     logger,
	}
}

// Ask runs the pipeline for one raw question and returns the structured
// result. Search failures degrade to general-knowledge answering; only
// terminal generation failures (after retry exhaustion) surface as errors,
// already classified as domain.ErrContextTooLarge, domain.ErrRateLimited or
// domain.ErrUpstream.
func (s *Service) Ask(ctx context.Context, question string) (domain.Answer, error) {
	start := time.Now()

	q := s.processor.Process(question)

	searchStart := time.Now()
	res := s.retriever.Retrieve(ctx, q)
	searchDur := time.Since(searchStart)

	mode := "contextual"
	if len(res.Documents) == 0 {
		mode = "general"
	}
	s.logger.Info("retrieval completed",
		zap.String("query", q.Cleaned),
		zap.Int("variants", len(q.Variants)),
		zap.Int("documents", len(res.Documents)),
		zap.Int("total_api_results", res.Total),
		zap.String("mode", mode),
		zap.Duration("duration", searchDur),
	)

	llmStart := time.Now()
	text, block, err := s.generate(ctx, question, res.Documents)
	llmDur := time.Since(llmStart)
	if err != nil {
		return domain.Answer{}, err
	}

	metrics.AnswersTotal.WithLabelValues(mode).Inc()

	return domain.Answer{
		Text:            text + "\n\n" + citation,
		Sources:         sourcesFrom(block.Included),
		QueryUsed:       q.Cleaned,
		TotalAPIResults: res.Total,
		Timing: domain.Timing{
			SearchMS: searchDur.Milliseconds(),
			LLMMS:    llmDur.Milliseconds(),
			TotalMS:  time.Since(start).Milliseconds(),
		},
	}, nil
}

// sourcesFrom lists only the documents the model actually saw, in rank order.
func sourcesFrom(included []domain.Document) []domain.Source {
	sources := make([]domain.Source, len(included))
	for i, doc := range included {
		sources[i] = domain.Source{
			Name:    doc.Name,
			Type:    doc.Type,
			URL:     doc.URL,
			Score:   doc.Score,
			Preview: doc.Preview(previewRunes),
		}
	}
	return sources
}
