package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/domain"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
)

// backoffBase is the first rate-limit wait; it doubles per retry (2s, 4s, ...).
const backoffBase = 2 * time.Second

// sleeper abstracts backoff waits so the retry machine is testable without
// real delays.
type sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// generate runs the generation retry state machine over ranked documents.
//
// Each failure class owns an independent retry budget of s.maxRetries:
//   - payload-too-large: drop the lowest-ranked included document, repack,
//     retry; once no document can be dropped (or the budget is spent) the
//     terminal classification is domain.ErrContextTooLarge
//   - rate-limited: wait with exponentially growing delay and retry the
//     same payload; exhaustion surfaces domain.ErrRateLimited
//   - anything else is non-retryable by policy and returns immediately
//
// On success it returns the answer text and the context block actually sent,
// so citations always match what the model saw.
func (s *Service) generate(
	ctx context.Context, question string, ranked []domain.Document,
) (string, domain.ContextBlock, error) {
	block := s.packer.Pack(ranked)
	shrinksLeft := s.maxRetries
	waitsLeft := s.maxRetries

	for {
		text, err := s.chat.Chat(ctx, s.buildMessages(question, block))
		if err == nil {
			return text, block, nil
		}

		switch {
		case errors.Is(err, domain.ErrPayloadTooLarge):
			if shrinksLeft == 0 || len(block.Included) <= 1 {
				return "", block, fmt.Errorf("shrink retries exhausted: %w", domain.ErrContextTooLarge)
			}
			shrinksLeft--
			metrics.LLMRetriesTotal.WithLabelValues("payload_too_large").Inc()

			dropped := block.Included[len(block.Included)-1]
			block = s.packer.Pack(block.Included[:len(block.Included)-1])
			s.logger.Warn("payload too large, dropping lowest-ranked document",
				zap.String("dropped", dropped.Name),
				zap.Int("remaining", len(block.Included)),
			)

		case errors.Is(err, domain.ErrRateLimited):
			if waitsLeft == 0 {
				return "", block, err
			}
			attempt := s.maxRetries - waitsLeft
			waitsLeft--
			metrics.LLMRetriesTotal.WithLabelValues("rate_limited").Inc()

			delay := backoffBase << attempt
			s.logger.Warn("rate limited, backing off",
				zap.Duration("delay", delay),
				zap.Int("waits_left", waitsLeft),
			)
			if serr := s.sleep(ctx, delay); serr != nil {
				return "", block, fmt.Errorf("backoff interrupted: %w", serr)
			}

		default:
			// Non-retryable by policy: network failures, 5xx and malformed
			// responses fail fast rather than hammering a broken upstream.
			return "", block, err
		}
	}
}

// buildMessages assembles the chat payload for the current context block.
func (s *Service) buildMessages(question string, block domain.ContextBlock) []domain.Message {
	userPrompt := buildGeneralPrompt(question)
	if !block.Empty() {
		userPrompt = buildUserPrompt(block.Text, question)
	}
	return []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: userPrompt},
	}
}
