// Package contextpack renders ranked documents into the bounded context
// string handed to the language model.
package contextpack

import (
	"fmt"
	"strings"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

const blockSeparator = "\n\n---\n\n"

// Packer greedily packs ranked documents into a character budget.
type Packer struct {
	maxChars  int
	descClamp int
}

// New creates a packer. maxChars bounds the rendered context in runes;
// descClamp bounds each document's description inside its block.
func New(maxChars, descClamp int) *Packer {
	return &Packer{maxChars: maxChars, descClamp: descClamp}
}

// Pack folds over docs in rank order, appending one rendered block per
// document until the next block would overflow the budget. Blocks are never
// split, with one exception: if even the first block alone exceeds the
// budget, it is truncated to fit rather than returning an empty context.
// Separators count against the budget, so the invariant holds on the final
// text: len([]rune(Text)) <= maxChars.
func (p *Packer) Pack(docs []domain.Document) domain.ContextBlock {
	var (
		blocks   []string
		included []domain.Document
		used     int
	)

	for i, doc := range docs {
		block := p.renderBlock(i+1, doc)

		cost := len([]rune(block))
		if len(blocks) > 0 {
			cost += len([]rune(blockSeparator))
		}

		if used+cost > p.maxChars {
			if len(blocks) == 0 {
				// Oversized first document: truncate instead of
				// returning nothing.
				blocks = append(blocks, truncateRunes(block, p.maxChars))
				included = append(included, doc)
				return domain.ContextBlock{
					Text:          blocks[0],
					Included:      included,
					BudgetDropped: append([]domain.Document(nil), docs[i+1:]...),
				}
			}
			return domain.ContextBlock{
				Text:          strings.Join(blocks, blockSeparator),
				Included:      included,
				BudgetDropped: append([]domain.Document(nil), docs[i:]...),
			}
		}

		blocks = append(blocks, block)
		included = append(included, doc)
		used += cost
	}

	return domain.ContextBlock{
		Text:     strings.Join(blocks, blockSeparator),
		Included: included,
	}
}

// renderBlock formats one document as a numbered context entry.
func (p *Packer) renderBlock(n int, doc domain.Document) string {
	parts := []string{fmt.Sprintf("[დოკუმენტი %d: %s]", n, doc.Name)}
	if doc.Type != "" {
		parts = append(parts, "ტიპი: "+doc.Type)
	}
	if doc.URL != "" {
		parts = append(parts, "ბმული: "+doc.URL)
	}
	if doc.Description != "" {
		parts = append(parts, truncateRunes(doc.Description, p.descClamp))
	}
	return strings.Join(parts, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
