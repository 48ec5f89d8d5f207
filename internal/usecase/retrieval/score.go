package retrieval

import (
	"strings"

	"github.com/geotaxlab/infohub-agent/internal/domain"
)

// Scorer computes keyword-overlap relevance for documents, without
// embeddings or external calls. Identical inputs always yield identical
// scores.
type Scorer struct {
	abbr map[string]string
}

// NewScorer creates a scorer. The abbreviation map enriches keyword matching
// so that a query containing "დღგ" also matches documents that only spell
// out the full term.
func NewScorer(abbreviations map[string]string) *Scorer {
	abbr := make(map[string]string, len(abbreviations))
	for k, v := range abbreviations {
		abbr[strings.ToLower(k)] = v
	}
	return &Scorer{abbr: abbr}
}

// titleBonus is the extra weight for keywords that also hit the document
// name. Bounded so the final score stays within [0, 1].
const titleBonus = 0.2

// Score returns the relevance of doc for the keyword set, in [0.0, 1.0].
// The score is the fraction of match terms present in name+description,
// plus titleBonus scaled by the fraction hitting the name alone, capped at 1.
// An empty keyword set scores 0.0 uniformly for every document: reranking
// then preserves the API's own ordering.
func (s *Scorer) Score(keywords []string, doc domain.Document) float64 {
	terms := s.matchTerms(keywords)
	if len(terms) == 0 {
		return 0.0
	}

	docWords := tokenSet(doc.Name + " " + doc.Description)
	nameWords := tokenSet(doc.Name)

	overlap, nameOverlap := 0, 0
	for term := range terms {
		if _, ok := docWords[term]; ok {
			overlap++
		}
		if _, ok := nameWords[term]; ok {
			nameOverlap++
		}
	}

	score := float64(overlap) / float64(len(terms))
	if nameOverlap > 0 {
		score += titleBonus * float64(nameOverlap) / float64(len(terms))
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// matchTerms lowercases the keyword set and folds in the words of any
// abbreviation expansions.
func (s *Scorer) matchTerms(keywords []string) map[string]struct{} {
	terms := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		terms[lower] = struct{}{}
		if full, ok := s.abbr[lower]; ok {
			for _, w := range strings.Fields(strings.ToLower(full)) {
				terms[w] = struct{}{}
			}
		}
	}
	return terms
}

func tokenSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
