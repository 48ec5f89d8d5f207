// Package query turns raw user questions into keyword sets and search variants.
package query

import "strings"

// Query is the immutable per-request view of a user question: the raw text,
// the stop-word-stripped keyword set, and the search variants produced by
// abbreviation expansion (original query always first).
type Query struct {
	Raw      string
	Cleaned  string
	Keywords []string
	Variants []string
}

// Processor normalizes and expands queries. Stop words and the abbreviation
// map are injected data, fixed for the process lifetime.
type Processor struct {
	stop map[string]struct{}
	abbr map[string]string
}

// NewProcessor creates a query processor. Stop words and abbreviation keys
// are matched case-insensitively.
func NewProcessor(stopWords []string, abbreviations map[string]string) *Processor {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	abbr := make(map[string]string, len(abbreviations))
	for k, v := range abbreviations {
		abbr[strings.ToLower(k)] = v
	}
	return &Processor{stop: stop, abbr: abbr}
}

// Process normalizes and expands a raw question. Never errors: a query of
// only stop words yields an empty keyword set, and the search variants fall
// back to the trimmed raw text so the gateway still has something to send.
func (p *Processor) Process(raw string) Query {
	keywords := p.Keywords(raw)

	cleaned := strings.Join(keywords, " ")
	if cleaned == "" {
		cleaned = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw), "?!."))
	}

	return Query{
		Raw:      raw,
		Cleaned:  cleaned,
		Keywords: keywords,
		Variants: p.Variants(cleaned),
	}
}

// Expansion returns the full term for an abbreviation, if known.
func (p *Processor) Expansion(word string) (string, bool) {
	full, ok := p.abbr[strings.ToLower(word)]
	return full, ok
}
