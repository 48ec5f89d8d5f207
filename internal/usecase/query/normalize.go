package query

import "strings"

// Keywords strips stop words and trailing punctuation from a raw question
// and returns the remaining tokens in order, duplicates removed.
// An empty or stop-word-only question returns an empty set, never an error.
func (p *Processor) Keywords(raw string) []string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "?!.")

	var keywords []string
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(trimmed) {
		lower := strings.ToLower(w)
		if _, isStop := p.stop[lower]; isStop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}
