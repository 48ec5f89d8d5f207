package query

import "strings"

// Variants expands a cleaned query via the abbreviation map. Each distinct
// abbreviation hit contributes one variant with the abbreviation replaced by
// its full term, plus one with the full term appended when it is not already
// present. The original query is always first; duplicates are removed
// preserving order. No combinatorial expansion across multiple hits.
func (p *Processor) Variants(cleaned string) []string {
	variants := []string{cleaned}

	for _, word := range strings.Fields(cleaned) {
		full, ok := p.abbr[strings.ToLower(word)]
		if !ok {
			continue
		}
		variants = append(variants, strings.ReplaceAll(cleaned, word, full))
		if !strings.Contains(cleaned, full) {
			variants = append(variants, cleaned+" "+full)
		}
	}

	return dedupe(variants)
}

func dedupe(in []string) []string {
	out := in[:0]
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
