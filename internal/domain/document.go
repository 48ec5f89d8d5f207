package domain

// Document is a single InfoHub search hit enriched with a local relevance score.
// Fields missing from the API response are sanitized to empty strings by the
// transport layer; scoring and packing never fail on a well-formed Document.
type Document struct {
	UUID        string
	Name        string
	Description string
	Type        string
	BaseType    string
	URL         string
	Date        string

	// Score is the local keyword-overlap relevance in [0.0, 1.0],
	// assigned by the retrieval usecase.
	Score float64
}

// Preview returns the first n runes of the description for source listings.
func (d Document) Preview(n int) string {
	r := []rune(d.Description)
	if len(r) <= n {
		return d.Description
	}
	return string(r[:n])
}
