package domain

// Source describes a document cited in an answer.
type Source struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview,omitempty"`
}

// Timing is the wall-clock breakdown of one pipeline run.
type Timing struct {
	SearchMS int64 `json:"search_ms"`
	LLMMS    int64 `json:"llm_ms"`
	TotalMS  int64 `json:"total_ms"`
}

// Answer is the final pipeline result returned to the caller. It is owned
// solely by the caller; no state is shared across requests.
type Answer struct {
	Text            string   `json:"answer"`
	Sources         []Source `json:"sources"`
	QueryUsed       string   `json:"query_used"`
	TotalAPIResults int      `json:"total_api_results"`
	Timing          Timing   `json:"timing"`
}
