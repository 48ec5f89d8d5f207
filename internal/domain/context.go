package domain

// ContextBlock is the bounded text handed to the language model, together
// with the documents it was rendered from. Included preserves rank order.
// BudgetDropped holds documents that survived reranking but did not fit the
// character budget, so callers can distinguish them from rerank cuts.
type ContextBlock struct {
	Text          string
	Included      []Document
	BudgetDropped []Document
}

// Empty reports whether no document content was packed.
func (c ContextBlock) Empty() bool {
	return len(c.Included) == 0
}
