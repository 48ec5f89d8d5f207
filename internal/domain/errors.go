package domain

import "errors"

var (
	// ErrPayloadTooLarge signals the LLM provider rejected the request body (HTTP 413).
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrRateLimited signals the LLM provider rate limit (HTTP 429).
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstream signals any other LLM provider failure. Not retried.
	ErrUpstream = errors.New("upstream error")
	// ErrContextTooLarge signals that shrinking the context down to zero
	// documents still could not satisfy the provider.
	ErrContextTooLarge = errors.New("context too large")
	// ErrSearchUnavailable signals that every search variant failed.
	// The pipeline degrades to general-knowledge answering instead of failing.
	ErrSearchUnavailable = errors.New("search unavailable")
)
