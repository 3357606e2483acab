package ragErrors

import "errors"

// Error kinds surfaced by the pipeline. Every external call either
// succeeds or fails the whole operation - there is no retry policy.
// Template fetch failures are the one locally recovered case and never
// carry this far.
var (
	ErrEmbeddingService = errors.New("embedding service failure")
	ErrIndexWrite       = errors.New("vector index write failure")
	ErrRetrieval        = errors.New("vector index query failure")
	ErrSynthesis        = errors.New("language model failure")
)
