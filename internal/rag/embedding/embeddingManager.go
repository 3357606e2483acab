package embedding

import "context"

// Embedder converts text into fixed-dimension vectors. BatchEmbedding
// preserves input order and length; callers do not retry - a failure
// propagates to whoever started the operation.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
