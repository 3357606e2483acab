package vectorDB

import (
	"context"

	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
)

// DataProcessor is the narrow contract over the external vector index.
// Query returns matches in the index's relevance order under the given
// access scope; UpsertBatch inserts-or-replaces by vector id.
type DataProcessor interface {
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, vectors []commonModels.IndexedVector) error
	Query(ctx context.Context, collectionName string, vector []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error)
}
