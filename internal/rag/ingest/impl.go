package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
	"github.com/Ollennjj/stoa-api/internal/rag/chunker"
	"github.com/Ollennjj/stoa-api/internal/rag/embedding"
	"github.com/Ollennjj/stoa-api/internal/rag/vectorDB"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

// Params scope one ingestion. UserId restricts visibility to that user;
// DataKey marks a global corpus entry; UniqueId separates entries within
// a corpus. All three may be empty - the ordinal suffix keeps ids unique
// within the batch either way.
type Params struct {
	Text     string
	UserId   string
	DataKey  string
	UniqueId string
}

// IngestText splits the text, embeds every chunk in one batched call and
// upserts the vectors sequentially in batches of at most
// config.UpsertBatchSize, in chunk order. A failing batch surfaces as an
// error; batches already written stay written - the deterministic ids
// make a retry overwrite them instead of duplicating.
func IngestText(ctx context.Context, p Params, embedder embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (int, error) {
	log := logger_i.NewLogger("Text Ingestion").With("traceId", ctx.Value(config.TRACE_ID_KEY))

	chunks := chunker.New(config.ChunkSize).Chunks(p.Text)
	if len(chunks) == 0 {
		log.Debug("Nothing to ingest, input is empty")
		return 0, nil
	}
	log.Debug("Split text", "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks failed: %w", err)
	}
	log.Debug("Finished embedding", "vectors", len(embeddings))

	vectors := BuildIndexedVectors(p, chunks, embeddings)

	for start := 0; start < len(vectors); start += config.UpsertBatchSize {
		end := start + config.UpsertBatchSize
		if end > len(vectors) {
			end = len(vectors)
		}

		//batches are written one at a time, in order - bounded memory and
		//no hammering of the index write path
		if err := vectorDatabase.UpsertBatch(ctx, config.VectorCollectionName, vectors[start:end]); err != nil {
			return start, fmt.Errorf("upserting batch at offset %d failed: %w", start, err)
		}
	}

	log.Debug("Vectors upserted", "count", len(vectors))
	return len(vectors), nil
}

// BuildIndexedVectors pairs chunks with their embeddings. The id is the
// scope prefix followed by "_" and the chunk ordinal; missing scope
// fields collapse to the empty string.
func BuildIndexedVectors(p Params, chunks []commonModels.Chunk, embeddings [][]float32) []commonModels.IndexedVector {
	vectors := make([]commonModels.IndexedVector, len(chunks))
	for i, c := range chunks {
		vectors[i] = commonModels.IndexedVector{
			Id:     p.UniqueId + p.DataKey + p.UserId + "_" + strconv.Itoa(c.Ordinal),
			Values: embeddings[i],
			Metadata: commonModels.VectorMetadata{
				PageContent: c.Content,
				UserId:      p.UserId,
				DataKey:     p.DataKey,
				UniqueId:    p.UniqueId,
			},
		}
	}
	return vectors
}
