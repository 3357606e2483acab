package rag_test

import (
	"context"

	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnQuery            func(ctx context.Context, collectionName string, vector []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error)
	OnCreateCollection func(ctx context.Context, name string) error
	OnUpsertBatch      func(ctx context.Context, name string, vectors []commonModels.IndexedVector) error
}

func (m *MockVectorDB) Query(ctx context.Context, collectionName string, vector []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, collectionName, vector, topK, scope)
	}
	return []commonModels.RetrievalMatch{
		{Score: 0.9, Metadata: commonModels.VectorMetadata{PageContent: "default context"}},
	}, nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, vectors []commonModels.IndexedVector) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, vectors)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk count
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnComplete func(ctx context.Context, prompt string, contextDoc string) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, prompt string, contextDoc string) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, prompt, contextDoc)
	}
	return "mocked llm response", nil
}
