package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/rag/embedding"
	"github.com/Ollennjj/stoa-api/internal/rag/ragErrors"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	openAi openai.Client
	model  string
}

func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newOpenAIEmbedder(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("OPENAI_API_KEY is not set")
		return
	}
	embeddingClient = &client{
		openAi: openai.NewClient(option.WithAPIKey(apikey)),
		model:  modelName,
	}
	logger.Debug("OpenAI embedding model name: " + modelName)
	logger.Info("OpenAI embedding client created")
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing OpenAI embedding client")
	embeddingClient.model = ""
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrEmbeddingService, err)
	}
	if len(result.Data) != len(chunks) {
		log.Error("Embedding count mismatch", "want", len(chunks), "got", len(result.Data))
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ragErrors.ErrEmbeddingService, len(result.Data), len(chunks))
	}

	embeddingResults := make([][]float32, 0, len(result.Data))
	for _, item := range result.Data {
		values := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			values[i] = float32(v)
		}
		embeddingResults = append(embeddingResults, values)
	}
	return embeddingResults, nil
}
