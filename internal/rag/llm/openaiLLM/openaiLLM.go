package openaiLLM

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/rag/llm"
	"github.com/Ollennjj/stoa-api/internal/rag/ragErrors"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(ctx, modelName, apikey)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func newOpenAIClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("OPENAI_API_KEY is not set")
		return
	}
	openaiClient = &llmClient{
		client:    openai.NewClient(option.WithAPIKey(apikey)),
		modelName: modelName,
	}
	logger.Info("OpenAI client created", "model", modelName)
	go closeClient(ctx, openaiClient)
}

func (c *llmClient) Complete(ctx context.Context, prompt string, contextDoc string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	userPrompt := prompt
	if contextDoc != "" {
		userPrompt = fmt.Sprintf("Context:\n%s\n\n%s", contextDoc, prompt)
	}

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.SystemContext),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(c.modelName),
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		log.Error("Error generating completion", "error", err.Error())
		return "", fmt.Errorf("%w: %v", ragErrors.ErrSynthesis, err)
	}
	if len(result.Choices) == 0 {
		log.Error("Completion returned no choices")
		return "", fmt.Errorf("%w: empty completion", ragErrors.ErrSynthesis)
	}

	return result.Choices[0].Message.Content, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing OpenAI client")
	llm.modelName = ""
}
