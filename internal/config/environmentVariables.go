package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //flip once the frontend sends bearer tokens
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//embeddings - ada-002 output size, must match the collection config
	EmbeddingDimension int32 = 1536
	EmbeddingModelName       = "text-embedding-ada-002"

	//vector index
	VectorCollectionName        = "stoa-personality"
	QdrantHost                  = "127.0.0.1"
	QdrantGrpcPort              = 6334
	QdrantUseTLS                = false
	QdrantPoolSize              = 1 //2-5 is preferred for prod according to documentation
	RetrievalTopK        uint64 = 10

	//access scoping - corpora under these keys are visible to every user
	BlogDataKey = "blog"
	PostDataKey = "post"

	//uploaded documents stay scoped to the uploading user
	DocumentDataKey = "document"

	//ingestion
	ChunkSize       = 1000 //characters
	UpsertBatchSize = 100

	//llm
	OpenAIModelName = "gpt-4o-mini"
	GeminiModelName = "gemini-2.5-flash-lite-preview-09-2025"
	LLMProvider     = "openai" //"openai" or "gemini"

	ModelTemperature float64 = 0
	SystemContext            = "You are a helpful AI assistant. Use the given context to answer the question at the end. If you don't know the answer, just say you don't know. DO NOT try to make up an answer."

	//answer fallback - returned instead of the model output when it punts
	ClarificationAnswer = "Hmm, I am not sure I understand your question. Can you rephrase or provide more context?"

	//persona prompt budget - model context window * reserved fraction
	ModelContextWindow            = 16385
	ContextBudgetFraction         = 0.2
	ContextFitThreshold           = 0.75
	MaxContextTokens      float64 = ModelContextWindow * ContextBudgetFraction

	//remote persona template
	PromptServiceURL           = "https://personalchemy.io/wp-json/custom/v1/get-prompt"
	DefaultPromptFetchDuration = 15 * time.Minute
	PromptNormalizationMaxPass = 10000

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//workers
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
)

// PromptFetchDuration returns the persona template TTL. The upstream bot
// shipped with an accidental near-zero value here, so the interval stays
// configurable instead of hard-coded.
func PromptFetchDuration() time.Duration {
	if raw := os.Getenv("PROMPT_FETCH_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return DefaultPromptFetchDuration
}

func PromptServiceEndpoint() string {
	if url := os.Getenv("PROMPT_SERVICE_URL"); url != "" {
		return url
	}
	return PromptServiceURL
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}
