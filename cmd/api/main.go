// @title           Stoa Chat API
// @version         1.0
// @description     Asynchronous persona chat over a user-scoped knowledge corpus
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/customHttpClient"
	"github.com/Ollennjj/stoa-api/internal/data/store"
	jobmodel "github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/handlers"
	"github.com/Ollennjj/stoa-api/internal/job"
	"github.com/Ollennjj/stoa-api/internal/rag"
	"github.com/Ollennjj/stoa-api/internal/rag/embedding/openaiEmbedding"
	"github.com/Ollennjj/stoa-api/internal/rag/llm"
	"github.com/Ollennjj/stoa-api/internal/rag/llm/gemini"
	"github.com/Ollennjj/stoa-api/internal/rag/llm/openaiLLM"
	"github.com/Ollennjj/stoa-api/internal/rag/prompt"
	"github.com/Ollennjj/stoa-api/internal/rag/vectorDB/qdrantDB"
	"github.com/Ollennjj/stoa-api/internal/server"
	"github.com/Ollennjj/stoa-api/internal/worker"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	//nil checks happen on the concrete pointers - a nil pointer boxed
	//into the interface field would never compare equal to nil again
	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisMessageStore := store.GetRedisMessageStore(serviceContext)
	if redisJobStore == nil || redisMessageStore == nil {
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.MessageStore = store.InitMessageStore()
	} else {
		serviceConfig.JobStore = redisJobStore
		serviceConfig.MessageStore = redisMessageStore
	}
	service := job.InitJobService(serviceConfig)

	vectorDatabase := qdrantDB.GetQuadrantClient(serviceContext)
	embeddingService := openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.EmbeddingModelName, config.OpenAIAPIKey())
	llmProvider := selectLLMProvider(serviceContext, logger)

	if vectorDatabase == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDatabase != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	templateCache := prompt.NewTemplateCache(config.PromptServiceEndpoint(), config.PromptFetchDuration(), customHttpClient.PooledClient())
	assembler := prompt.NewAssembler(templateCache)

	ragService := rag.NewService(vectorDatabase, llmProvider, embeddingService, assembler)

	handlers.InitJobHandler(service, vectorDatabase, llmProvider)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func selectLLMProvider(ctx context.Context, logger *logger_i.Logger) llm.Provider {
	switch config.LLMProvider {
	case "gemini":
		return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GeminiAPIKey())
	default:
		logger.Info("Using OpenAI completion provider", "model", config.OpenAIModelName)
		return openaiLLM.GetOpenAIClient(ctx, config.OpenAIModelName, config.OpenAIAPIKey())
	}
}
