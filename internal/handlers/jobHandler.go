package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ollennjj/stoa-api/internal/api"
	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/job"
	"github.com/Ollennjj/stoa-api/internal/metrics"
	"github.com/Ollennjj/stoa-api/internal/rag/llm"
	"github.com/Ollennjj/stoa-api/internal/rag/vectorDB"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service     *job.Service
	indexDB     vectorDB.DataProcessor
	llmProvider llm.Provider
}

func InitJobHandler(jobService *job.Service, indexDB vectorDB.DataProcessor, llmProvider llm.Provider) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, indexDB: indexDB, llmProvider: llmProvider}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
	if newJob.isNewChat {
		logJH.Info("Create new chat")
		handlerInstance.initNewChat(newJob.chatId, newJob.traceId)
	}
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// CreateCollectionIfMissing backs the create-index route. It is the one
// operation that skips the job queue since index creation must finish
// before any ingestion can land.
func CreateCollectionIfMissing(ctx context.Context) error {
	if handlerInstance == nil || handlerInstance.indexDB == nil {
		return errServiceUnavailable
	}
	return handlerInstance.indexDB.CreateCollection(ctx, config.VectorCollectionName)
}

// DirectCompletion backs the raw completion route: the prompt goes
// straight to the model with no retrieval context attached.
func DirectCompletion(ctx context.Context, prompt string) (string, error) {
	if handlerInstance == nil || handlerInstance.llmProvider == nil {
		return "", errServiceUnavailable
	}
	return handlerInstance.llmProvider.Complete(ctx, prompt, "")
}

func ValidateChatRequest(chatReq api.ChatRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug(" Validating chat id ", "chatId :", chatReq.ChatID)
	if chatReq.Message == "" || chatReq.UserName == "" || chatReq.UserId == "" {
		return false
	}
	if chatReq.ChatID == "" {
		return true
	}
	return handlerInstance.service.MessageStore.ValidateChatId(context.Background(), chatReq.ChatID)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.isIngest() {
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestURL = newJob.documentSource
		_job.JobPayload.RawEntry = newJob.rawEntry
		_job.JobPayload.UserId = newJob.userId
		_job.JobPayload.DataKey = newJob.dataKey
		_job.JobPayload.UniqueId = newJob.uniqueId

	} else {
		_job.JobType = jobModel.JobTypeQuery
		_job.ChatId = newJob.chatId
		_job.JobPayload.Question = newJob.message
		_job.JobPayload.UserName = newJob.userName
		_job.JobPayload.UserId = newJob.userId
		_job.CurrentStep = jobModel.UserQueryInit
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added  for a document ingestion type job
	//ingestion involves batch processing which might take time - external system call
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

func (h *JobHandler) initNewChat(chatId string, traceId string) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	err := h.service.MessageStore.InitNewChat(ctxC, chatId)
	if err != nil {
		logJH.Error("Error initiating new chat", chatId, err)
		return
	}
}
