package rag

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
	"github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/metrics"
	"github.com/Ollennjj/stoa-api/internal/rag/prompt"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

var errIngestFailed = errors.New("ingestion pipeline failed")

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

// The question is pronoun-rewritten before embedding so that "my
// confidence" lands near third-person corpus text about the user.
func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	rewritten := prompt.RewritePronouns(job.JobPayload.Question, job.JobPayload.UserName)
	return s.embedder.GetEmbedding(ctx, rewritten)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (string, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	scope := commonModels.AccessScope{
		UserId:   job.JobPayload.UserId,
		DataKeys: []string{config.BlogDataKey, config.PostDataKey},
	}

	matches, err := s.vectorDB.Query(ctx, config.VectorCollectionName, emb, config.RetrievalTopK, scope)
	if err != nil {
		return "", err
	}

	contents := make([]string, 0, len(matches))
	for _, m := range matches {
		contents = append(contents, m.Metadata.PageContent)
	}
	return strings.Join(contents, " "), nil
}

func (s *service) executePromptStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, history []string) string {
	*job = logOutput(*job, jobModel.PromptAssembly, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("prompt_assembly", time.Since(start)) }()

	return s.assembler.BuildPrompt(ctx, history, job.JobPayload.Question, job.JobPayload.UserName)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, personaPrompt string, contextDoc string) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Complete(ctx, personaPrompt, contextDoc)
}
