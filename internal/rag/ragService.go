package rag

import (
	"context"
	"strings"
	"time"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/metrics"
	"github.com/Ollennjj/stoa-api/internal/rag/embedding"
	"github.com/Ollennjj/stoa-api/internal/rag/ingest"
	"github.com/Ollennjj/stoa-api/internal/rag/llm"
	"github.com/Ollennjj/stoa-api/internal/rag/prompt"
	"github.com/Ollennjj/stoa-api/internal/rag/summarize"
	"github.com/Ollennjj/stoa-api/internal/rag/vectorDB"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

// Answers the model can return when it punts; either one triggers the
// clarification fallback instead of the literal model output.
const (
	dontKnowSentinel = "I don't know."
	moreInfoSentinel = "I need more information"
)

// Service is the only contract the worker sees - it doesn't need to
// know the llm, the index or the prompt machinery behind it.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	assembler   *prompt.ContextBudgetAssembler
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, assembler *prompt.ContextBudgetAssembler) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		assembler:   assembler,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

// ProcessRequest runs the query pipeline: pronoun-rewrite the question,
// embed it, pull scoped context from the index, assemble the persona
// prompt within budget, then ask the model. Strictly sequential - each
// step waits on its predecessor.
func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	jobt.CurrentStep = jobModel.RAGCall

	// Embedding of the pronoun-rewritten question
	questionVector, err := s.executeEmbeddingStep(ctx, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	// Vector DB search under the caller's access scope
	contextDoc, err := s.executeVectorSearchStep(ctx, inMethodLogger, &jobt, questionVector)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	// Persona prompt, trimmed to the token budget
	personaPrompt := s.executePromptStep(ctx, inMethodLogger, &jobt, messageHistory)

	// LLM grounded QA
	answer, err := s.executeLLMStep(ctx, inMethodLogger, &jobt, personaPrompt, contextDoc)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	if answer == dontKnowSentinel || strings.Contains(answer, moreInfoSentinel) {
		inMethodLogger.Debug("Model punted, returning clarification answer")
		answer = config.ClarificationAnswer
	}

	return returnOutput(jobt, answer)
}

// IngestDocument runs an ingestion job: post/blog payloads are
// summarized first, uploaded documents extracted, then everything goes
// through the chunk-embed-upsert pipeline.
func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("text_ingestion", time.Since(start)) }()

	if job.JobPayload.RawEntry != "" {
		summarized, err := s.summarizeEntry(ctx, &job)
		if err != nil {
			return s.jobError(job, err, "SUMMARIZATION_FAILURE", true)
		}
		job.JobPayload.Text = summarized
	}

	j := ingest.ProcessIngestion(ctx, job, s.embedder, s.vectorDB)
	if j.Status != jobModel.JobStatusComplete {
		return s.jobError(j, errIngestFailed, "INGESTION_FAILURE", true)
	}
	return j
}

func (s *service) summarizeEntry(ctx context.Context, job *jobModel.Job) (string, error) {
	entry, err := summarize.ParseEntry(job.JobPayload.RawEntry)
	if err != nil {
		return "", err
	}

	if job.JobPayload.DataKey == config.BlogDataKey {
		return summarize.SummarizeBlog(ctx, s.llmProvider, entry)
	}
	return summarize.SummarizePost(ctx, s.llmProvider, entry)
}
