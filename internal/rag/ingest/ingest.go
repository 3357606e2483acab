package ingest

import (
	"context"
	"os"
	"strings"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/rag/embedding"
	"github.com/Ollennjj/stoa-api/internal/rag/vectorDB"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

// ProcessIngestion runs an ingestion job. Payloads carrying Text go
// straight in; payloads carrying an uploaded document are extracted
// first, page contents joined with newlines flattened to spaces.
func ProcessIngestion(ctx context.Context, job jobModel.Job, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor) jobModel.Job {
	logger = logger_i.NewLogger("Ingestion")
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	job.CurrentStep = jobModel.IngestProcessing

	err := vectorDatabase.CreateCollection(ctx, config.VectorCollectionName)
	if err != nil {
		logger.Error("Error creating collection", "error", err)
		job.Status = jobModel.JobStatusError
		return job
	}

	text := job.JobPayload.Text
	if text == "" && job.JobPayload.IngestURL != "" {
		text, err = extractDocumentText(job.JobPayload.IngestURL, job.JobPayload.IngestFileName)
		if err != nil {
			logger.Error("Error extracting document content", "error", err)
			job.Status = jobModel.JobStatusError
			job.Error.Message = "Error extracting document content"
			return job
		}
	}

	count, err := IngestText(ctx, Params{
		Text:     text,
		UserId:   job.JobPayload.UserId,
		DataKey:  job.JobPayload.DataKey,
		UniqueId: job.JobPayload.UniqueId,
	}, e, vectorDatabase)

	if err != nil {
		job.Status = jobModel.JobStatusError
		logger.Error("Error ingesting text", "error", err)
		return job
	}

	if job.JobPayload.IngestURL != "" {
		if err := os.Remove(job.JobPayload.IngestURL); err != nil {
			logger.Error("Error removing file", "error", err)
		}
	}

	job.JobPayload.VectorsCount = count
	job.Status = jobModel.JobStatusComplete
	return job
}

func extractDocumentText(docPath string, docName string) (string, error) {
	logger.Debug("Processing document", "filename", docName, "path", docPath)

	pages, err := extractText(docPath, getDocType(docPath))
	if err != nil {
		return "", err
	}
	logger.Debug("Processing document", "Number of raw pages: ", len(pages))

	var text strings.Builder
	for _, page := range pages {
		text.WriteString(strings.ReplaceAll(page.Content, "\n", " "))
	}
	return text.String(), nil
}
