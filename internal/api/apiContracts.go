package api

import (
	"encoding/json"
	"time"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id,omitempty" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type IngestResponse struct {
	DataKey      string `json:"data_key,omitempty"`
	UniqueId     string `json:"unique_id,omitempty"`
	VectorsCount int    `json:"vectors_count"`
}

type Result struct {
	Status              string          `json:"status"`
	RAGExternalResponse *RAGResponse    `json:"rag_response,omitempty"`
	IngestResult        *IngestResponse `json:"ingest_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type ChatRequest struct {
	Message  string `json:"message" validate:"required"`
	UserName string `json:"user_name" validate:"required"`
	UserId   string `json:"user_id" validate:"required"`
	ChatID   string `json:"chatID,omitempty"`
}

// CompletionRequest is the raw model passthrough body. No retrieval, no
// persona, no job queue - the prompt goes to the provider as-is.
type CompletionRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type CompletionResponse struct {
	Completion string `json:"completion"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}

// IngestPostRequest is the WordPress webhook body for a published post.
// The entry shape is CMS-defined, so it stays raw until summarization.
type IngestPostRequest struct {
	UserId string          `json:"user_id"`
	Post   json.RawMessage `json:"post" validate:"required"`
}

type IngestBlogRequest struct {
	UserId string          `json:"user_id"`
	Blog   json.RawMessage `json:"blog" validate:"required"`
}
