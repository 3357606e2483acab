package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Ollennjj/stoa-api/internal/adapter"
	"github.com/Ollennjj/stoa-api/internal/adapter/utils"
	"github.com/Ollennjj/stoa-api/internal/api"
	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id             string
	chatId         string
	message        string
	userName       string
	userId         string
	isNewChat      bool
	traceId        string
	documentName   string
	documentSource string
	rawEntry       string
	dataKey        string
	uniqueId       string
}

func (n newJobData) isIngest() bool {
	return n.documentSource != "" || n.rawEntry != ""
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a question with the asking user's name and id, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Question, user identity and optional Chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {

			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}

		chatID := requestData.ChatID
		isNewChat := chatID == ""
		if isNewChat {
			chatID = utils.GetNewUUID()
			logRH.Debug(" New Chat request : ", "chatID:", chatID)
		}

		queueJob(w, request, newJobData{
			chatId:    chatID,
			message:   requestData.Message,
			userName:  requestData.UserName,
			userId:    requestData.UserId,
			isNewChat: isNewChat,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler handles the uploading of PDF or DOCX documents for corpus ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job scoped to the uploading user.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        user_id        formData  string  true  "The id of the user the document belongs to"
// @Param        document       formData  file    true  "The PDF or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}
		userId := r.FormValue("user_id")
		if userId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "user_id is required")
			return
		}

		//get the document name the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}

		queueJob(w, r, newJobData{
			userId:         userId,
			documentName:   filename,
			documentSource: tempFilePath,
			dataKey:        config.DocumentDataKey,
			uniqueId:       docName,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// IngestPostHandler godoc
// @Summary      Ingest a WordPress post
// @Description  Accepts a published post payload, queues a job that summarizes it and indexes the summary under the post data key.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestPostRequest  true  "The post payload as delivered by the CMS webhook"
// @Success      202      {object}  api.InitJobResponse    "Job successfully created"
// @Failure      400      {object}  api.JobResponse        "Invalid request data"
// @Router       /ingest-posts [post]
func IngestPostHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.IngestPostRequest
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.Post) == 0 {
			logRH.Warn("Bad Post Ingest Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		queueJob(w, r, newJobData{
			userId:   requestData.UserId,
			rawEntry: string(requestData.Post),
			dataKey:  config.PostDataKey,
			uniqueId: utils.GetNewUUID(),
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// IngestBlogHandler godoc
// @Summary      Ingest a WordPress blog entry
// @Description  Accepts a published blog payload, queues a job that summarizes it and indexes the summary under the blog data key.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestBlogRequest  true  "The blog payload as delivered by the CMS webhook"
// @Success      202      {object}  api.InitJobResponse    "Job successfully created"
// @Failure      400      {object}  api.JobResponse        "Invalid request data"
// @Router       /ingest-blogs [post]
func IngestBlogHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.IngestBlogRequest
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.Blog) == 0 {
			logRH.Warn("Bad Blog Ingest Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		queueJob(w, r, newJobData{
			userId:   requestData.UserId,
			rawEntry: string(requestData.Blog),
			dataKey:  config.BlogDataKey,
			uniqueId: utils.GetNewUUID(),
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// CompletionHandler godoc
// @Summary      Raw model completion
// @Description  Sends the prompt to the configured model with no retrieval context, persona template or job queue. Synchronous.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.CompletionRequest   true  "The prompt to complete"
// @Success      200      {object}  api.CompletionResponse  "The model output"
// @Failure      400      {object}  api.JobResponse         "Invalid request data"
// @Failure      500      {object}  api.JobResponse         "Model provider failure"
// @Router       /chat-completion [post]
func CompletionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Prompt == "" {
			logRH.Warn("Bad Completion Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		completion, err := DirectCompletion(r.Context(), requestData.Prompt)
		if err != nil {
			logRH.Error("Completion failed", "error:", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Completion failed")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.CompletionResponse{Completion: completion})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// CreateIndexHandler godoc
// @Summary      Create the vector collection
// @Description  Creates the corpus collection in the vector store if it does not exist yet. Idempotent.
// @Tags         Ingestion
// @Produce      json
// @Success      200  {object}  map[string]string  "Collection is ready"
// @Failure      500  {object}  api.JobResponse    "Vector store unavailable"
// @Router       /create-index [post]
func CreateIndexHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		if err := CreateCollectionIfMissing(r.Context()); err != nil {
			logRH.Error("Could not create collection", "error:", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Vector store unavailable")
			return
		}
		writeJsonResponse(w, http.StatusOK, map[string]string{"collection": config.VectorCollectionName, "status": "ready"})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
