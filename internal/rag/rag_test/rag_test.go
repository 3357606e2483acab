package rag_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
	"github.com/Ollennjj/stoa-api/internal/domain/jobModel"
	"github.com/Ollennjj/stoa-api/internal/rag"
	"github.com/Ollennjj/stoa-api/internal/rag/prompt"
)

func newTestAssembler(t *testing.T) *prompt.ContextBudgetAssembler {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prompt": "You speak for {{user_name}}.\nHistory:\n{{chat_history}}\nQuestion: {{question}}"}`))
	}))
	t.Cleanup(server.Close)
	return prompt.NewAssembler(prompt.NewTemplateCache(server.URL, time.Minute, server.Client()))
}

func queryJob(question string, userName string, userId string) jobModel.Job {
	return jobModel.Job{
		Id:      "test-job",
		Status:  jobModel.JobStatusQueued,
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question: question,
			UserName: userName,
			UserId:   userId,
		},
	}
}

func TestProcessRequest_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStatus jobModel.JobStatus
		expectedAnswer string
		expectErr      bool
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "final answer", nil
				}
			},
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "final answer",
		},
		{
			name: "Dont_Know_Triggers_Clarification",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "I don't know.", nil
				}
			},
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: config.ClarificationAnswer,
		},
		{
			name: "More_Info_Triggers_Clarification",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "Sorry, I need more information to answer that.", nil
				}
			},
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: config.ClarificationAnswer,
		},
		{
			name: "Dont_Know_Substring_Is_Kept",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "I don't know. But here is a guess.", nil
				}
			},
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "I don't know. But here is a guess.",
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectErr:      true,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, coll string, vec []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectErr:      true,
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, newTestAssembler(t))

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			result := s.ProcessRequest(ctx, queryJob("test question", "Sam", "user-1"), []string{})

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedAnswer != "" && result.JobPayload.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", result.JobPayload.Answer, tt.expectedAnswer)
			}

			if tt.expectErr && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %d", result.Error.Code, http.StatusInternalServerError)
			}
		})
	}
}

func TestProcessRequest_EmbedsRewrittenQuestion(t *testing.T) {
	var embedded string
	mEmbed := &MockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			embedded = text
			return []float32{0.1}, nil
		},
	}

	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, mEmbed, newTestAssembler(t))
	s.ProcessRequest(context.Background(), queryJob("I need help with my confidence", "Sam", "user-1"), nil)

	want := "sam need help with sam confidence"
	if embedded != want {
		t.Errorf("embedded question got %q, want %q", embedded, want)
	}
}

func TestProcessRequest_ScopedRetrieval(t *testing.T) {
	var gotScope commonModels.AccessScope
	var gotTopK uint64
	mVec := &MockVectorDB{
		OnQuery: func(ctx context.Context, coll string, vec []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error) {
			gotScope = scope
			gotTopK = topK
			return []commonModels.RetrievalMatch{
				{Score: 0.9, Metadata: commonModels.VectorMetadata{PageContent: "first passage"}},
				{Score: 0.7, Metadata: commonModels.VectorMetadata{PageContent: "second passage"}},
			}, nil
		},
	}

	var gotContext string
	mLLM := &MockLLM{
		OnComplete: func(ctx context.Context, p string, contextDoc string) (string, error) {
			gotContext = contextDoc
			return "ok", nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, newTestAssembler(t))
	s.ProcessRequest(context.Background(), queryJob("question", "Sam", "user-42"), nil)

	if gotScope.UserId != "user-42" {
		t.Errorf("scope userId got %q, want %q", gotScope.UserId, "user-42")
	}
	wantKeys := []string{config.BlogDataKey, config.PostDataKey}
	if len(gotScope.DataKeys) != 2 || gotScope.DataKeys[0] != wantKeys[0] || gotScope.DataKeys[1] != wantKeys[1] {
		t.Errorf("scope dataKeys got %v, want %v", gotScope.DataKeys, wantKeys)
	}
	if gotTopK != config.RetrievalTopK {
		t.Errorf("topK got %d, want %d", gotTopK, config.RetrievalTopK)
	}
	if gotContext != "first passage second passage" {
		t.Errorf("context doc got %q, want matches joined with a single space", gotContext)
	}
}

func TestProcessRequest_NoMatchesMeansEmptyContext(t *testing.T) {
	mVec := &MockVectorDB{
		OnQuery: func(ctx context.Context, coll string, vec []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error) {
			return nil, nil
		},
	}

	var gotContext = "sentinel"
	mLLM := &MockLLM{
		OnComplete: func(ctx context.Context, p string, contextDoc string) (string, error) {
			gotContext = contextDoc
			return "ok", nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, newTestAssembler(t))
	result := s.ProcessRequest(context.Background(), queryJob("question", "Sam", "user-1"), nil)

	if gotContext != "" {
		t.Errorf("context doc got %q, want empty", gotContext)
	}
	if result.Status == jobModel.JobStatusError {
		t.Errorf("empty retrieval must not fail the job")
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		payload        jobModel.JobPayload
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStatus jobModel.JobStatus
	}{
		{
			name:           "Text_Ingestion_Success",
			payload:        jobModel.JobPayload{Text: "some corpus text", UserId: "user-1", DataKey: "upload", UniqueId: "doc-1"},
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name:    "Failure_Collection_Creation",
			payload: jobModel.JobPayload{Text: "some corpus text", UserId: "user-1", DataKey: "upload", UniqueId: "doc-1"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:    "Failure_Batch_Upsert",
			payload: jobModel.JobPayload{Text: "some corpus text", UserId: "user-1", DataKey: "upload", UniqueId: "doc-1"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnUpsertBatch = func(ctx context.Context, coll string, vectors []commonModels.IndexedVector) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:    "Post_Entry_Is_Summarized_Then_Ingested",
			payload: jobModel.JobPayload{RawEntry: `{"post_title":"Hello","post_content":"Body text"}`, UserId: "user-1", DataKey: config.PostDataKey, UniqueId: "post-9"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "a one paragraph summary", nil
				}
			},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name:    "Failure_Summarization",
			payload: jobModel.JobPayload{RawEntry: `{"post_title":"Hello"}`, UserId: "user-1", DataKey: config.PostDataKey, UniqueId: "post-9"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnComplete = func(ctx context.Context, p string, c string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, newTestAssembler(t))

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			job := jobModel.Job{
				Id:         "ingest-job-1",
				Status:     jobModel.JobStatusQueued,
				JobType:    jobModel.JobTypeIngest,
				JobPayload: tt.payload,
			}

			result := s.IngestDocument(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedStatus == jobModel.JobStatusComplete && result.JobPayload.VectorsCount == 0 {
				t.Errorf("completed ingestion reported zero vectors")
			}
		})
	}
}

func TestIngestDocument_SummaryBecomesTheIngestedText(t *testing.T) {
	var embeddedChunks []string
	mEmbed := &MockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string) ([][]float32, error) {
			embeddedChunks = chunks
			return make([][]float32, len(chunks)), nil
		},
	}
	mLLM := &MockLLM{
		OnComplete: func(ctx context.Context, p string, c string) (string, error) {
			if !strings.Contains(p, "WordPress blog") {
				t.Errorf("summarization prompt missing entry kind, got %q", p)
			}
			return "blog summary paragraph", nil
		},
	}

	s := rag.NewService(&MockVectorDB{}, mLLM, mEmbed, newTestAssembler(t))
	job := jobModel.Job{
		Id:      "ingest-blog-1",
		Status:  jobModel.JobStatusQueued,
		JobType: jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			RawEntry: `{"post_title":"Title","post_content":"Long body"}`,
			UserId:   "user-1",
			DataKey:  config.BlogDataKey,
			UniqueId: "blog-3",
		},
	}

	result := s.IngestDocument(context.Background(), job)

	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Status got %v, want %v", result.Status, jobModel.JobStatusComplete)
	}
	if len(embeddedChunks) != 1 || embeddedChunks[0] != "blog summary paragraph" {
		t.Errorf("embedded chunks got %v, want the summary only", embeddedChunks)
	}
}
