package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ollennjj/stoa-api/internal/api"
	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/job"
)

type fakeProvider struct {
	onComplete func(ctx context.Context, prompt string, contextDoc string) (string, error)
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, contextDoc string) (string, error) {
	if f.onComplete != nil {
		return f.onComplete(ctx, prompt, contextDoc)
	}
	return "completed", nil
}

func tracedRequest(method string, body string) *http.Request {
	r := httptest.NewRequest(method, "/chat-completion", strings.NewReader(body))
	ctx := context.WithValue(r.Context(), config.TRACE_ID_KEY, "test-trace")
	return r.WithContext(ctx)
}

func TestCompletionHandler(t *testing.T) {
	provider := &fakeProvider{}
	InitJobHandler(&job.Service{}, nil, provider)

	t.Run("Prompt Goes Straight To The Model", func(t *testing.T) {
		var gotPrompt, gotContext string
		provider.onComplete = func(ctx context.Context, prompt string, contextDoc string) (string, error) {
			gotPrompt = prompt
			gotContext = contextDoc
			return "the answer", nil
		}

		rec := httptest.NewRecorder()
		CompletionHandler(rec, tracedRequest(http.MethodPost, `{"prompt":"say hi"}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want %d", rec.Code, http.StatusOK)
		}
		if gotPrompt != "say hi" {
			t.Errorf("prompt got %q, want %q", gotPrompt, "say hi")
		}
		if gotContext != "" {
			t.Errorf("retrieval context should stay empty for the passthrough, got %q", gotContext)
		}

		var resp api.CompletionResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("could not decode response: %v", err)
		}
		if resp.Completion != "the answer" {
			t.Errorf("completion got %q, want %q", resp.Completion, "the answer")
		}
	})

	t.Run("Empty Prompt Is Rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CompletionHandler(rec, tracedRequest(http.MethodPost, `{"prompt":""}`))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("Provider Failure Maps To 500", func(t *testing.T) {
		provider.onComplete = func(ctx context.Context, prompt string, contextDoc string) (string, error) {
			return "", errors.New("provider down")
		}

		rec := httptest.NewRecorder()
		CompletionHandler(rec, tracedRequest(http.MethodPost, `{"prompt":"say hi"}`))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status got %d, want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}
