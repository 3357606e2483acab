package prompt

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRewritePronouns(t *testing.T) {
	tests := []struct {
		in       string
		userName string
		want     string
	}{
		{"I need help with my confidence", "Sam", "sam need help with sam confidence"},
		{"is this mine or myself talking to me", "Ava", "is this ava or ava talking to ava"},
		{"Important information is immutable", "Sam", "Important information is immutable"},
		{"MY CAPS AND My Mixed", "Sam", "sam CAPS AND sam Mixed"},
	}

	for _, tt := range tests {
		if got := RewritePronouns(tt.in, tt.userName); got != tt.want {
			t.Errorf("RewritePronouns(%q, %q) = %q; want %q", tt.in, tt.userName, got, tt.want)
		}
	}
}

func TestNormalizeTemplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf collapse", "a\r\nb\r\nc", "a\nb\nc"},
		{"blank line runs", "a\n\n\n\n\nb", "a\nb"},
		{"escaped newlines", `a\nb\n\nc`, "a\nb\nc"},
		{"unescaping exposes blank runs", `a\n\n\nb`, "a\nb"},
		{"already normal", "a\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTemplate(tt.in)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if again := NormalizeTemplate(got); again != got {
				t.Errorf("normalization is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSubstitutePlaceholders_Repeated(t *testing.T) {
	template := "{{user_name}} asked {{question}} - remember, {{user_name}}?\n{{chat_history}}"
	got := SubstitutePlaceholders(template, []string{"user: hi", "bot: hello"}, "Sam", "why?")

	want := "Sam asked why? - remember, Sam?\nuser: hi\nbot: hello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("placeholder tokens survived substitution: %q", got)
	}
}

func TestTemplateCache_TTL(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		fmt.Fprint(w, `{"prompt": "remote persona"}`)
	}))
	defer server.Close()

	cache := NewTemplateCache(server.URL, time.Minute, server.Client())
	current := time.Now()
	cache.now = func() time.Time { return current }

	ctx := context.Background()

	if got := cache.Get(ctx); got != "remote persona" {
		t.Fatalf("first Get = %q", got)
	}
	if got := cache.Get(ctx); got != "remote persona" {
		t.Fatalf("second Get = %q", got)
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("expected 1 fetch within TTL, got %d", n)
	}

	current = current.Add(2 * time.Minute)
	cache.Get(ctx)
	if n := atomic.LoadInt32(&fetches); n != 2 {
		t.Errorf("expected refetch after TTL expiry, got %d fetches", n)
	}
}

func TestTemplateCache_FetchFailureFallsBack(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"prompt": "good persona"}`)
	}))
	defer server.Close()

	cache := NewTemplateCache(server.URL, time.Minute, server.Client())
	current := time.Now()
	cache.now = func() time.Time { return current }

	ctx := context.Background()

	if got := cache.Get(ctx); got != "good persona" {
		t.Fatalf("initial fetch = %q", got)
	}

	fail.Store(true)
	current = current.Add(2 * time.Minute)

	if got := cache.Get(ctx); got != "good persona" {
		t.Errorf("failed refresh should return the previous value, got %q", got)
	}
}

func TestTemplateCache_EmptyOnColdFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := NewTemplateCache(server.URL, time.Minute, server.Client())
	if got := cache.Get(context.Background()); got != "" {
		t.Errorf("cold failure should return empty string, got %q", got)
	}
}

func historyEntry(tag string, words int) string {
	return strings.TrimSpace(strings.Repeat(tag+" ", words))
}

func TestBuildPrompt_TrimsHistoryInPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"prompt": "{{chat_history}}"}`)
	}))
	defer server.Close()

	cache := NewTemplateCache(server.URL, time.Minute, server.Client())
	assembler := NewAssembler(cache)

	//budget is 16385*0.2*0.75 = 2457 words: 6 entries of 900 words
	//overflow, 4 still overflow, 2 fit
	history := make([]string, 6)
	for i := range history {
		history[i] = historyEntry(fmt.Sprintf("e%d", i), 900)
	}

	got := assembler.BuildPrompt(context.Background(), history, "question", "Sam")

	if n := len(strings.Fields(got)); n != 1800 {
		t.Errorf("expected the two newest entries (1800 words), got %d words", n)
	}
	if strings.Contains(got, "e0") || strings.Contains(got, "e3") {
		t.Errorf("oldest entries should have been trimmed")
	}
	if !strings.Contains(got, "e4") || !strings.Contains(got, "e5") {
		t.Errorf("newest entries must survive trimming")
	}
}

func TestBuildPrompt_SingleEntryNeverTrimmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"prompt": "{{chat_history}}"}`)
	}))
	defer server.Close()

	assembler := NewAssembler(NewTemplateCache(server.URL, time.Minute, server.Client()))
	history := []string{historyEntry("big", 3000)}

	got := assembler.BuildPrompt(context.Background(), history, "question", "Sam")

	if n := len(strings.Fields(got)); n != 3000 {
		t.Errorf("single oversized entry must be returned as-is, got %d words", n)
	}
}

func TestBuildPrompt_StaticFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assembler := NewAssembler(NewTemplateCache(server.URL, time.Minute, server.Client()))

	got := assembler.BuildPrompt(context.Background(), []string{"user: hi"}, "what now?", "Sam")

	if !strings.Contains(got, "Your name is Stoa") {
		t.Errorf("expected the built-in static persona, got %q", got)
	}
	if !strings.Contains(got, `"Sam"`) {
		t.Errorf("static persona should carry the user name")
	}
	if !strings.Contains(got, "what now?") {
		t.Errorf("static persona should carry the question")
	}
}
