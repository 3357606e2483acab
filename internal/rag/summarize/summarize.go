package summarize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/rag/llm"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

const promptTemplate = `This is a WordPress %s. Summarize the %s information in one paragraph, including details like title, author, date, and a brief description of the content.
%s information:
%s
%s content:
%s`

// Entry is a WordPress post or blog as the CMS webhook delivers it. The
// shape is CMS-defined, so only the content field is pulled out
// explicitly; the rest is summarized from the raw JSON.
type Entry map[string]any

// ParseEntry decodes the raw webhook JSON into an Entry.
func ParseEntry(raw string) (Entry, error) {
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("could not decode entry payload: %w", err)
	}
	return e, nil
}

func (e Entry) content() string {
	if c, ok := e["post_content"].(string); ok {
		return c
	}
	return ""
}

// SummarizePost condenses a WordPress post into one paragraph ready for
// corpus ingestion.
func SummarizePost(ctx context.Context, provider llm.Provider, post Entry) (string, error) {
	return summarizeEntry(ctx, provider, "post", post)
}

// SummarizeBlog condenses a WordPress blog entry into one paragraph
// ready for corpus ingestion.
func SummarizeBlog(ctx context.Context, provider llm.Provider, blog Entry) (string, error) {
	return summarizeEntry(ctx, provider, "blog", blog)
}

func summarizeEntry(ctx context.Context, provider llm.Provider, kind string, entry Entry) (string, error) {
	log := logger_i.NewLogger("Summarize").With("traceId", ctx.Value(config.TRACE_ID_KEY))

	raw, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode %s payload: %w", kind, err)
	}

	prompt := fmt.Sprintf(promptTemplate, kind, kind, kind, string(raw), kind, entry.content())

	summary, err := provider.Complete(ctx, prompt, "")
	if err != nil {
		log.Error("Error summarizing entry", "kind", kind, "error", err)
		return "", err
	}
	return summary, nil
}
