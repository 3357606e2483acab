package llm

import "context"

// Provider runs a document-grounded QA completion: contextDoc is the
// sole document the model may lean on, prompt carries the persona and
// the question.
type Provider interface {
	Complete(ctx context.Context, prompt string, contextDoc string) (string, error)
}
