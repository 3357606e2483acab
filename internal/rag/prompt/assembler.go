package prompt

import (
	"context"
	"strings"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

// staticTemplate is the built-in persona used when the remote template
// has never been fetched successfully.
const staticTemplate = `* User name: "{{user_name}}"
* User query: "{{question}}"
* Conversation history:
` + "```{{chat_history}}```" + `

Your role:
Your name is Stoa, and you are a wise, personal personality trainer and stoic muse who talks philosophically.
Your responses must consider the user's personality type and other traits outlined in the "{{user_name}}" variable to provide personalized answers to the user's questions.
You must craft each response from the lens of the user's unique personality type while maintaining a philosophical (stoic) tone, providing insight and guidance in a concise, practical, and non-preachy way.

Behavior:
Before responding, analyze what specific information from the personality profile is most important for giving a well-informed answer.
Ask the user for clarification when necessary to fully understand their question or context.
Provide a detailed response based on the user's profile without pulling in any other user's data.

Tone:
Stick to Stoic principles, emphasizing logic, control, self-discipline, and calmness. Avoid being overly formal or preachy, keeping responses compact and focused.
Exclude phrases such as "based on the information provided" or "Ah, {{user_name}}".`

// ContextBudgetAssembler regenerates the persona prompt, shedding
// conversation history until the result fits the token budget. The
// budget is approximated as a whitespace-delimited word count rather
// than true tokenization.
type ContextBudgetAssembler struct {
	cache            *TemplateCache
	maxContextTokens float64
	fitThreshold     float64
	logger           *logger_i.Logger
}

func NewAssembler(cache *TemplateCache) *ContextBudgetAssembler {
	return &ContextBudgetAssembler{
		cache:            cache,
		maxContextTokens: config.MaxContextTokens,
		fitThreshold:     config.ContextFitThreshold,
		logger:           logger_i.NewLogger("PromptAssembler"),
	}
}

// BuildPrompt produces the persona prompt for this turn. While the
// candidate exceeds the fit threshold and more than one history entry
// remains, the two oldest entries (one user/bot turn pair) are dropped
// and the prompt regenerated. With a single entry left the prompt is
// returned as-is, over budget or not - best effort, no hard failure.
// Only the assembler's local view of the history is truncated.
func (a *ContextBudgetAssembler) BuildPrompt(ctx context.Context, history []string, question string, userName string) string {
	budget := a.maxContextTokens * a.fitThreshold

	for {
		candidate := a.generate(ctx, history, question, userName)

		words := len(strings.Fields(candidate))
		if float64(words) <= budget || len(history) <= 1 {
			a.logger.Debug("Prompt assembled", "words", words, "historyLeft", len(history))
			return candidate
		}

		drop := 2
		if len(history)-drop < 1 {
			drop = len(history) - 1
		}
		a.logger.Debug("Prompt over budget, trimming history", "words", words, "dropping", drop)
		history = history[drop:]
	}
}

func (a *ContextBudgetAssembler) generate(ctx context.Context, history []string, question string, userName string) string {
	text := a.cache.Get(ctx)
	if text == "" {
		text = staticTemplate
	}

	text = NormalizeTemplate(text)
	text = SubstitutePlaceholders(text, history, userName, question)
	return RewritePronouns(text, userName)
}
