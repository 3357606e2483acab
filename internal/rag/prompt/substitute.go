package prompt

import (
	"regexp"
	"strings"

	"github.com/Ollennjj/stoa-api/internal/config"
)

// pronounPattern matches the first-person words the persona rewrites
// into the user's name. Whole words only, case-insensitive.
var pronounPattern = regexp.MustCompile(`(?i)\b(?:I|my|mine|me|myself)\b`)

// NormalizeTemplate drives the template to a fixed point: carriage
// returns collapse to plain newlines, blank-line runs to single
// newlines, and literal backslash-n sequences become real newlines.
// The rounds repeat jointly until nothing changes, since unescaping can
// surface fresh blank-line runs an earlier rule must see again. Rounds
// are capped so a pathological template cannot spin forever.
func NormalizeTemplate(text string) string {
	for pass := 0; pass < config.PromptNormalizationMaxPass; pass++ {
		next := replaceUntilStable(text, "\r\n", "\n")
		next = replaceUntilStable(next, "\n\n", "\n")
		next = replaceUntilStable(next, `\n`, "\n")
		if next == text {
			break
		}
		text = next
	}
	return text
}

// SubstitutePlaceholders fills {{chat_history}}, {{user_name}} and
// {{question}}, repeating until no token remains so templates may use a
// placeholder more than once.
func SubstitutePlaceholders(text string, history []string, userName string, question string) string {
	text = replaceUntilStable(text, "{{chat_history}}", strings.Join(history, "\n"))
	text = replaceUntilStable(text, "{{user_name}}", userName)
	text = replaceUntilStable(text, "{{question}}", question)
	return text
}

// RewritePronouns swaps whole-word first-person pronouns for the
// lowercased user name. This is a literal lexical substitution with no
// grammatical agreement ("my" becomes "sam", not "Sam's") - kept
// deliberately for compatibility with the stored corpora.
func RewritePronouns(text string, userName string) string {
	return pronounPattern.ReplaceAllString(text, strings.ToLower(userName))
}

func replaceUntilStable(text string, old string, new string) string {
	if old == new || strings.Contains(new, old) {
		return strings.ReplaceAll(text, old, new)
	}
	for pass := 0; strings.Contains(text, old) && pass < config.PromptNormalizationMaxPass; pass++ {
		text = strings.ReplaceAll(text, old, new)
	}
	return text
}
