package core

import "strings"

// PromptSeparator joins message contents in a combined prompt.
const PromptSeparator = "\n"

// CombinePrompts flattens a conversation into a single prompt for providers
// without native multi-turn input. Contents are joined in order; roles are not
// encoded.
func CombinePrompts(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString(PromptSeparator)
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
