package direct

import (
	"github.com/drover-ai/drover/pkg/conversation"
)

// BuildContextEntry decides whether an executed command becomes part of the
// conversation context. Context-enriching commands always produce exactly one
// system entry, success or failure; silent commands never do. The mapping does
// not vary with command identity or output size — that binary contract is the
// feature.
func BuildContextEntry(kind Kind, commandText string, outcome Outcome) *conversation.Entry {
	if kind != KindContext {
		return nil
	}

	return &conversation.Entry{
		Role:    conversation.RoleSystem,
		Content: FormatContextContent(commandText, outcome.Output),
	}
}

// FormatContextContent renders the deterministic entry body: the literal
// command text on the first line, then a labeled block with the output
// verbatim. Identical inputs always yield identical bytes.
func FormatContextContent(commandText, output string) string {
	return commandText + "\nOutput:\n" + output
}
