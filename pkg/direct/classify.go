// Package direct implements the command routing core for an interactive
// session: prefixed user input is classified, parsed, gated through approval,
// handed to the execution backend, and optionally folded into the
// conversation context.
//
// Two prefixes exist. The silent prefix (configurable, default "!") executes
// a command and shows its output without touching the conversation context.
// The context-enriching prefix (the fixed literal "$") additionally appends
// the command and its output to the context for the model to see.
package direct

import (
	"strings"
)

// ContextPrefix is the fixed literal marking a context-enriching direct
// command. It is recognized independently of the configurable silent prefix.
const ContextPrefix = "$"

// Config is the read-only routing configuration snapshot for one session.
type Config struct {
	// Enabled is the master switch for direct command routing.
	Enabled bool

	// AutoApprove skips the interactive confirmation step.
	AutoApprove bool

	// Prefix is the literal silent-command prefix (default "!").
	Prefix string
}

// Kind classifies one line of raw input.
type Kind int

const (
	// KindNone means the input is conversational, not a direct command.
	KindNone Kind = iota

	// KindSilent is a direct command whose output stays out of the context.
	KindSilent

	// KindContext is a direct command whose output enriches the context.
	KindContext
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSilent:
		return "silent"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// Classification is the classifier's verdict for one raw input line.
type Classification struct {
	Kind   Kind
	Prefix string // literal prefix that matched, empty for KindNone
	Rest   string // input after stripping exactly one prefix occurrence
}

// Classify inspects raw input and decides whether it is a direct command.
// Matching is case-sensitive; the prefix must be the first character of the
// trimmed input. A bare prefix with nothing after it is not a command.
// When routing is disabled every input classifies as KindNone.
func Classify(input string, cfg Config) Classification {
	if !cfg.Enabled {
		return Classification{Kind: KindNone, Rest: input}
	}

	trimmed := strings.TrimSpace(input)

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "!"
	}

	if strings.HasPrefix(trimmed, prefix) {
		rest := strings.TrimPrefix(trimmed, prefix)
		if strings.TrimSpace(rest) == "" {
			return Classification{Kind: KindNone, Rest: input}
		}
		return Classification{Kind: KindSilent, Prefix: prefix, Rest: rest}
	}

	if strings.HasPrefix(trimmed, ContextPrefix) {
		rest := strings.TrimPrefix(trimmed, ContextPrefix)
		if strings.TrimSpace(rest) == "" {
			return Classification{Kind: KindNone, Rest: input}
		}
		return Classification{Kind: KindContext, Prefix: ContextPrefix, Rest: rest}
	}

	return Classification{Kind: KindNone, Rest: input}
}
