package direct

import (
	"strings"

	droverrors "github.com/drover-ai/drover/pkg/errors"
)

// Request is a parsed direct command: an argv vector plus the literal text it
// was parsed from (prefix stripped, whitespace trimmed). Requests are
// transient, scoped to a single turn.
type Request struct {
	Args []string
	Raw  string
}

// Line returns the literal command text as the user typed it.
func (r Request) Line() string {
	return r.Raw
}

// ParseCommand tokenizes the residual command text into a Request using
// shell-like quoting rules: single- and double-quoted spans form one token
// with the quotes removed, and a backslash escapes the next character
// (backslashes are literal inside single quotes). Pure and deterministic.
//
// Fails with a PARSE_ERROR on an unmatched quote, a trailing backslash, or an
// empty token list.
func ParseCommand(rest string) (Request, error) {
	raw := strings.TrimSpace(rest)

	args, err := tokenize(raw)
	if err != nil {
		return Request{}, err
	}
	if len(args) == 0 {
		return Request{}, droverrors.New(droverrors.ErrCodeParse, "empty command").
			WithUserMessage("empty command")
	}

	return Request{Args: args, Raw: raw}, nil
}

func tokenize(input string) ([]string, error) {
	var args []string
	var token strings.Builder
	inToken := false

	const (
		stateBare = iota
		stateSingle
		stateDouble
	)
	state := stateBare

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch state {
		case stateBare:
			switch {
			case c == '\'':
				state = stateSingle
				inToken = true
			case c == '"':
				state = stateDouble
				inToken = true
			case c == '\\':
				if i+1 >= len(runes) {
					return nil, droverrors.New(droverrors.ErrCodeParse, "trailing backslash").
						WithUserMessage("trailing backslash")
				}
				i++
				token.WriteRune(runes[i])
				inToken = true
			case c == ' ' || c == '\t':
				if inToken {
					args = append(args, token.String())
					token.Reset()
					inToken = false
				}
			default:
				token.WriteRune(c)
				inToken = true
			}

		case stateSingle:
			if c == '\'' {
				state = stateBare
			} else {
				token.WriteRune(c)
			}

		case stateDouble:
			switch c {
			case '"':
				state = stateBare
			case '\\':
				if i+1 >= len(runes) {
					return nil, droverrors.New(droverrors.ErrCodeParse, "trailing backslash").
						WithUserMessage("trailing backslash")
				}
				i++
				token.WriteRune(runes[i])
			default:
				token.WriteRune(c)
			}
		}
	}

	if state != stateBare {
		return nil, droverrors.New(droverrors.ErrCodeParse, "unterminated quote").
			WithUserMessage("unterminated quote")
	}
	if inToken {
		args = append(args, token.String())
	}

	return args, nil
}
