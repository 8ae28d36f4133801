package direct

import (
	"reflect"
	"testing"

	droverrors "github.com/drover-ai/drover/pkg/errors"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "ls -la", []string{"ls", "-la"}},
		{"double quotes", `a "b c" d`, []string{"a", "b c", "d"}},
		{"single quotes", `grep 'hello world' file.txt`, []string{"grep", "hello world", "file.txt"}},
		{"escaped space", `echo hello\ world`, []string{"echo", "hello world"}},
		{"escaped quote in double quotes", `echo "say \"hi\""`, []string{"echo", `say "hi"`}},
		{"backslash literal in single quotes", `echo 'a\b'`, []string{"echo", `a\b`}},
		{"adjacent quoted spans", `echo "a"'b'`, []string{"echo", "ab"}},
		{"empty quoted token", `printf ""`, []string{"printf", ""}},
		{"collapsed whitespace", "  git   status  ", []string{"git", "status"}},
		{"tabs", "ls\t-la", []string{"ls", "-la"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(req.Args, tt.want) {
				t.Errorf("Args = %#v, want %#v", req.Args, tt.want)
			}
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unmatched double quote", `a "b`},
		{"unmatched single quote", `a 'b`},
		{"trailing backslash", `echo \`},
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(tt.input)
			if err == nil {
				t.Fatalf("ParseCommand(%q) = nil error, want PARSE_ERROR", tt.input)
			}
			if !droverrors.IsCode(err, droverrors.ErrCodeParse) {
				t.Errorf("error code = %v, want PARSE_ERROR", droverrors.GetCode(err))
			}
		})
	}
}

func TestParseCommandDeterministic(t *testing.T) {
	input := `docker run -e "NAME=a b" image`

	first, err := ParseCommand(input)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	second, err := ParseCommand(input)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different requests: %#v vs %#v", first, second)
	}
}

func TestParseCommandPreservesRaw(t *testing.T) {
	req, err := ParseCommand(`  cat "my file.txt"  `)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if req.Raw != `cat "my file.txt"` {
		t.Errorf("Raw = %q, want trimmed literal text", req.Raw)
	}
	if req.Line() != req.Raw {
		t.Errorf("Line() = %q, want %q", req.Line(), req.Raw)
	}
}
