package direct

import (
	"testing"

	"github.com/drover-ai/drover/pkg/conversation"
)

func TestBuildContextEntrySilentNeverProduces(t *testing.T) {
	outcomes := []Outcome{
		{Success: true, Output: "total 16"},
		{Success: false, Output: "permission denied", ExitCode: 1},
	}

	for _, outcome := range outcomes {
		if entry := BuildContextEntry(KindSilent, "ls -la", outcome); entry != nil {
			t.Errorf("silent command produced a context entry for outcome %+v", outcome)
		}
	}
}

func TestBuildContextEntryContextAlwaysProduces(t *testing.T) {
	// The policy must not vary with success/failure.
	outcomes := []Outcome{
		{Success: true, Output: "file contents"},
		{Success: false, Output: "cat: nope: No such file or directory", ExitCode: 1},
		{Success: false, Output: "", ExitCode: -1},
	}

	for _, outcome := range outcomes {
		entry := BuildContextEntry(KindContext, "cat FUNCTIONS.md", outcome)
		if entry == nil {
			t.Fatalf("context command produced no entry for outcome %+v", outcome)
		}
		if entry.Role != conversation.RoleSystem {
			t.Errorf("Role = %q, want system", entry.Role)
		}
	}
}

func TestContextEntryContentFormat(t *testing.T) {
	entry := BuildContextEntry(KindContext, "cat FUNCTIONS.md", Outcome{
		Success: true,
		Output:  "# Functions\n\nhelpers live here",
	})

	want := "cat FUNCTIONS.md\nOutput:\n# Functions\n\nhelpers live here"
	if entry.Content != want {
		t.Errorf("Content = %q, want %q", entry.Content, want)
	}
}

func TestContextEntryIdempotent(t *testing.T) {
	outcome := Outcome{Success: false, Output: "boom", ExitCode: 2}

	first := BuildContextEntry(KindContext, "make test", outcome)
	second := BuildContextEntry(KindContext, "make test", outcome)

	if first.Content != second.Content {
		t.Errorf("policy not idempotent: %q vs %q", first.Content, second.Content)
	}
	if first.Role != second.Role {
		t.Errorf("roles differ: %q vs %q", first.Role, second.Role)
	}
}

func TestBuildContextEntryNoneKind(t *testing.T) {
	if entry := BuildContextEntry(KindNone, "ls", Outcome{Success: true}); entry != nil {
		t.Error("KindNone must not produce a context entry")
	}
}
