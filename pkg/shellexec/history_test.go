package shellexec

import (
	"reflect"
	"testing"
)

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory(10)
	h.Add("git status")
	h.Add("ls -la")
	h.Add("make test")

	if got := h.Up(); got != "make test" {
		t.Errorf("Up() = %q, want make test", got)
	}
	if got := h.Up(); got != "ls -la" {
		t.Errorf("Up() = %q, want ls -la", got)
	}
	if got := h.Down(); got != "make test" {
		t.Errorf("Down() = %q, want make test", got)
	}
	// Past the end returns empty for fresh input.
	if got := h.Down(); got != "" {
		t.Errorf("Down() past end = %q, want empty", got)
	}
}

func TestHistoryUpStopsAtOldest(t *testing.T) {
	h := NewHistory(10)
	h.Add("first")

	if got := h.Up(); got != "first" {
		t.Errorf("Up() = %q, want first", got)
	}
	if got := h.Up(); got != "first" {
		t.Errorf("Up() at top = %q, want first (pinned)", got)
	}
}

func TestHistorySkipsConsecutiveDuplicates(t *testing.T) {
	h := NewHistory(10)
	h.Add("ls")
	h.Add("ls")
	h.Add("pwd")
	h.Add("ls")

	want := []string{"ls", "pwd", "ls"}
	if got := h.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")

	want := []string{"b", "c"}
	if got := h.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestHistoryIgnoresEmpty(t *testing.T) {
	h := NewHistory(10)
	h.Add("   ")
	h.Add("")

	if len(h.All()) != 0 {
		t.Errorf("All() = %v, want empty", h.All())
	}
	if got := h.Up(); got != "" {
		t.Errorf("Up() on empty history = %q, want empty", got)
	}
}

func TestExpandQuickCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gs", "git status"},
		{"gd", "git diff"},
		{"ll", "ls -la"},
		{"gs extra", "gs extra"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		if got := ExpandQuickCommand(tt.input); got != tt.want {
			t.Errorf("ExpandQuickCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
