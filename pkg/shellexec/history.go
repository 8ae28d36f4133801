package shellexec

import (
	"strings"
	"sync"
)

// History is a bounded ring of direct commands with shell-style up/down
// navigation. Consecutive duplicates are collapsed.
type History struct {
	mu      sync.Mutex
	entries []string
	idx     int
	max     int
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 100
	}
	return &History{
		entries: make([]string, 0, max),
		max:     max,
	}
}

// Add appends a command and resets navigation to the end.
func (h *History) Add(command string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	// Don't add duplicates consecutively
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == command {
		h.idx = len(h.entries)
		return
	}

	h.entries = append(h.entries, command)

	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}

	h.idx = len(h.entries)
}

// Up moves towards older commands, returning the command at the new position.
func (h *History) Up() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return ""
	}

	if h.idx > 0 {
		h.idx--
	}

	return h.entries[h.idx]
}

// Down moves towards newer commands, returning empty once past the end.
func (h *History) Down() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return ""
	}

	if h.idx < len(h.entries)-1 {
		h.idx++
		return h.entries[h.idx]
	}

	// Past the end - back to fresh input
	h.idx = len(h.entries)
	return ""
}

// Reset moves navigation back to the end without touching the entries.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.idx = len(h.entries)
}

// All returns a copy of the history, oldest first.
func (h *History) All() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// QuickCommands provides shortcuts for common commands.
var QuickCommands = map[string]string{
	"gs":  "git status",
	"gd":  "git diff",
	"gl":  "git log --oneline -10",
	"gb":  "git branch",
	"ll":  "ls -la",
	"pwd": "pwd",
}

// ExpandQuickCommand expands a quick command alias; unknown input passes
// through unchanged.
func ExpandQuickCommand(input string) string {
	if expanded, ok := QuickCommands[strings.TrimSpace(input)]; ok {
		return expanded
	}
	return input
}
