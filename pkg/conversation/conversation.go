// Package conversation owns the durable, append-only conversation context the
// model consults across turns. Entries are never reordered, edited, or
// deduplicated once appended.
package conversation

import (
	"time"
)

// Roles used in the context sequence.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Entry is one record in the conversation context.
type Entry struct {
	Role      string
	Content   string
	Timestamp time.Time
	Tokens    int
}

// Context is the ordered conversation-context sequence for one session.
// It is mutated only from the session thread, one turn at a time.
type Context struct {
	SessionID  string
	entries    []Entry
	tokenCount int
}

// New creates an empty conversation context
func New(sessionID string) *Context {
	return &Context{
		SessionID: sessionID,
		entries:   []Entry{},
	}
}

// Append adds an entry to the end of the sequence. Entries are stamped on the
// way in; past entries are never touched.
func (c *Context) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Tokens == 0 {
		entry.Tokens = CountTokens(entry.Content)
	}
	c.entries = append(c.entries, entry)
	c.tokenCount += entry.Tokens
}

// AppendSystem appends a system-role entry with the given content.
func (c *Context) AppendSystem(content string) {
	c.Append(Entry{Role: RoleSystem, Content: content})
}

// AppendUser appends a user-role entry with the given content.
func (c *Context) AppendUser(content string) {
	c.Append(Entry{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant-role entry with the given content.
func (c *Context) AppendAssistant(content string) {
	c.Append(Entry{Role: RoleAssistant, Content: content})
}

// Entries returns a copy of the sequence in append order.
func (c *Context) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Context) Len() int {
	return len(c.entries)
}

// TokenCount returns the running token total across all entries
func (c *Context) TokenCount() int {
	return c.tokenCount
}
