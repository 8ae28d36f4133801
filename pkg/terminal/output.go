// Package terminal renders the session transcript: styled output for direct
// commands, visually distinct from AI-issued text. No TUI framework - just
// print/stream/scroll.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/drover-ai/drover/pkg/direct"
)

const timeRounding = time.Millisecond

// Writer provides styled terminal output with markdown rendering.
type Writer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
	mu       sync.Mutex

	// Styles
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	dimStyle     lipgloss.Style
	promptStyle  lipgloss.Style
	contextStyle lipgloss.Style
}

// New creates a terminal Writer on stdout.
func New() *Writer {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates a terminal Writer with a custom output destination.
func NewWithOutput(out io.Writer) *Writer {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	// Detect color profile for adaptive colors
	_ = termenv.ColorProfile()

	return &Writer{
		out:      out,
		renderer: renderer,

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),

		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),

		// The echoed direct command, distinct from AI output
		promptStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Bold(true),

		// Marker for commands that enrich the conversation context
		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8800AA", Dark: "#CC88FF"}),
	}
}

// Print writes text to the terminal.
func (w *Writer) Print(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes text with a newline.
func (w *Writer) Println(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Markdown renders markdown to the terminal with syntax highlighting.
func (w *Writer) Markdown(md string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.renderer == nil {
		fmt.Fprintln(w.out, md)
		return nil
	}

	rendered, err := w.renderer.Render(md)
	if err != nil {
		fmt.Fprintln(w.out, md)
		return err
	}

	fmt.Fprint(w.out, rendered)
	return nil
}

// Error prints an error message in red.
func (w *Writer) Error(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w.out, w.errorStyle.Render("error: "+msg))
}

// Dim prints dimmed/secondary text.
func (w *Writer) Dim(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w.out, w.dimStyle.Render(msg))
}

// RenderDirect prints the transcript record for one routed turn.
func (w *Writer) RenderDirect(rec direct.DisplayRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch rec.Status {
	case direct.RouteNone:
		return

	case direct.RouteParseError:
		fmt.Fprintln(w.out, w.promptStyle.Render("! "+strings.TrimSpace(rec.Input)))
		fmt.Fprintln(w.out, w.errorStyle.Render("parse error: "+rec.Reason))

	case direct.RouteDenied:
		fmt.Fprintln(w.out, w.promptStyle.Render("! "+rec.Command))
		fmt.Fprintln(w.out, w.dimStyle.Render(rec.Reason))

	default:
		marker := "! "
		if rec.Kind == direct.KindContext {
			marker = "$ "
		}
		echo := w.promptStyle.Render(marker + rec.Command)
		if rec.Kind == direct.KindContext {
			echo += " " + w.contextStyle.Render("[context]")
		}
		fmt.Fprintln(w.out, echo)

		if rec.Output != "" {
			fmt.Fprintln(w.out, w.dimStyle.Render(rec.Output))
		}

		if rec.Status == direct.RouteFailed {
			fmt.Fprintln(w.out, w.errorStyle.Render(fmt.Sprintf("exit %d (%s)", rec.ExitCode, rec.Duration.Round(timeRounding))))
		} else {
			fmt.Fprintln(w.out, w.successStyle.Render(fmt.Sprintf("ok (%s)", rec.Duration.Round(timeRounding))))
		}
	}
}
