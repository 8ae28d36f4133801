package direct

import (
	"context"
	"sync"
	"time"

	"github.com/drover-ai/drover/pkg/conversation"
	droverrors "github.com/drover-ai/drover/pkg/errors"
	"github.com/drover-ai/drover/pkg/logging"
	"github.com/drover-ai/drover/pkg/session"
)

// Outcome is the execution backend's result for one command. Backend failures
// are data, not errors: a command that ran and failed still yields an Outcome.
type Outcome struct {
	Success  bool
	Output   string
	ExitCode int
	Duration time.Duration
}

// Executor is the narrow capability interface to the execution backend. It is
// only invoked for approved (or modified) commands; the backend applies the
// session's inherited sandbox policy itself.
type Executor interface {
	Execute(ctx context.Context, req Request) Outcome
}

// RouteStatus describes how a turn resolved, for transcript rendering.
type RouteStatus string

const (
	// RouteNone: the input was conversational; routing was not engaged.
	RouteNone RouteStatus = "none"
	// RouteExecuted: the command ran and exited successfully.
	RouteExecuted RouteStatus = "executed"
	// RouteFailed: the command ran but the backend reported failure.
	RouteFailed RouteStatus = "failed"
	// RouteDenied: the user (or cancellation) denied execution.
	RouteDenied RouteStatus = "denied"
	// RouteParseError: the input could not be parsed into a command.
	RouteParseError RouteStatus = "parse_error"
)

// DisplayRecord is the UI-facing account of one routed turn. It always
// carries the original input plus either the outcome or the reason nothing
// executed.
type DisplayRecord struct {
	TurnID   string
	Input    string
	Kind     Kind
	Command  string // literal executed command text (possibly user-edited)
	Args     []string
	Status   RouteStatus
	Reason   string
	Output   string
	ExitCode int
	Duration time.Duration
}

// Router composes the routing pipeline for one input line: classify, parse,
// approve, execute, apply the context policy. It is the only component that
// knows both what happened and what must be remembered.
type Router struct {
	cfg  Config
	gate *Gate
	exec Executor
	log  *logging.Logger

	// One turn is fully routed before the next is accepted.
	mu sync.Mutex

	newTurnID func() string
}

// NewRouter wires a router from its collaborators.
func NewRouter(cfg Config, gate *Gate, exec Executor, log *logging.Logger) *Router {
	return &Router{
		cfg:       cfg,
		gate:      gate,
		exec:      exec,
		log:       log,
		newTurnID: session.NewTurnID,
	}
}

// Route processes one line of raw input end to end and returns the display
// record plus the context entry to append, if any. No failure is fatal: every
// turn resolves to a DisplayRecord and the router is ready for the next line.
func (r *Router) Route(ctx context.Context, input string) (DisplayRecord, *conversation.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cls := Classify(input, r.cfg)
	if cls.Kind == KindNone {
		return DisplayRecord{Input: input, Kind: KindNone, Status: RouteNone}, nil
	}

	rec := DisplayRecord{
		TurnID: r.newTurnID(),
		Input:  input,
		Kind:   cls.Kind,
	}
	if r.log != nil {
		r.log.SetTurnID(rec.TurnID)
	}

	req, err := ParseCommand(cls.Rest)
	if err != nil {
		return r.resolveParseError(rec, err), nil
	}

	dec, err := r.gate.Decide(ctx, req, r.cfg)
	if err != nil {
		// Only a malformed user edit surfaces here; treat it as a parse error.
		return r.resolveParseError(rec, err), nil
	}

	if !dec.Executable() {
		rec.Status = RouteDenied
		rec.Command = req.Raw
		rec.Args = req.Args
		rec.Reason = dec.Reason
		r.logTurn(rec)
		return rec, nil
	}

	// The gate guarantees an executable decision here; a denied decision
	// never reaches the backend.
	final := dec.Request
	outcome := r.exec.Execute(ctx, final)

	rec.Command = final.Raw
	rec.Args = final.Args
	rec.Output = outcome.Output
	rec.ExitCode = outcome.ExitCode
	rec.Duration = outcome.Duration
	if outcome.Success {
		rec.Status = RouteExecuted
	} else {
		rec.Status = RouteFailed
	}
	r.logTurn(rec)

	entry := BuildContextEntry(cls.Kind, final.Raw, outcome)
	if entry != nil && r.log != nil {
		r.log.Info(logging.CategoryContext, "entry_appended", "context enriched", map[string]any{
			"command": final.Raw,
			"bytes":   len(entry.Content),
		})
	}

	return rec, entry
}

func (r *Router) resolveParseError(rec DisplayRecord, err error) DisplayRecord {
	rec.Status = RouteParseError
	if derr, ok := err.(*droverrors.Error); ok {
		rec.Reason = derr.DisplayMessage()
	} else {
		rec.Reason = err.Error()
	}
	if r.log != nil {
		r.log.Warn(logging.CategoryRouter, "parse_error", rec.Reason, map[string]any{
			"input": rec.Input,
		})
	}
	return rec
}

func (r *Router) logTurn(rec DisplayRecord) {
	if r.log == nil {
		return
	}
	level := logging.LevelInfo
	if rec.Status == RouteFailed {
		level = logging.LevelWarn
	}
	r.log.Log(logging.Event{
		Level:     level,
		Category:  logging.CategoryRouter,
		EventType: "turn_routed",
		Details: map[string]any{
			"kind":      rec.Kind.String(),
			"status":    string(rec.Status),
			"command":   rec.Command,
			"exit_code": rec.ExitCode,
		},
	})
}
