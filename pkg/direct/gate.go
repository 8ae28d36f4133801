package direct

import (
	"context"

	"github.com/drover-ai/drover/pkg/logging"
)

// Status is the terminal state of the approval state machine for one request.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusDenied
	StatusModified
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	case StatusModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Via records how an approval was obtained.
type Via int

const (
	ViaAuto Via = iota
	ViaInteractive
)

// String returns the via name.
func (v Via) String() string {
	if v == ViaAuto {
		return "auto"
	}
	return "interactive"
}

// Decision is the gate's terminal verdict for one request, produced exactly
// once. For StatusModified, Request carries the user-edited command; otherwise
// it carries the original.
type Decision struct {
	Status  Status
	Via     Via
	Request Request
	Reason  string
}

// Executable reports whether the decision permits invoking the executor.
func (d Decision) Executable() bool {
	return d.Status == StatusApproved || d.Status == StatusModified
}

// ConfirmAction is the user's response to a confirmation prompt.
type ConfirmAction int

const (
	ConfirmApprove ConfirmAction = iota
	ConfirmDeny
	ConfirmModify
)

// Verdict is the outcome of one interactive confirmation.
type Verdict struct {
	Action ConfirmAction
	Edited string // replacement command text when Action is ConfirmModify
}

// Confirmer presents a command to the user and collects a verdict. It is the
// narrow capability interface for the interactive prompt, injected so the
// gate can be tested without a terminal.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (Verdict, error)
}

// Gate decides whether a parsed command may execute. The decision for a given
// request is made exactly once; a denied decision is never retried.
type Gate struct {
	confirmer Confirmer
	log       *logging.Logger
}

// NewGate creates an approval gate around the given confirmer.
func NewGate(confirmer Confirmer, log *logging.Logger) *Gate {
	return &Gate{confirmer: confirmer, log: log}
}

// Decide runs the approval state machine: Pending transitions to exactly one
// of Approved, Denied, or Modified.
//
// With AutoApprove set the transition is immediate and the confirmer is never
// invoked. Otherwise the confirmer supplies the verdict; a confirmer error or
// context cancellation counts as Denied ("cancelled by user"). A modify
// verdict re-parses the edited line — a well-formed edit becomes the Modified
// decision's request, and a malformed one returns a PARSE_ERROR without
// executing anything.
func (g *Gate) Decide(ctx context.Context, req Request, cfg Config) (Decision, error) {
	if cfg.AutoApprove {
		dec := Decision{Status: StatusApproved, Via: ViaAuto, Request: req}
		g.logDecision(dec)
		return dec, nil
	}

	if g.confirmer == nil {
		dec := Decision{Status: StatusDenied, Request: req, Reason: "no confirmation prompt available"}
		g.logDecision(dec)
		return dec, nil
	}

	verdict, err := g.confirmer.Confirm(ctx, req)
	if err != nil || ctx.Err() != nil {
		dec := Decision{Status: StatusDenied, Request: req, Reason: "cancelled by user"}
		g.logDecision(dec)
		return dec, nil
	}

	switch verdict.Action {
	case ConfirmApprove:
		dec := Decision{Status: StatusApproved, Via: ViaInteractive, Request: req}
		g.logDecision(dec)
		return dec, nil

	case ConfirmModify:
		edited, err := ParseCommand(verdict.Edited)
		if err != nil {
			g.logEvent(logging.LevelWarn, "edit_rejected", map[string]any{
				"command": req.Raw,
				"error":   err.Error(),
			})
			return Decision{}, err
		}
		dec := Decision{Status: StatusModified, Via: ViaInteractive, Request: edited}
		g.logDecision(dec)
		return dec, nil

	default:
		dec := Decision{Status: StatusDenied, Request: req, Reason: "cancelled by user"}
		g.logDecision(dec)
		return dec, nil
	}
}

func (g *Gate) logDecision(dec Decision) {
	details := map[string]any{
		"status":  dec.Status.String(),
		"command": dec.Request.Raw,
	}
	if dec.Executable() {
		details["via"] = dec.Via.String()
	}
	g.logEvent(logging.LevelInfo, "decision", details)
}

func (g *Gate) logEvent(level logging.Level, eventType string, details map[string]any) {
	if g.log == nil {
		return
	}
	g.log.Log(logging.Event{
		Level:     level,
		Category:  logging.CategoryApproval,
		EventType: eventType,
		Details:   details,
	})
}
