// Package shellexec is the execution backend behind the direct command
// router. It runs approved argv vectors on the host, bounded by the session's
// inherited sandbox policy, a timeout, and an output cap.
package shellexec

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/drover-ai/drover/pkg/direct"
	"github.com/drover-ai/drover/pkg/logging"
	"github.com/drover-ai/drover/pkg/sandbox"
)

const (
	defaultTimeout        = 120 * time.Second
	defaultMaxOutputBytes = 10 * 1024 * 1024
)

// Backend executes direct commands. It implements direct.Executor.
type Backend struct {
	workDir        string
	timeout        time.Duration
	maxOutputBytes int
	policy         sandbox.Policy
	log            *logging.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithTimeout bounds a single command execution.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithMaxOutputBytes caps captured stdout/stderr.
func WithMaxOutputBytes(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.maxOutputBytes = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *logging.Logger) Option {
	return func(b *Backend) {
		b.log = log
	}
}

// New creates a backend rooted at workDir, validating every command against
// the given policy. The policy arrives from the session unchanged; the
// backend applies it, the router never inspects it.
func New(workDir string, policy sandbox.Policy, opts ...Option) *Backend {
	b := &Backend{
		workDir:        workDir,
		timeout:        defaultTimeout,
		maxOutputBytes: defaultMaxOutputBytes,
		policy:         policy,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs one approved command to completion. Failures are data: a
// blocked, failed, or timed-out command returns Success=false with whatever
// output was produced, never an error that escapes the pipeline.
func (b *Backend) Execute(ctx context.Context, req direct.Request) direct.Outcome {
	start := time.Now()

	if err := b.policy.Validate(req.Args); err != nil {
		b.logEvent(logging.LevelWarn, "sandbox_blocked", map[string]any{
			"command": req.Raw,
			"reason":  err.Error(),
		})
		return direct.Outcome{
			Success:  false,
			Output:   "sandbox blocked command: " + err.Error(),
			ExitCode: -1,
			Duration: time.Since(start),
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, req.Args[0], req.Args[1:]...)
	if strings.TrimSpace(b.workDir) != "" {
		cmd.Dir = strings.TrimSpace(b.workDir)
	}

	stdout := newLimitedBuffer(b.maxOutputBytes)
	stderr := newLimitedBuffer(b.maxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	duration := time.Since(start)

	outcome := direct.Outcome{Duration: duration}

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		outcome.ExitCode = -1
		outcome.Output = combineOutput(
			fmt.Sprintf("command timed out after %s", b.timeout),
			combineOutput(stderr.String(), stdout.String()),
		)
	case err == nil:
		outcome.Success = true
		outcome.Output = combineOutput(stderr.String(), stdout.String())
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			outcome.ExitCode = exitErr.ExitCode()
			outcome.Output = combineOutput(stderr.String(), stdout.String())
		} else {
			// The process never started (binary missing, permission).
			outcome.ExitCode = -1
			outcome.Output = err.Error()
		}
	}

	b.logEvent(levelFor(outcome), "command_finished", map[string]any{
		"command":     req.Raw,
		"exit_code":   outcome.ExitCode,
		"duration_ms": duration.Milliseconds(),
		"truncated":   stdout.Truncated() || stderr.Truncated(),
	})

	return outcome
}

// combineOutput joins stderr and stdout, stderr first when present.
func combineOutput(stderr, stdout string) string {
	stderr = strings.TrimSpace(stderr)
	stdout = strings.TrimSpace(stdout)

	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stderr + "\n" + stdout
	}
}

func levelFor(outcome direct.Outcome) logging.Level {
	if outcome.Success {
		return logging.LevelInfo
	}
	return logging.LevelWarn
}

func (b *Backend) logEvent(level logging.Level, eventType string, details map[string]any) {
	if b.log == nil {
		return
	}
	b.log.Log(logging.Event{
		Level:     level,
		Category:  logging.CategoryExec,
		EventType: eventType,
		Details:   details,
	})
}
