package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/drover-ai/drover/pkg/config"
	"github.com/drover-ai/drover/pkg/conversation"
	"github.com/drover-ai/drover/pkg/direct"
	"github.com/drover-ai/drover/pkg/logging"
	"github.com/drover-ai/drover/pkg/sandbox"
	"github.com/drover-ai/drover/pkg/session"
	"github.com/drover-ai/drover/pkg/shellexec"
	"github.com/drover-ai/drover/pkg/terminal"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const helpText = `# drover

Direct command routing for interactive sessions.

| Input | Behavior |
|-------|----------|
` + "| `!<command>` | run silently, output shown but never added to context |\n" +
	"| `$<command>` | run and add command + output to the conversation context |\n" +
	"| `:history` | show recent direct commands |\n" +
	"| `:context` | show conversation context entries |\n" +
	"| `:help` | this message |\n" +
	"| `exit` / `quit` | leave the session |\n" + `
Anything else is treated as conversational input.

Quick aliases: gs, gd, gl, gb, ll expand to common git/ls commands.
`

func main() {
	var (
		configPath  string
		autoApprove bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to a config file (overrides discovery)")
	flag.BoolVar(&autoApprove, "auto-approve", false, "skip interactive confirmation for direct commands")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("drover %s (%s, built %s)\n", version, commit, buildDate)
		return
	}

	if err := run(configPath, autoApprove); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, autoApprove bool) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(workDir)
	}
	if err != nil {
		return err
	}
	if autoApprove {
		cfg.Direct.AutoApprove = true
	}

	sessionID := session.DetermineSessionID(workDir)

	logger, err := logging.NewLogger(cfg.Logging.Dir, sessionID)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer logger.Close()
	if cfg.Logging.Level != "" {
		logger.SetMinLevel(logging.Level(cfg.Logging.Level))
	}

	policy := policyFromConfig(cfg.Sandbox, workDir)

	backend := shellexec.New(workDir, policy,
		shellexec.WithTimeout(cfg.Timeout()),
		shellexec.WithMaxOutputBytes(cfg.Sandbox.MaxOutputBytes),
		shellexec.WithLogger(logger),
	)

	confirmer := newTerminalConfirmer(os.Stdin, os.Stdout)
	gate := direct.NewGate(confirmer, logger)
	router := direct.NewRouter(direct.Config{
		Enabled:     cfg.Direct.Enabled,
		AutoApprove: cfg.Direct.AutoApprove,
		Prefix:      cfg.Direct.Prefix,
	}, gate, backend, logger)

	out := terminal.New()
	convo := conversation.New(sessionID)
	history := shellexec.NewHistory(100)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(logging.CategorySession, "session_start", "session started", map[string]any{
		"session_id": sessionID,
		"work_dir":   workDir,
		"version":    version,
	})

	out.Dim("drover %s - session %s (:help for commands)", version, sessionID)

	return repl(ctx, router, out, convo, history, cfg.Direct.Prefix)
}

func repl(ctx context.Context, router *direct.Router, out *terminal.Writer, convo *conversation.Context, history *shellexec.History, silentPrefix string) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		out.Print("> ")

		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit":
			return scanner.Err()
		case ":help":
			out.Markdown(helpText)
			continue
		case ":history":
			for _, cmd := range history.All() {
				out.Dim("  %s", cmd)
			}
			continue
		case ":context":
			for _, entry := range convo.Entries() {
				out.Dim("[%s] %s", entry.Role, entry.Content)
			}
			continue
		}

		line = expandAliases(line, silentPrefix)

		rec, entry := router.Route(ctx, line)
		if rec.Status == direct.RouteNone {
			// Conversational input - in a full session this goes to the
			// assistant. Here it only lands in the context.
			convo.AppendUser(line)
			continue
		}

		if rec.Command != "" {
			history.Add(rec.Command)
		}
		out.RenderDirect(rec)

		if entry != nil {
			convo.Append(*entry)
		}
	}

	return scanner.Err()
}

// expandAliases applies quick-command aliases to the residual of a direct
// command. Unprefixed input is conversational and passes through untouched.
func expandAliases(line, silentPrefix string) string {
	if silentPrefix == "" {
		silentPrefix = "!"
	}
	for _, prefix := range []string{silentPrefix, config.ContextPrefix} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return prefix + shellexec.ExpandQuickCommand(rest)
		}
	}
	return line
}

func policyFromConfig(sc config.SandboxConfig, workDir string) sandbox.Policy {
	workspace := sc.WorkspacePath
	if workspace == "" {
		workspace = workDir
	}

	policy := sandbox.DefaultPolicy(workspace)
	policy.Mode = sandbox.ModeFromString(sc.Mode)
	policy.AllowNetwork = sc.AllowNetwork
	if len(sc.WritableRoots) > 0 {
		policy.WritableRoots = append(policy.WritableRoots, sc.WritableRoots...)
	}
	if len(sc.DeniedPaths) > 0 {
		policy.DeniedPaths = append(policy.DeniedPaths, sc.DeniedPaths...)
	}
	return policy
}
