// Package sandbox validates direct commands against the writable-roots policy
// the session inherits. The routing core hands commands to the execution
// backend with this policy unchanged; validation happens here, at the backend
// boundary, never in the router.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Mode represents the sandbox security level
type Mode int

const (
	// ModeDisabled allows all commands unrestricted
	ModeDisabled Mode = iota
	// ModeReadOnly allows only read-only commands
	ModeReadOnly
	// ModeWorkspace allows writes only within workspace and writable roots
	ModeWorkspace
	// ModeStrict restricts to explicitly allowed commands
	ModeStrict
)

// Policy configures command validation
type Policy struct {
	Mode            Mode
	WorkspacePath   string
	WritableRoots   []string
	DeniedPaths     []string
	AllowedCommands []string
	AllowNetwork    bool
}

// DefaultPolicy returns a safe default policy rooted at the given workspace
func DefaultPolicy(workspace string) Policy {
	if workspace == "" {
		workspace, _ = os.Getwd()
	}
	home, _ := os.UserHomeDir()

	return Policy{
		Mode:          ModeWorkspace,
		WorkspacePath: workspace,
		WritableRoots: []string{workspace},
		DeniedPaths: []string{
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
			filepath.Join(home, ".aws"),
			"/etc",
			"/var",
			"/usr",
			"/bin",
			"/sbin",
		},
		AllowNetwork: false,
	}
}

// Validate checks if a command (argv form) is allowed to run
func (p Policy) Validate(args []string) error {
	if p.Mode == ModeDisabled {
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}

	command := strings.Join(args, " ")

	if err := p.checkDangerousPatterns(command); err != nil {
		return err
	}

	switch p.Mode {
	case ModeReadOnly:
		if !isReadOnlyCommand(command) {
			return fmt.Errorf("command may modify files (read-only mode)")
		}
	case ModeWorkspace:
		if err := p.checkWorkspaceBounds(args); err != nil {
			return err
		}
	case ModeStrict:
		if !p.isAllowedCommand(args) {
			return fmt.Errorf("command not in allowed list (strict mode)")
		}
	}

	if !p.AllowNetwork && usesNetwork(args[0]) {
		return fmt.Errorf("network access not allowed")
	}

	return nil
}

func (p Policy) checkDangerousPatterns(command string) error {
	dangerous := []struct {
		pattern string
		reason  string
	}{
		{`rm\s+-[rf]+\s+/`, "recursive delete from root"},
		{`rm\s+-[rf]+\s+~`, "recursive delete from home"},
		{`dd\s+.*of=/dev/`, "dd to devices"},
		{`mkfs`, "formatting filesystems"},
		{`:\(\)\s*\{`, "fork bomb pattern"},
		{`chmod\s+777\s+/`, "dangerous permissions on root"},
		{`chown.*-R.*root`, "recursive ownership change to root"},
	}

	for _, d := range dangerous {
		if matched, _ := regexp.MatchString(d.pattern, command); matched {
			return fmt.Errorf("dangerous command pattern detected: %s", d.reason)
		}
	}

	return nil
}

func isReadOnlyCommand(command string) bool {
	readOnlyPatterns := []string{
		`^cat\s`,
		`^head\s`,
		`^tail\s`,
		`^less\s`,
		`^more\s`,
		`^grep\s`,
		`^rg\s`,
		`^ls\b`,
		`^pwd$`,
		`^echo\s`,
		`^wc\s`,
		`^file\s`,
		`^stat\s`,
		`^du\s`,
		`^df\s`,
		`^which\s`,
		`^whereis\s`,
		`^type\s`,
		`^git\s+status`,
		`^git\s+log`,
		`^git\s+diff`,
		`^git\s+show`,
		`^git\s+branch`,
		`^go\s+version`,
		`^go\s+list`,
		`^node\s+--version`,
		`^npm\s+list`,
		`^python\s+--version`,
		`^pip\s+list`,
	}

	for _, pattern := range readOnlyPatterns {
		if matched, _ := regexp.MatchString(pattern, command); matched {
			return true
		}
	}

	writeCommands := []string{"rm", "mv", "cp", "mkdir", "rmdir", "touch", "chmod", "chown", "git commit", "git push"}
	for _, wc := range writeCommands {
		if strings.Contains(command, wc) {
			return false
		}
	}

	return true
}

func (p Policy) checkWorkspaceBounds(args []string) error {
	paths := extractPaths(args)

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		for _, dp := range p.DeniedPaths {
			if dp != "" && strings.HasPrefix(absPath, dp) {
				return fmt.Errorf("access to denied path: %s", path)
			}
		}

		if p.WorkspacePath != "" && strings.HasPrefix(absPath, p.WorkspacePath) {
			continue
		}

		allowed := false
		for _, root := range p.WritableRoots {
			if root != "" && strings.HasPrefix(absPath, root) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("path outside workspace: %s", path)
		}
	}

	return nil
}

func (p Policy) isAllowedCommand(args []string) bool {
	baseCmd := args[0]

	for _, allowed := range p.AllowedCommands {
		if baseCmd == allowed {
			return true
		}
		if strings.HasPrefix(strings.Join(args, " "), allowed) {
			return true
		}
	}

	return false
}

func usesNetwork(baseCmd string) bool {
	networkCommands := []string{
		"curl", "wget", "ssh", "scp", "rsync", "ftp", "sftp",
		"nc", "netcat", "telnet", "nmap", "ping", "traceroute",
		"dig", "nslookup",
	}

	for _, nc := range networkCommands {
		if baseCmd == nc {
			return true
		}
	}

	return false
}

// extractPaths attempts to extract file paths from argv arguments
func extractPaths(args []string) []string {
	var paths []string

	for i, part := range args {
		if i == 0 || strings.HasPrefix(part, "-") {
			continue
		}

		if strings.HasPrefix(part, "/") ||
			strings.HasPrefix(part, "./") ||
			strings.HasPrefix(part, "../") ||
			strings.HasPrefix(part, "~/") {
			if strings.HasPrefix(part, "~/") {
				if home, err := os.UserHomeDir(); err == nil {
					part = filepath.Join(home, part[2:])
				}
			}
			paths = append(paths, part)
		}
	}

	return paths
}

// ModeFromString parses a mode string
func ModeFromString(s string) Mode {
	switch strings.ToLower(s) {
	case "disabled", "none", "off":
		return ModeDisabled
	case "readonly", "read-only", "ro":
		return ModeReadOnly
	case "workspace", "ws":
		return ModeWorkspace
	case "strict":
		return ModeStrict
	default:
		return ModeWorkspace
	}
}

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeReadOnly:
		return "read-only"
	case ModeWorkspace:
		return "workspace"
	case ModeStrict:
		return "strict"
	default:
		return "unknown"
	}
}
