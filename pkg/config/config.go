package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values exported for documentation and validation
const (
	DefaultDirectPrefix  = "!"
	DefaultApprovalMode  = "workspace"
	DefaultShellTimeout  = 120 * time.Second
	DefaultMaxOutputSize = 10 * 1024 * 1024 // 10MB
	DefaultLogDir        = ".drover/logs"
)

// ContextPrefix is the fixed literal that marks a context-enriching direct
// command. It is recognized independently of the configurable silent prefix
// and is deliberately not a configuration option.
const ContextPrefix = "$"

// Config represents the complete drover configuration
type Config struct {
	Direct  DirectConfig  `yaml:"direct"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// DirectConfig controls the direct command routing feature.
type DirectConfig struct {
	// Enabled is the master switch. When false, prefixed input is treated
	// as ordinary conversational text.
	Enabled bool `yaml:"enabled"`

	// AutoApprove bypasses the interactive confirmation prompt.
	AutoApprove bool `yaml:"auto_approve"`

	// Prefix is the literal leading token for silent direct commands.
	// Defaults to "!". The context-enriching prefix is fixed ("$").
	Prefix string `yaml:"prefix"`
}

// SandboxConfig is the writable-roots policy the execution backend inherits
// unchanged from the session. The routing core never alters it.
type SandboxConfig struct {
	// Mode determines the sandbox level: disabled, readonly, workspace, strict
	Mode string `yaml:"mode"`

	// WorkspacePath is the root the backend treats as writable. Empty means
	// the current working directory.
	WorkspacePath string `yaml:"workspace_path"`

	// WritableRoots are additional paths with write access beyond the workspace
	WritableRoots []string `yaml:"writable_roots"`

	// DeniedPaths are paths commands may never touch
	DeniedPaths []string `yaml:"denied_paths"`

	// AllowNetwork permits commands that reach the network
	AllowNetwork bool `yaml:"allow_network"`

	// TimeoutSeconds bounds a single command execution (0 = default)
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxOutputBytes caps captured stdout/stderr (0 = default)
	MaxOutputBytes int `yaml:"max_output_bytes"`
}

// LoggingConfig controls the structured JSONL logs
type LoggingConfig struct {
	// Dir is the base log directory (default .drover/logs under home)
	Dir string `yaml:"dir"`

	// Level is the minimum level written: debug, info, warn, error
	Level string `yaml:"level"`
}

// UIConfig controls transcript rendering
type UIConfig struct {
	// Color disables styled output when false
	Color bool `yaml:"color"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logDir := DefaultLogDir
	if home != "" {
		logDir = filepath.Join(home, DefaultLogDir)
	}

	return &Config{
		Direct: DirectConfig{
			Enabled:     true,
			AutoApprove: false,
			Prefix:      DefaultDirectPrefix,
		},
		Sandbox: SandboxConfig{
			Mode:           DefaultApprovalMode,
			TimeoutSeconds: int(DefaultShellTimeout / time.Second),
			MaxOutputBytes: DefaultMaxOutputSize,
		},
		Logging: LoggingConfig{
			Dir:   logDir,
			Level: "info",
		},
		UI: UIConfig{
			Color: true,
		},
	}
}

// Timeout returns the sandbox timeout as a duration
func (c *Config) Timeout() time.Duration {
	if c.Sandbox.TimeoutSeconds <= 0 {
		return DefaultShellTimeout
	}
	return time.Duration(c.Sandbox.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	prefix := c.Direct.Prefix
	if prefix == "" {
		return fmt.Errorf("direct.prefix must not be empty")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("direct.prefix must not contain whitespace")
	}
	if prefix == ContextPrefix {
		return fmt.Errorf("direct.prefix %q collides with the context-enriching prefix", ContextPrefix)
	}

	switch c.Sandbox.Mode {
	case "disabled", "readonly", "workspace", "strict":
	default:
		return fmt.Errorf("sandbox.mode %q invalid (valid: disabled, readonly, workspace, strict)", c.Sandbox.Mode)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q invalid (valid: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Sandbox.TimeoutSeconds < 0 {
		return fmt.Errorf("sandbox.timeout_seconds must not be negative")
	}
	if c.Sandbox.MaxOutputBytes < 0 {
		return fmt.Errorf("sandbox.max_output_bytes must not be negative")
	}

	return nil
}
