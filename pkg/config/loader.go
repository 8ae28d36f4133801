package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	droverrors "github.com/drover-ai/drover/pkg/errors"
)

// Load builds the configuration snapshot for a session: built-in defaults,
// then the user config (~/.drover/config.yaml), then the project config
// (./.drover.yaml), each file overriding the previous layer field by field.
func Load(workDir string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range configPaths(workDir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := loadAndMerge(cfg, path); err != nil {
			return nil, droverrors.Wrap(err, droverrors.ErrCodeConfigLoad, "loading config").
				WithContext("path", path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, droverrors.Wrap(err, droverrors.ErrCodeConfigInvalid, "validating config")
	}

	return cfg, nil
}

// LoadFile loads a single explicit config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, droverrors.Wrap(err, droverrors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, droverrors.Wrap(err, droverrors.ErrCodeConfigInvalid, "validating config")
	}
	return cfg, nil
}

func configPaths(workDir string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".drover", "config.yaml"))
	}
	if workDir != "" {
		paths = append(paths, filepath.Join(workDir, ".drover.yaml"))
	}
	return paths
}

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Booleans merge only when the key is
// present in the raw document, so an omitted key keeps the lower layer's value.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if boolFieldSet(raw, "direct", "enabled") {
		base.Direct.Enabled = override.Direct.Enabled
	}
	if boolFieldSet(raw, "direct", "auto_approve") {
		base.Direct.AutoApprove = override.Direct.AutoApprove
	}
	if override.Direct.Prefix != "" {
		base.Direct.Prefix = override.Direct.Prefix
	}

	if override.Sandbox.Mode != "" {
		base.Sandbox.Mode = override.Sandbox.Mode
	}
	if override.Sandbox.WorkspacePath != "" {
		base.Sandbox.WorkspacePath = override.Sandbox.WorkspacePath
	}
	if len(override.Sandbox.WritableRoots) > 0 {
		base.Sandbox.WritableRoots = override.Sandbox.WritableRoots
	}
	if len(override.Sandbox.DeniedPaths) > 0 {
		base.Sandbox.DeniedPaths = override.Sandbox.DeniedPaths
	}
	if boolFieldSet(raw, "sandbox", "allow_network") {
		base.Sandbox.AllowNetwork = override.Sandbox.AllowNetwork
	}
	if override.Sandbox.TimeoutSeconds != 0 {
		base.Sandbox.TimeoutSeconds = override.Sandbox.TimeoutSeconds
	}
	if override.Sandbox.MaxOutputBytes != 0 {
		base.Sandbox.MaxOutputBytes = override.Sandbox.MaxOutputBytes
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if boolFieldSet(raw, "ui", "color") {
		base.UI.Color = override.UI.Color
	}
}

// boolFieldSet reports whether a nested key path exists in the raw document.
func boolFieldSet(raw map[string]any, path ...string) bool {
	current := raw
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}
