package config

import (
	"os"
	"path/filepath"
	"testing"

	droverrors "github.com/drover-ai/drover/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Direct.Enabled {
		t.Error("direct routing should be enabled by default")
	}
	if cfg.Direct.AutoApprove {
		t.Error("auto-approve should be disabled by default")
	}
	if cfg.Direct.Prefix != "!" {
		t.Errorf("Prefix = %q, want %q", cfg.Direct.Prefix, "!")
	}
	if cfg.Sandbox.Mode != "workspace" {
		t.Errorf("Sandbox.Mode = %q, want workspace", cfg.Sandbox.Mode)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty prefix", func(c *Config) { c.Direct.Prefix = "" }, true},
		{"whitespace prefix", func(c *Config) { c.Direct.Prefix = "! " }, true},
		{"prefix collides with context prefix", func(c *Config) { c.Direct.Prefix = "$" }, true},
		{"multi-char prefix", func(c *Config) { c.Direct.Prefix = ">>" }, false},
		{"bad sandbox mode", func(c *Config) { c.Sandbox.Mode = "paranoid" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"negative timeout", func(c *Config) { c.Sandbox.TimeoutSeconds = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
direct:
  auto_approve: true
sandbox:
  mode: readonly
  writable_roots:
    - /tmp/scratch
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if !cfg.Direct.AutoApprove {
		t.Error("auto_approve override not applied")
	}
	// Omitted keys keep defaults.
	if !cfg.Direct.Enabled {
		t.Error("enabled should keep its default when omitted")
	}
	if cfg.Direct.Prefix != "!" {
		t.Errorf("Prefix = %q, want default !", cfg.Direct.Prefix)
	}
	if cfg.Sandbox.Mode != "readonly" {
		t.Errorf("Sandbox.Mode = %q, want readonly", cfg.Sandbox.Mode)
	}
	if len(cfg.Sandbox.WritableRoots) != 1 || cfg.Sandbox.WritableRoots[0] != "/tmp/scratch" {
		t.Errorf("WritableRoots = %v, want [/tmp/scratch]", cfg.Sandbox.WritableRoots)
	}
}

func TestLoadFileExplicitFalseOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("direct:\n  enabled: false\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Direct.Enabled {
		t.Error("explicit enabled: false should override the default true")
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("direct: ["), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !droverrors.IsCode(err, droverrors.ErrCodeConfigLoad) {
		t.Errorf("error code = %v, want CONFIG_LOAD", droverrors.GetCode(err))
	}
}

func TestLoadFileInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("direct:\n  prefix: \"$\"\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := LoadFile(path)
	if !droverrors.IsCode(err, droverrors.ErrCodeConfigInvalid) {
		t.Errorf("error code = %v, want CONFIG_INVALID", droverrors.GetCode(err))
	}
}
