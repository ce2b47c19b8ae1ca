package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.Columns) == 0 {
		t.Fatal("default config has no columns")
	}
	if cfg.Columns[0] != "name" {
		t.Errorf("first default column = %q, want %q", cfg.Columns[0], "name")
	}
	if len(cfg.Tree.Prune) == 0 {
		t.Error("default config should prune loop/ram devices")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
columns: [name, ">size", mountpoint]
tree:
  prune:
    - contains(name, "loop")
  filter:
    - type == "disk"
mount:
  options: "noexec,nosuid"
keymap:
  "M": [unlock, mount]
override: true
handoff: /tmp/blkmenu.out
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Columns) != 3 || cfg.Columns[1] != ">size" {
		t.Errorf("Columns = %v", cfg.Columns)
	}
	if len(cfg.Tree.Filter) != 1 || cfg.Tree.Filter[0] != `type == "disk"` {
		t.Errorf("Tree.Filter = %v", cfg.Tree.Filter)
	}
	if cfg.Mount.Options != "noexec,nosuid" {
		t.Errorf("Mount.Options = %q", cfg.Mount.Options)
	}
	if got := cfg.Keymap["M"]; len(got) != 2 || got[0] != "unlock" || got[1] != "mount" {
		t.Errorf("Keymap[M] = %v", got)
	}
	if !cfg.Override {
		t.Error("Override not parsed")
	}
	if cfg.Handoff != "/tmp/blkmenu.out" {
		t.Errorf("Handoff = %q", cfg.Handoff)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestLoad_MissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Columns) == 0 {
		t.Error("missing default config should fall back to defaults")
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("columns: [unclosed"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed yaml should fail")
	}
}
