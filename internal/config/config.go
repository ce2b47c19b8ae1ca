package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "blkmenu"
	configFile = "config.yaml"
)

// Config is the user configuration. Every field has a sensible default;
// the file is optional.
type Config struct {
	// Columns lists display columns in order; a leading '>' marks a
	// right-aligned column.
	Columns []string `yaml:"columns"`

	Tree  TreeConfig  `yaml:"tree"`
	Mount MountConfig `yaml:"mount"`

	// Keymap maps input keys to action sequences, merged over the
	// built-in bindings. With Override set, installing a binding first
	// removes any existing binding with the identical action sequence.
	Keymap   map[string][]string `yaml:"keymap"`
	Override bool                `yaml:"override"`

	// Handoff is a file path the open action writes the chosen mount
	// point to, for the invoking process to consume.
	Handoff string `yaml:"handoff"`
}

// TreeConfig holds the rule expressions applied while building the
// device tree. Prune rules drop a device with its whole subtree; filter
// rules elide just the device and promote its children.
type TreeConfig struct {
	Prune  []string `yaml:"prune"`
	Filter []string `yaml:"filter"`
}

// MountConfig holds extra arguments for the mount action.
type MountConfig struct {
	FSType  string `yaml:"fstype"`
	Options string `yaml:"options"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Columns: []string{"name", ">size", "fstype", "label", "mountpoint"},
		Tree: TreeConfig{
			Prune: []string{
				`matches(name, "^(loop|ram|zram)")`,
			},
		},
	}
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/blkmenu or $HOME/.config/blkmenu
//   - macOS: $HOME/.config/blkmenu (following XDG convention)
func GetConfigDir() (string, error) {
	if runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration at path, or the default location when
// path is empty. A missing file yields the built-in defaults; a present
// but malformed file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = Default().Columns
	}
	return cfg, nil
}
