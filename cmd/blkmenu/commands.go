package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/blkmenu/internal/config"
	"github.com/muurk/blkmenu/internal/logging"
	"github.com/muurk/blkmenu/internal/lsblk"
	"github.com/muurk/blkmenu/internal/menu"
	"github.com/muurk/blkmenu/internal/rules"
	"github.com/muurk/blkmenu/internal/table"
	"github.com/muurk/blkmenu/internal/udisks"
)

// Menu flags
var (
	configPath  string
	outputPath  string
	noFilter    bool
	columnSpecs []string
	bindSpecs   []string
	override    bool
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: $XDG_CONFIG_HOME/blkmenu/config.yaml)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the opened mount point to this file")
	rootCmd.Flags().BoolVar(&noFilter, "no-filter", false, "Start with prune and filter rules disabled")
	rootCmd.Flags().StringSliceVar(&columnSpecs, "columns", nil, "Columns to display (prefix with > for right alignment)")
	rootCmd.Flags().StringArrayVar(&bindSpecs, "bind", nil, "Extra key binding as key=action[,action...] (repeatable)")
	rootCmd.Flags().BoolVar(&override, "override", false, "Extra bindings replace defaults bound to the same actions")
}

func runMenu(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("logging setup failed: %w", err)
	}
	defer logging.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	prune, err := rules.CompileAll(cfg.Tree.Prune)
	if err != nil {
		return fmt.Errorf("prune rule: %w", err)
	}
	filter, err := rules.CompileAll(cfg.Tree.Filter)
	if err != nil {
		return fmt.Errorf("filter rule: %w", err)
	}

	bindings := menu.DefaultBindings()
	if err := bindings.Apply(cfg.Keymap, cfg.Override); err != nil {
		return err
	}
	extra, err := parseBindFlags(bindSpecs)
	if err != nil {
		return err
	}
	if err := bindings.Apply(extra, override); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	model := menu.New(menu.Params{
		Lister:        lsblk.NewCommand(),
		Actor:         udisks.NewClient(cfg.Mount.FSType, cfg.Mount.Options),
		Bindings:      bindings,
		Columns:       table.ParseColumns(cfg.Columns),
		PruneRules:    prune,
		FilterRules:   filter,
		FilterEnabled: !noFilter,
		HandoffPath:   cfg.Handoff,
	})
	// A broken environment (no lsblk, bad PATH) should fail loudly
	// instead of presenting an empty menu.
	if err := model.Reload(); err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("menu error: %w", err)
	}
	return nil
}

// applyFlags folds command line overrides into the loaded configuration.
func applyFlags(cfg *config.Config) {
	if outputPath != "" {
		cfg.Handoff = outputPath
	}
	if len(columnSpecs) > 0 {
		cfg.Columns = columnSpecs
	}
}

// parseBindFlags turns repeated --bind key=action[,action...] flags into
// the keymap form the configuration file uses.
func parseBindFlags(specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(specs))
	for _, spec := range specs {
		key, actions, ok := strings.Cut(spec, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid binding %q, expected key=action[,action...]", spec)
		}
		out[key] = strings.Split(actions, ",")
	}
	return out, nil
}
