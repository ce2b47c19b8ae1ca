package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Bindings maps an input key (in Bubble Tea key-name form, e.g. "j",
// "down", "enter") to the action sequence executed on that key press.
// The table is built once at startup and never mutated by the input
// loop.
type Bindings map[string][]Action

// DefaultBindings returns the built-in keymap.
func DefaultBindings() Bindings {
	return Bindings{
		"q":     {ActionQuit},
		"j":     {ActionMoveDown},
		"down":  {ActionMoveDown},
		"k":     {ActionMoveUp},
		"up":    {ActionMoveUp},
		"m":     {ActionMount},
		"u":     {ActionUnmount},
		"l":     {ActionLock},
		"L":     {ActionUnlock},
		"e":     {ActionEject},
		"o":     {ActionOpen},
		"enter": {ActionOpen},
		"i":     {ActionInfo},
		"r":     {ActionRefresh},
		"f":     {ActionToggleFilter},
		"?":     {ActionHelp},
	}
}

// key name aliases accepted in configuration
var keyAliases = map[string]string{
	"return": "enter",
	"space":  " ",
	"escape": "esc",
}

func normalizeKey(k string) string {
	if alias, ok := keyAliases[strings.ToLower(k)]; ok {
		return alias
	}
	return k
}

// Apply merges caller-supplied bindings into the table. Each value is an
// action-name sequence; an unknown action name is an error. With
// override set, any existing binding mapping to the identical action
// sequence is removed before the new binding is installed.
func (b Bindings) Apply(extra map[string][]string, override bool) error {
	for k, names := range extra {
		seq, err := ParseSequence(names)
		if err != nil {
			return fmt.Errorf("binding %q: %w", k, err)
		}
		if override {
			for existing, bound := range b {
				if sequencesEqual(bound, seq) {
					delete(b, existing)
				}
			}
		}
		b[normalizeKey(k)] = seq
	}
	return nil
}

func sequencesEqual(a, b []Action) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BindingGroup collects every key bound to one identical action
// sequence, for the help screen.
type BindingGroup struct {
	Keys     []string
	Sequence []Action
}

// Grouped returns the binding table grouped by action sequence, in a
// stable order.
func (b Bindings) Grouped() []BindingGroup {
	bySignature := make(map[string]*BindingGroup)
	for k, seq := range b {
		sig := signature(seq)
		g, ok := bySignature[sig]
		if !ok {
			g = &BindingGroup{Sequence: seq}
			bySignature[sig] = g
		}
		g.Keys = append(g.Keys, k)
	}

	out := make([]BindingGroup, 0, len(bySignature))
	for _, g := range bySignature {
		sort.Slice(g.Keys, func(i, j int) bool {
			// single characters first, then named keys
			if (len(g.Keys[i]) == 1) != (len(g.Keys[j]) == 1) {
				return len(g.Keys[i]) == 1
			}
			return g.Keys[i] < g.Keys[j]
		})
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return signature(out[i].Sequence) < signature(out[j].Sequence)
	})
	return out
}

func signature(seq []Action) string {
	parts := make([]string, len(seq))
	for i, a := range seq {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

// helpBindings builds the short help line entries from whatever keys are
// currently bound to the core actions.
func (b Bindings) helpBindings() []key.Binding {
	order := []struct {
		actions []Action
		label   string
	}{
		{[]Action{ActionMoveUp}, "up"},
		{[]Action{ActionMoveDown}, "down"},
		{[]Action{ActionMount}, "mount"},
		{[]Action{ActionUnmount}, "unmount"},
		{[]Action{ActionOpen}, "open"},
		{[]Action{ActionHelp}, "help"},
		{[]Action{ActionQuit}, "quit"},
	}

	var out []key.Binding
	for _, entry := range order {
		var keys []string
		for k, seq := range b {
			if sequencesEqual(seq, entry.actions) {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		sort.Slice(keys, func(i, j int) bool {
			if (len(keys[i]) == 1) != (len(keys[j]) == 1) {
				return len(keys[i]) == 1
			}
			return keys[i] < keys[j]
		})
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), entry.label),
		))
	}
	return out
}
