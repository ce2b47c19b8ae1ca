package menu

import (
	"testing"
)

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()
	tests := []struct {
		key  string
		want Action
	}{
		{"q", ActionQuit},
		{"j", ActionMoveDown},
		{"down", ActionMoveDown},
		{"L", ActionUnlock},
		{"enter", ActionOpen},
		{"f", ActionToggleFilter},
	}
	for _, tt := range tests {
		seq, ok := b[tt.key]
		if !ok {
			t.Errorf("key %q not bound", tt.key)
			continue
		}
		if len(seq) != 1 || seq[0] != tt.want {
			t.Errorf("key %q bound to %v, want [%s]", tt.key, seq, tt.want)
		}
	}
}

func TestBindings_Apply(t *testing.T) {
	b := DefaultBindings()
	err := b.Apply(map[string][]string{
		"M":      {"unlock", "mount"},
		"return": {"open"},
	}, false)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sequencesEqual(b["M"], []Action{ActionUnlock, ActionMount}) {
		t.Errorf("M bound to %v", b["M"])
	}
	// "return" is an alias for enter; without override both o and enter
	// keep their open binding.
	if !sequencesEqual(b["enter"], []Action{ActionOpen}) {
		t.Errorf("enter bound to %v", b["enter"])
	}
	if !sequencesEqual(b["o"], []Action{ActionOpen}) {
		t.Errorf("o bound to %v, want open kept", b["o"])
	}
}

func TestBindings_ApplyOverride(t *testing.T) {
	b := DefaultBindings()
	if err := b.Apply(map[string][]string{"x": {"open"}}, true); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sequencesEqual(b["x"], []Action{ActionOpen}) {
		t.Errorf("x bound to %v", b["x"])
	}
	for _, old := range []string{"o", "enter"} {
		if _, ok := b[old]; ok {
			t.Errorf("key %q still bound after override", old)
		}
	}
	// Unrelated bindings survive.
	if _, ok := b["q"]; !ok {
		t.Error("q lost its binding")
	}
}

func TestBindings_ApplyUnknownAction(t *testing.T) {
	b := DefaultBindings()
	if err := b.Apply(map[string][]string{"x": {"explode"}}, false); err == nil {
		t.Error("Apply() accepted an unknown action")
	}
	if err := b.Apply(map[string][]string{"x": {}}, false); err == nil {
		t.Error("Apply() accepted an empty sequence")
	}
}

func TestBindings_Grouped(t *testing.T) {
	b := Bindings{
		"j":    {ActionMoveDown},
		"down": {ActionMoveDown},
		"q":    {ActionQuit},
	}
	groups := b.Grouped()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	var down *BindingGroup
	for i := range groups {
		if sequencesEqual(groups[i].Sequence, []Action{ActionMoveDown}) {
			down = &groups[i]
		}
	}
	if down == nil {
		t.Fatal("movedown group missing")
	}
	if len(down.Keys) != 2 || down.Keys[0] != "j" || down.Keys[1] != "down" {
		t.Errorf("movedown keys = %v, want [j down]", down.Keys)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"return", "enter"},
		{"space", " "},
		{"escape", "esc"},
		{"j", "j"},
		{"ctrl+d", "ctrl+d"},
	}
	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence([]string{"unlock", "mount", "open"})
	if err != nil {
		t.Fatalf("ParseSequence() error = %v", err)
	}
	want := []Action{ActionUnlock, ActionMount, ActionOpen}
	if !sequencesEqual(seq, want) {
		t.Errorf("ParseSequence() = %v, want %v", seq, want)
	}
	if _, err := ParseSequence(nil); err == nil {
		t.Error("ParseSequence(nil) did not fail")
	}
}
