package rules

import "testing"

var testAttrs = map[string]any{
	"name":       "sdb1",
	"type":       "part",
	"fstype":     "exfat",
	"label":      "USBSTICK",
	"rm":         true,
	"ro":         false,
	"mountpoint": nil,
	"size":       "14.9G",
}

func mustCompile(t *testing.T, src string) Rule {
	t.Helper()
	r, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", src, err)
	}
	return r
}

func TestRule_Eval(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected bool
	}{
		{name: "bare truthy bool", expr: "rm", expected: true},
		{name: "bare falsy bool", expr: "ro", expected: false},
		{name: "bare null attribute", expr: "mountpoint", expected: false},
		{name: "bare non-empty string", expr: "fstype", expected: true},
		{name: "string equality", expr: `type == "part"`, expected: true},
		{name: "string inequality", expr: `type != "disk"`, expected: true},
		{name: "single quotes", expr: "fstype == 'exfat'", expected: true},
		{name: "bool equality", expr: "rm == true", expected: true},
		{name: "bool against numeric string", expr: `rm == "1"`, expected: true},
		{name: "null comparison", expr: "mountpoint == null", expected: true},
		{name: "and", expr: `rm and type == "part"`, expected: true},
		{name: "and short-circuit", expr: `ro and type == "part"`, expected: false},
		{name: "or", expr: `ro or rm`, expected: true},
		{name: "not", expr: "not ro", expected: true},
		{name: "bang", expr: "!rm", expected: false},
		{name: "symbolic operators", expr: `rm && type == "part" || ro`, expected: true},
		{name: "parens", expr: `not (rm and ro)`, expected: true},
		{name: "contains match", expr: `contains(name, "sdb")`, expected: true},
		{name: "contains miss", expr: `contains(name, "nvme")`, expected: false},
		{name: "matches", expr: `matches(name, "^sd[a-z][0-9]$")`, expected: true},
		{name: "matches miss", expr: `matches(name, "^sr")`, expected: false},
		{name: "matches literal pattern arg", expr: `matches("loop7", "^loop")`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustCompile(t, tt.expr)
			got, err := r.Eval(testAttrs)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestRule_EvalErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "unknown attribute", expr: "hotplug"},
		{name: "unknown attribute in comparison", expr: `serial == "X"`},
		{name: "bad regexp", expr: `matches(name, "[")`},
		{name: "unknown function", expr: `glob(name, "sd*")`},
		{name: "wrong arity", expr: `contains(name)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustCompile(t, tt.expr)
			if _, err := r.Eval(testAttrs); err == nil {
				t.Errorf("Eval(%q) expected error, got none", tt.expr)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "single equals", expr: `type = "part"`},
		{name: "unterminated string", expr: `type == "part`},
		{name: "dangling operator", expr: "rm and"},
		{name: "unbalanced parens", expr: "(rm or ro"},
		{name: "trailing garbage", expr: "rm ro"},
		{name: "empty expression", expr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.expr); err == nil {
				t.Errorf("Compile(%q) expected error, got none", tt.expr)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	rs, err := CompileAll([]string{
		"nonexistent",       // evaluation error, skipped
		`type == "loop"`,    // false
		`contains(name, "sdb")`, // first true rule wins
		`ro`,
	})
	if err != nil {
		t.Fatalf("CompileAll() error = %v", err)
	}

	if !Matches(testAttrs, rs) {
		t.Error("Matches() = false, want true")
	}
	if Matches(testAttrs, nil) {
		t.Error("Matches() with empty rule list = true, want false")
	}
	if Matches(testAttrs, rs[:2]) {
		t.Error("Matches() with only failing rules = true, want false")
	}
}
