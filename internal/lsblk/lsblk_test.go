package lsblk

import (
	"os"
	"testing"
)

func TestParseFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/lsblk.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	devices, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(devices) != 4 {
		t.Fatalf("Parse() returned %d top-level devices, want 4", len(devices))
	}

	sda := devices[0]
	if got := sda.String("name"); got != "sda" {
		t.Errorf("sda name = %q, want %q", got, "sda")
	}
	if len(sda.Children) != 2 {
		t.Fatalf("sda has %d children, want 2", len(sda.Children))
	}
	if _, ok := sda.Attrs["children"]; ok {
		t.Error("children key leaked into the attribute mapping")
	}

	sda1 := sda.Children[0]
	if got := sda1.String("mountpoint"); got != "/boot/efi" {
		t.Errorf("sda1 mountpoint = %q, want %q", got, "/boot/efi")
	}

	// Removable flag decodes as a real bool
	sdb := devices[1]
	if !sdb.Bool("rm") {
		t.Error("sdb should be removable")
	}
	if sda.Bool("rm") {
		t.Error("sda should not be removable")
	}

	// Null children stays empty
	sr0 := devices[2]
	if len(sr0.Children) != 0 {
		t.Errorf("sr0 has %d children, want 0", len(sr0.Children))
	}
}

func TestDevice_String(t *testing.T) {
	d := Device{Attrs: map[string]any{
		"name":       "sdb1",
		"rm":         true,
		"ro":         false,
		"mountpoint": nil,
	}}

	tests := []struct {
		name     string
		attr     string
		expected string
	}{
		{name: "string value", attr: "name", expected: "sdb1"},
		{name: "true renders as 1", attr: "rm", expected: "1"},
		{name: "false renders as 0", attr: "ro", expected: "0"},
		{name: "null renders empty", attr: "mountpoint", expected: ""},
		{name: "absent renders empty", attr: "label", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.String(tt.attr); got != tt.expected {
				t.Errorf("String(%q) = %q, want %q", tt.attr, got, tt.expected)
			}
		})
	}
}

func TestDevice_Path(t *testing.T) {
	tests := []struct {
		name     string
		device   Device
		expected string
	}{
		{
			name:     "path attribute present",
			device:   Device{Attrs: map[string]any{"path": "/dev/sda1", "name": "sda1"}},
			expected: "/dev/sda1",
		},
		{
			name:     "falls back to name",
			device:   Device{Attrs: map[string]any{"name": "sdc"}},
			expected: "/dev/sdc",
		},
		{
			name:     "no identity",
			device:   Device{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.Path(); got != tt.expected {
				t.Errorf("Path() = %q, want %q", got, tt.expected)
			}
		})
	}
}
