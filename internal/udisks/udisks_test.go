package udisks

import (
	"errors"
	"testing"
)

func TestCleanMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		device   string
		expected string
	}{
		{
			name:     "gdbus prefix stripped",
			msg:      "GDBus.Error:org.freedesktop.UDisks2.Error.Failed: Device is busy",
			device:   "/dev/sdb1",
			expected: "Device is busy",
		},
		{
			name:     "verb boilerplate stripped",
			msg:      "Error mounting /dev/sdb1: GDBus.Error:org.freedesktop.UDisks2.Error.AlreadyMounted: Device is already mounted",
			device:   "/dev/sdb1",
			expected: "Device is already mounted",
		},
		{
			name:     "unmount boilerplate stripped",
			msg:      "Error unmounting /dev/sdb1: target is busy",
			device:   "/dev/sdb1",
			expected: "target is busy",
		},
		{
			name:     "object path rewritten",
			msg:      "Object /org/freedesktop/UDisks2/block_devices/sdb1 is not a mountable filesystem",
			device:   "/dev/sdb1",
			expected: "Object /dev/sdb1 is not a mountable filesystem",
		},
		{
			name:     "object path with underscores",
			msg:      "Object /org/freedesktop/UDisks2/block_devices/dm_0 is locked",
			device:   "/dev/dm-0",
			expected: "Object /dev/dm-0 is locked",
		},
		{
			name:     "plain message untouched",
			msg:      "not authorized to perform operation",
			device:   "/dev/sdb1",
			expected: "not authorized to perform operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMessage(tt.msg, tt.device); got != tt.expected {
				t.Errorf("CleanMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionError(t *testing.T) {
	base := errors.New("exit status 1")
	err := &ActionError{Verb: "mount", Device: "/dev/sdb1", Message: "Device is busy", Err: base}

	if err.Error() != "Device is busy" {
		t.Errorf("Error() = %q, want the cleaned message", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("ActionError should unwrap to the underlying error")
	}

	// Without a diagnostic, fall back to describing the failed verb.
	bare := &ActionError{Verb: "eject", Device: "/dev/sr0", Err: base}
	if bare.Error() != "eject /dev/sr0: exit status 1" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestActionError_BackendMissing(t *testing.T) {
	err := &ActionError{Verb: "mount", Device: "/dev/sdb1", Message: "udisksctl not found", Err: ErrBackendMissing}
	if !errors.Is(err, ErrBackendMissing) {
		t.Error("missing-executable errors must be distinguishable with errors.Is")
	}
}

func TestClient_MountArgs(t *testing.T) {
	c := NewClient("vfat", "uid=1000")
	cmd := c.UnlockCommand("/dev/sdb1")
	want := []string{"udisksctl", "unlock", "-b", "/dev/sdb1"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("UnlockCommand args = %v, want %v", cmd.Args, want)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("UnlockCommand args = %v, want %v", cmd.Args, want)
		}
	}
}
