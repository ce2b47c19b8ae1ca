// Package lsblk enumerates block devices by running lsblk and decoding its
// nested JSON listing into generic attribute mappings.
package lsblk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/blkmenu/internal/shell"
)

// Attribute columns requested from lsblk. Values arrive as strings, bools,
// or null depending on the column.
var outputColumns = []string{
	"NAME", "KNAME", "PATH", "TYPE", "SIZE", "FSTYPE", "LABEL",
	"UUID", "RM", "RO", "MOUNTPOINT", "VENDOR", "MODEL",
}

var ErrNoLsblk = errors.New("lsblk not found")

// Device is one entry from the nested device listing. Attrs holds every
// reported column keyed by its lower-case name; the nested children are
// split out so the attribute mapping stays flat and scalar.
type Device struct {
	Attrs    map[string]any
	Children []Device
}

type rawTree struct {
	Blockdevices []Device `json:"blockdevices"`
}

// UnmarshalJSON splits the "children" key out of the attribute mapping.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Attrs = make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "children" {
			if err := json.Unmarshal(v, &d.Children); err != nil {
				return err
			}
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		d.Attrs[k] = val
	}
	return nil
}

// Attr returns the raw attribute value, or nil when absent.
func (d Device) Attr(name string) any {
	if d.Attrs == nil {
		return nil
	}
	return d.Attrs[name]
}

// String returns the attribute rendered as display text: booleans become
// "1"/"0", null becomes the empty string.
func (d Device) String(name string) string {
	return Render(d.Attr(name))
}

// Bool reports whether the attribute is truthy. lsblk emits RM and RO as
// booleans but older versions report "1"/"0" strings.
func (d Device) Bool(name string) bool {
	switch v := d.Attr(name).(type) {
	case bool:
		return v
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	case float64:
		return v != 0
	default:
		return false
	}
}

// Path returns the device node path, falling back to /dev/<name> when the
// path column is absent.
func (d Device) Path() string {
	if p := d.String("path"); p != "" {
		return p
	}
	if n := d.String("name"); n != "" {
		return "/dev/" + n
	}
	return ""
}

// Render converts a scalar attribute value to its display form.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Lister produces the nested device listing.
type Lister interface {
	List(ctx context.Context) ([]Device, error)
}

// Command runs the real lsblk executable.
type Command struct {
	timeout time.Duration
}

func NewCommand() *Command {
	return &Command{timeout: 5 * time.Second}
}

func (c *Command) List(ctx context.Context) ([]Device, error) {
	if _, err := exec.LookPath("lsblk"); err != nil {
		return nil, ErrNoLsblk
	}
	args := []string{"--json", "-o", strings.Join(outputColumns, ",")}
	res, err := shell.Run(ctx, c.timeout, "lsblk", args...)
	if err != nil {
		msg := strings.TrimSpace(string(res.Stderr))
		if msg != "" {
			return nil, fmt.Errorf("lsblk: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("lsblk: %w", err)
	}
	return Parse(res.Stdout)
}

// Parse decodes lsblk --json output.
func Parse(data []byte) ([]Device, error) {
	var tree rawTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("lsblk json: %w", err)
	}
	return tree.Blockdevices, nil
}
