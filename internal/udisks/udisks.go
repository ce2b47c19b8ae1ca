// Package udisks wraps the udisksctl command line tool, the external
// backend that performs every device action.
package udisks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/muurk/blkmenu/internal/logging"
	"github.com/muurk/blkmenu/internal/shell"
	"go.uber.org/zap"
)

const executable = "udisksctl"

// ErrBackendMissing marks a required external executable that is absent,
// as opposed to one that ran and reported failure.
var ErrBackendMissing = errors.New("executable not found")

// ActionError is a device action failure surfaced to the menu. Message
// carries the backend diagnostic, already cleaned of protocol noise.
type ActionError struct {
	Verb    string
	Device  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Verb, e.Device, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Verb, e.Device)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Actor executes device actions. The non-interactive verbs return the
// backend's human-readable result string on success. UnlockCommand is
// split out because unlocking may prompt for a passphrase and therefore
// needs the full terminal, which the menu suspends around it.
type Actor interface {
	Mount(ctx context.Context, devicePath string) (string, error)
	Unmount(ctx context.Context, devicePath string) (string, error)
	Lock(ctx context.Context, devicePath string) (string, error)
	Eject(ctx context.Context, devicePath string) (string, error)
	UnlockCommand(devicePath string) *exec.Cmd
}

// Client shells out to udisksctl.
type Client struct {
	// FSType and Options are passed to mount as -t and -o when set.
	FSType  string
	Options string

	timeout time.Duration
}

func NewClient(fstype, options string) *Client {
	return &Client{FSType: fstype, Options: options, timeout: 30 * time.Second}
}

func (c *Client) Mount(ctx context.Context, devicePath string) (string, error) {
	args := []string{"mount", "-b", devicePath}
	if c.FSType != "" {
		args = append(args, "-t", c.FSType)
	}
	if c.Options != "" {
		args = append(args, "-o", c.Options)
	}
	return c.run(ctx, "mount", devicePath, args)
}

func (c *Client) Unmount(ctx context.Context, devicePath string) (string, error) {
	return c.run(ctx, "unmount", devicePath, []string{"unmount", "-b", devicePath})
}

func (c *Client) Lock(ctx context.Context, devicePath string) (string, error) {
	return c.run(ctx, "lock", devicePath, []string{"lock", "-b", devicePath})
}

func (c *Client) Eject(ctx context.Context, devicePath string) (string, error) {
	return c.run(ctx, "eject", devicePath, []string{"power-off", "-b", devicePath})
}

// UnlockCommand builds the interactive unlock invocation. The caller is
// responsible for attaching it to the terminal and running it.
func (c *Client) UnlockCommand(devicePath string) *exec.Cmd {
	return exec.Command(executable, "unlock", "-b", devicePath)
}

func (c *Client) run(ctx context.Context, verb, devicePath string, args []string) (string, error) {
	if _, err := exec.LookPath(executable); err != nil {
		return "", &ActionError{
			Verb:    verb,
			Device:  devicePath,
			Message: executable + " not found",
			Err:     ErrBackendMissing,
		}
	}

	res, err := shell.Run(ctx, c.timeout, executable, args...)
	if err != nil {
		diag := strings.TrimSpace(string(res.Stderr))
		if diag == "" {
			diag = strings.TrimSpace(string(res.Stdout))
		}
		logging.Warn("Backend action failed",
			zap.String("verb", verb),
			zap.String("device", devicePath),
			zap.String("diagnostic", diag),
		)
		return "", &ActionError{
			Verb:    verb,
			Device:  devicePath,
			Message: CleanMessage(diag, devicePath),
			Err:     err,
		}
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

var (
	gdbusErrorRe = regexp.MustCompile(`GDBus\.Error:[A-Za-z0-9._-]+:\s*`)
	objectPathRe = regexp.MustCompile(`/org/freedesktop/UDisks2/block_devices/([A-Za-z0-9_]+)`)
)

// CleanMessage strips udisks protocol noise from a diagnostic: the
// "Error <verbing> ..." boilerplate and GDBus error-name prefixes go
// away, and D-Bus object paths are rewritten to the real device path.
func CleanMessage(msg, devicePath string) string {
	msg = strings.TrimSpace(msg)
	msg = gdbusErrorRe.ReplaceAllString(msg, "")
	msg = objectPathRe.ReplaceAllStringFunc(msg, func(m string) string {
		sub := objectPathRe.FindStringSubmatch(m)
		// Object path names encode the device name; sdb1 stays sdb1
		// but dm-0 style names arrive with underscores.
		return "/dev/" + strings.ReplaceAll(sub[1], "_", "-")
	})
	if devicePath != "" {
		for _, verb := range []string{"mounting", "unmounting", "locking", "unlocking", "powering off"} {
			prefix := fmt.Sprintf("Error %s %s:", verb, devicePath)
			if strings.HasPrefix(msg, prefix) {
				msg = strings.TrimSpace(strings.TrimPrefix(msg, prefix))
				break
			}
		}
	}
	return msg
}

// PagerCommand builds the external pager invocation used by the info
// action, feeding it content on stdin. Respects $PAGER, defaulting to
// less.
func PagerCommand(content string) (*exec.Cmd, error) {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}
	fields := strings.Fields(pager)
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, &ActionError{
			Verb:    "info",
			Message: fields[0] + " not found",
			Err:     ErrBackendMissing,
		}
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(content)
	return cmd, nil
}
