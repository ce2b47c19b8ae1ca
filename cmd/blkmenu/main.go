// Blkmenu is an interactive block device menu for the terminal.
//
// It renders the lsblk device hierarchy as a filterable, keyboard-driven
// table and dispatches mount, unmount, lock, unlock and eject operations
// to udisksctl. Selecting a mounted device can hand its mount point back
// to the invoking shell through a hand-off file.
//
// Usage:
//
//	blkmenu [flags]
//
// Running without arguments launches the menu with the default keymap
// and filter rules. See 'blkmenu --help' for available flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/blkmenu/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blkmenu",
	Short: "Interactive block device menu",
	Long: `An interactive menu over the block device hierarchy.

Devices are enumerated with lsblk, shown as a tree-padded table and
operated on with single key presses. Mount, unmount, lock, unlock and
eject are dispatched to udisksctl; selecting a mounted device writes
its mount point to a hand-off file for the invoking shell to cd into.

Uninteresting devices (loop, ram, zram by default) are pruned, and
filter rules can elide intermediate nodes while keeping their children
visible. Both rule sets live in the configuration file and can be
toggled at runtime.`,
	Version: version.Version,
	Example: `  # Run with the default configuration
  blkmenu

  # Hand the chosen mount point to the calling shell
  blkmenu --output /tmp/blkmenu.mp && cd "$(cat /tmp/blkmenu.mp)"

  # Show every device, rules disabled
  blkmenu --no-filter

  # Bind M to unlock-then-mount for this run
  blkmenu --bind 'M=unlock,mount'`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blkmenu %s\n", version.Full())
	},
}
