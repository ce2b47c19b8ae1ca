// Package menu implements the interactive block device menu.
//
// The menu is a Bubble Tea program following the Elm architecture: a
// single Model holds all state and Update is the only place it changes.
// Devices are enumerated through an lsblk.Lister, shaped by devtree
// rules and shown as a tree-padded table rendered with the table
// package.
//
// # Key Bindings
//
// Every key press maps to an ordered sequence of actions through a
// Bindings table. The defaults cover the usual single-action keys
// (j/k movement, m mount, u unmount, e eject); configuration can bind
// multi-action sequences such as unlock followed by mount:
//
//	bindings := menu.DefaultBindings()
//	bindings.Apply(map[string][]string{"M": {"unlock", "mount"}}, false)
//
// Within a sequence, quit terminates immediately and a failing action
// records its diagnostic while the remaining actions still run.
//
// # Blocking Actions
//
// Mount, unmount, lock and eject run synchronously inside Update; the
// interface blocks until the backend call returns. Unlock and info
// suspend the renderer with tea.ExecProcess so udisksctl can prompt for
// a passphrase and the pager can own the terminal; the rest of the
// bound sequence resumes when the external process exits.
//
// # Transient State
//
// Success output, error diagnostics and the pending-rebuild flag live
// only until the next key press starts. A device list rebuild requested
// by any action in a sequence is applied once, after the whole sequence
// has run, and the cursor is clamped onto the new list.
//
// # Usage Example
//
//	model := menu.New(menu.Params{
//	    Lister:   lsblk.NewCommand(),
//	    Actor:    udisks.NewClient("", ""),
//	    Bindings: menu.DefaultBindings(),
//	    Columns:  table.ParseColumns([]string{"name", ">size", "mountpoint"}),
//	})
//	if err := model.Reload(); err != nil {
//	    log.Fatal(err)
//	}
//	program := tea.NewProgram(model, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package menu
