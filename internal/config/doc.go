// Package config provides user configuration management for blkmenu.
//
// This package manages a YAML configuration file holding the displayed
// columns, the tree prune and filter rules, mount defaults, the user
// keymap and the hand-off file path. The file follows OS conventions
// for storage location:
//   - Linux: $XDG_CONFIG_HOME/blkmenu/config.yaml or $HOME/.config/blkmenu/config.yaml
//   - macOS: $HOME/.config/blkmenu/config.yaml
//
// A missing file at the default location is not an error; built-in
// defaults apply. A path given explicitly must exist.
//
// # File Format
//
//	columns: [name, ">size", fstype, label, mountpoint]
//	tree:
//	  prune:
//	    - matches(name, "^(loop|ram|zram)")
//	  filter:
//	    - rm == true and type == "disk"
//	mount:
//	  options: "noatime"
//	keymap:
//	  M: [unlock, mount]
//	override: false
//	handoff: /tmp/blkmenu.mp
//
// Rule strings are compiled by the rules package; keymap entries are
// validated by the menu package. Both happen at startup so a bad
// configuration fails before the menu appears.
package config
