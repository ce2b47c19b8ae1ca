package menu

import "fmt"

// Action is one named menu operation. A key binds to an ordered sequence
// of actions, all executed on a single key press.
type Action string

const (
	ActionQuit         Action = "quit"
	ActionMoveDown     Action = "movedown"
	ActionMoveUp       Action = "moveup"
	ActionMount        Action = "mount"
	ActionUnmount      Action = "unmount"
	ActionLock         Action = "lock"
	ActionUnlock       Action = "unlock"
	ActionEject        Action = "eject"
	ActionOpen         Action = "open"
	ActionInfo         Action = "info"
	ActionRefresh      Action = "refresh"
	ActionToggleFilter Action = "toggle_filter"
	ActionHelp         Action = "help"
)

var actionDescriptions = map[Action]string{
	ActionQuit:         "quit the menu",
	ActionMoveDown:     "move the cursor down",
	ActionMoveUp:       "move the cursor up",
	ActionMount:        "mount the selected device",
	ActionUnmount:      "unmount the selected device",
	ActionLock:         "lock the selected encrypted device",
	ActionUnlock:       "unlock the selected encrypted device",
	ActionEject:        "power off the selected drive",
	ActionOpen:         "open the mount point and exit",
	ActionInfo:         "show all device attributes in the pager",
	ActionRefresh:      "rebuild the device list",
	ActionToggleFilter: "toggle the device filter",
	ActionHelp:         "show this help screen",
}

// ParseAction validates an action name from configuration. An unknown
// name is a configuration error, fatal at startup.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if _, ok := actionDescriptions[a]; !ok {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// ParseSequence validates an ordered action sequence.
func ParseSequence(names []string) ([]Action, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("empty action sequence")
	}
	out := make([]Action, 0, len(names))
	for _, n := range names {
		a, err := ParseAction(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Description returns the human-readable action description.
func (a Action) Description() string {
	return actionDescriptions[a]
}
