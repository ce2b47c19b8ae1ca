package menu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/blkmenu/internal/devtree"
	"github.com/muurk/blkmenu/internal/logging"
	"github.com/muurk/blkmenu/internal/lsblk"
	"github.com/muurk/blkmenu/internal/rules"
	"github.com/muurk/blkmenu/internal/table"
	"github.com/muurk/blkmenu/internal/udisks"
)

// Params configures a menu Model.
type Params struct {
	Lister   lsblk.Lister
	Actor    udisks.Actor
	Bindings Bindings
	Columns  []table.Column

	PruneRules  []rules.Rule
	FilterRules []rules.Rule

	// FilterEnabled is the initial rule-application state; the
	// toggle_filter action flips it at runtime.
	FilterEnabled bool

	// HandoffPath, when set, receives the chosen mount point when the
	// open action fires, for the invoking process to consume.
	HandoffPath string
}

// Model is the interactive selection state machine. All state lives here
// and is mutated only by Update; there is no concurrency. The only
// suspension points are the key-event wait and blocking backend calls.
type Model struct {
	lister   lsblk.Lister
	actor    udisks.Actor
	bindings Bindings
	columns  []table.Column

	pruneRules  []rules.Rule
	filterRules []rules.Rule
	handoffPath string

	entries       []devtree.Entry
	selected      int
	filterEnabled bool

	// Transient per-key-press state: at most one of errorText and
	// messageText is meaningful; both are cleared when the next key
	// press starts.
	errorText        string
	messageText      string
	refreshRequested bool
	stopRequested    bool

	showHelp bool
	help     help.Model
	width    int
	height   int
}

// execDoneMsg reports the completion of an external process run under a
// suspended renderer (unlock, info). rest carries the actions bound
// after the suspending one on the same key, resumed on receipt.
type execDoneMsg struct {
	verb   string
	device string
	rest   []Action
	err    error
}

// New builds a menu model. Call Reload once before handing the model to
// a Bubble Tea program so startup enumeration failures stay fatal.
func New(p Params) Model {
	return Model{
		lister:        p.Lister,
		actor:         p.Actor,
		bindings:      p.Bindings,
		columns:       p.Columns,
		pruneRules:    p.PruneRules,
		filterRules:   p.FilterRules,
		filterEnabled: p.FilterEnabled,
		handoffPath:   p.HandoffPath,
		help:          help.New(),
	}
}

// Reload re-runs enumeration and rebuilds the device tree with the
// current filter state, keeping the cursor on a valid device.
func (m *Model) Reload() error {
	devices, err := m.lister.List(context.Background())
	if err != nil {
		return err
	}
	root := devtree.Build(devices, m.pruneRules, m.filterRules, m.filterEnabled)
	m.entries = devtree.Flatten(root)
	if len(m.entries) == 0 {
		m.selected = 0
	} else if m.selected >= len(m.entries) {
		m.selected = len(m.entries) - 1
	} else if m.selected < 0 {
		m.selected = 0
	}
	logging.Debug("Device list rebuilt")
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case execDoneMsg:
		m.finishExec(msg)
		cmd := m.executeSequence(msg.rest)
		return m, cmd

	case tea.KeyMsg:
		// The help screen swallows the next key press whole.
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		seq, ok := m.bindings[msg.String()]
		if !ok {
			return m, nil
		}
		// New key-press cycle: transient state resets first.
		m.errorText = ""
		m.messageText = ""
		m.refreshRequested = false
		cmd := m.executeSequence(seq)
		return m, cmd
	}
	return m, nil
}

// executeSequence runs the bound actions in order against the shared
// state. quit terminates immediately, bypassing the rest; a failing
// action records its error and the remaining actions still execute.
// A suspending action returns a tea.ExecProcess command carrying the
// remainder of the sequence, resumed when the process exits.
func (m *Model) executeSequence(actions []Action) tea.Cmd {
	for i, action := range actions {
		switch action {
		case ActionQuit:
			m.stopRequested = true
			return tea.Quit

		case ActionMoveDown:
			m.move(1)
		case ActionMoveUp:
			m.move(-1)

		case ActionRefresh:
			m.refreshRequested = true

		case ActionToggleFilter:
			m.filterEnabled = !m.filterEnabled
			m.refreshRequested = true

		case ActionHelp:
			m.showHelp = true

		case ActionMount, ActionUnmount, ActionLock, ActionEject:
			m.runBackend(action)

		case ActionOpen:
			m.openSelected()

		case ActionUnlock:
			if cmd := m.suspendUnlock(actions[i+1:]); cmd != nil {
				return cmd
			}

		case ActionInfo:
			if cmd := m.suspendInfo(actions[i+1:]); cmd != nil {
				return cmd
			}
		}
	}
	return m.finishSequence()
}

// finishSequence applies the deferred rebuild after a full action
// sequence and turns a pending stop request into program termination.
func (m *Model) finishSequence() tea.Cmd {
	if m.refreshRequested {
		if err := m.Reload(); err != nil {
			m.errorText = err.Error()
		}
	}
	if m.stopRequested {
		return tea.Quit
	}
	return nil
}

func (m *Model) move(delta int) {
	count := len(m.entries)
	if count == 0 {
		return
	}
	m.selected = ((m.selected+delta)%count + count) % count
}

func (m *Model) selectedNode() *devtree.Node {
	if m.selected < 0 || m.selected >= len(m.entries) {
		return nil
	}
	return m.entries[m.selected].Node
}

// runBackend performs a non-interactive device action synchronously.
// With no device selected this is silently a no-op.
func (m *Model) runBackend(action Action) {
	node := m.selectedNode()
	if node == nil {
		return
	}
	path := node.Path()
	logging.LogAction(string(action), path)

	ctx := context.Background()
	var out string
	var err error
	switch action {
	case ActionMount:
		out, err = m.actor.Mount(ctx, path)
	case ActionUnmount:
		out, err = m.actor.Unmount(ctx, path)
	case ActionLock:
		out, err = m.actor.Lock(ctx, path)
	case ActionEject:
		out, err = m.actor.Eject(ctx, path)
	}
	if err != nil {
		m.errorText = err.Error()
		return
	}
	m.messageText = out
	m.refreshRequested = true
}

// openSelected hands the selected mount point back to the invoking
// process and requests loop termination.
func (m *Model) openSelected() {
	node := m.selectedNode()
	if node == nil {
		return
	}
	mountpoint := node.Mountpoint()
	if mountpoint == "" || strings.HasPrefix(mountpoint, "[") {
		m.errorText = fmt.Sprintf("%s is not mounted", node.Path())
		return
	}
	if m.handoffPath != "" {
		if err := os.WriteFile(m.handoffPath, []byte(mountpoint+"\n"), 0o644); err != nil {
			m.errorText = fmt.Sprintf("write %s: %v", m.handoffPath, err)
			return
		}
	}
	m.messageText = "entering " + mountpoint
	m.stopRequested = true
}

// suspendUnlock tears down the renderer and runs the interactive unlock
// command on the real terminal (it may prompt for a passphrase). A nil
// return means nothing was started and the sequence continues inline.
func (m *Model) suspendUnlock(rest []Action) tea.Cmd {
	node := m.selectedNode()
	if node == nil {
		return nil
	}
	path := node.Path()
	logging.LogAction(string(ActionUnlock), path)
	return tea.ExecProcess(m.actor.UnlockCommand(path), func(err error) tea.Msg {
		return execDoneMsg{verb: "unlock", device: path, rest: rest, err: err}
	})
}

// suspendInfo pipes the selected device's attributes through the pager.
func (m *Model) suspendInfo(rest []Action) tea.Cmd {
	node := m.selectedNode()
	if node == nil {
		return nil
	}
	cmd, err := udisks.PagerCommand(formatAttributes(node))
	if err != nil {
		m.errorText = err.Error()
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return execDoneMsg{verb: "info", device: node.Path(), rest: rest, err: err}
	})
}

// finishExec records the outcome of a suspended external process.
func (m *Model) finishExec(msg execDoneMsg) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, exec.ErrNotFound):
			m.errorText = fmt.Sprintf("%s: executable not found", msg.verb)
		default:
			diag := udisks.CleanMessage(msg.err.Error(), msg.device)
			m.errorText = fmt.Sprintf("%s %s: %s", msg.verb, msg.device, diag)
		}
		return
	}
	if msg.verb == "unlock" {
		m.messageText = "unlocked " + msg.device
		m.refreshRequested = true
	}
}

// formatAttributes renders every attribute of a device as column-aligned
// "NAME  value" lines for the pager.
func formatAttributes(node *devtree.Node) string {
	names := make([]string, 0, len(node.Attrs))
	for name := range node.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]map[string]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, map[string]any{
			"attribute": strings.ToUpper(name),
			"value":     node.Attrs[name],
		})
	}
	_, lines := table.Format(rows, table.ParseColumns([]string{"attribute", "value"}), table.Options{})
	return strings.Join(lines, "\n") + "\n"
}

// --- rendering ---

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder

	header, lines := table.Format(m.displayRows(), m.columns, table.Options{
		Header:  true,
		Stretch: m.width > 0,
		Width:   m.width,
	})
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	for i, line := range lines {
		if i == m.selected {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(lines) == 0 {
		b.WriteString(statusStyle.Render("(no devices)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

// displayRows recomputes the rendering mapping for every entry: the
// attributes themselves are never mutated, the name is shown behind its
// tree padding.
func (m Model) displayRows() []map[string]any {
	rows := make([]map[string]any, len(m.entries))
	for i, e := range m.entries {
		row := make(map[string]any, len(e.Node.Attrs))
		for k, v := range e.Node.Attrs {
			row[k] = v
		}
		row["name"] = e.Padding + e.Node.Name()
		rows[i] = row
	}
	return rows
}

func (m Model) footerView() string {
	var status string
	switch {
	case m.errorText != "":
		status = errorStyle.Render("✗ " + m.errorText)
	case m.messageText != "":
		status = messageStyle.Render("✓ " + m.messageText)
	default:
		filter := "filter off"
		if m.filterEnabled {
			filter = "filter on"
		}
		status = statusStyle.Render(fmt.Sprintf("%d devices · %s", len(m.entries), filter))
	}
	return status + "\n" + m.help.View(helpKeyMap{bindings: m.bindings})
}

// helpView renders the full key reference, grouping keys bound to the
// same action sequence.
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Key bindings"))
	b.WriteString("\n")

	for _, group := range m.bindings.Grouped() {
		keys := make([]string, len(group.Keys))
		for i, k := range group.Keys {
			keys[i] = displayKey(k)
		}
		descs := make([]string, len(group.Sequence))
		for i, a := range group.Sequence {
			descs[i] = a.Description()
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			helpKeyStyle.Render(justifyLeft(strings.Join(keys, ", "), 12)),
			justifyLeft(signature(group.Sequence), 22),
			helpDescStyle.Render(strings.Join(descs, "; ")),
		))
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render("press any key to return"))
	return b.String()
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func justifyLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// helpKeyMap adapts the binding table to the bubbles help component.
type helpKeyMap struct {
	bindings Bindings
}

func (h helpKeyMap) ShortHelp() []key.Binding {
	return h.bindings.helpBindings()
}

func (h helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.bindings.helpBindings()}
}
