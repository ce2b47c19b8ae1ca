// Package devtree builds the filtered device hierarchy and flattens it
// into display order.
//
// Two removal semantics apply while building. A prune rule removes a
// device together with its whole subtree. A filter rule elides just the
// matching device: its children are promoted to the elided device's
// parent, spliced in at the position the device occupied among its
// siblings. Prune always wins when both rule sets match the same device;
// filter rules are never evaluated for a pruned device.
package devtree

import (
	"maps"

	"github.com/muurk/blkmenu/internal/lsblk"
	"github.com/muurk/blkmenu/internal/rules"
)

// Node is one device in the rewritten hierarchy. The root node carries no
// attributes; it exists only as a traversal anchor and is never rendered.
type Node struct {
	Attrs    map[string]any
	Parent   *Node
	Children []*Node
	Root     bool
}

// Name returns the device name attribute.
func (n *Node) Name() string {
	return lsblk.Render(n.Attrs["name"])
}

// Path returns the device node path, falling back to /dev/<name>.
func (n *Node) Path() string {
	if p := lsblk.Render(n.Attrs["path"]); p != "" {
		return p
	}
	if name := n.Name(); name != "" {
		return "/dev/" + name
	}
	return ""
}

// Mountpoint returns the mount point attribute, empty when unmounted.
func (n *Node) Mountpoint() string {
	return lsblk.Render(n.Attrs["mountpoint"])
}

// Build rewrites the raw nested listing into a tree, applying prune and
// filter rules when applyRules is set. The returned root is synthetic.
func Build(devices []lsblk.Device, prune, filter []rules.Rule, applyRules bool) *Node {
	root := &Node{Root: true}
	for _, d := range devices {
		root.Children = append(root.Children, build(d, root, prune, filter, applyRules)...)
	}
	return root
}

// build returns the nodes the caller should splice into its child list:
// nothing when pruned, the node itself normally, or the node's promoted
// children when the node is elided by a filter rule.
func build(d lsblk.Device, parent *Node, prune, filter []rules.Rule, applyRules bool) []*Node {
	if applyRules && rules.Matches(d.Attrs, prune) {
		return nil
	}

	n := &Node{Attrs: maps.Clone(d.Attrs), Parent: parent}
	for _, c := range d.Children {
		n.Children = append(n.Children, build(c, n, prune, filter, applyRules)...)
	}

	if applyRules && rules.Matches(d.Attrs, filter) {
		// Elide this node: hand the already-filtered children to the
		// caller, re-parented past the elided node.
		for _, c := range n.Children {
			c.Parent = parent
		}
		return n.Children
	}
	return []*Node{n}
}

// Entry is one flattened device annotated with its tree-drawing prefix.
// The padding reflects tree shape only and is recomputed on every
// flatten pass; sorting a flattened sequence would invalidate it.
type Entry struct {
	Node    *Node
	Padding string
}

// Flatten walks the tree depth-first, parents before children, and
// annotates each device with its box-drawing prefix. Direct children of
// the root get an empty prefix; deeper devices get their parent's
// continuation prefix plus a branch glyph.
func Flatten(root *Node) []Entry {
	var out []Entry
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for i, c := range n.Children {
			last := i == len(n.Children)-1
			var padding, childPrefix string
			if n.Root {
				padding = ""
				childPrefix = ""
			} else {
				branch, cont := "├─ ", "│  "
				if last {
					branch, cont = "└─ ", "   "
				}
				padding = prefix + branch
				childPrefix = prefix + cont
			}
			out = append(out, Entry{Node: c, Padding: padding})
			walk(c, childPrefix)
		}
	}
	walk(root, "")
	return out
}
