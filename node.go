package treasure

import (
	"fmt"
	"strings"
)

// NodeID uniquely identifies a node within a Document.
// IDs are never reused, so a detached node keeps its identity.
type NodeID uint64

// NodeKind distinguishes the components a document line can parse into.
type NodeKind int

const (
	// DataNode is a macro/command line carrying comma-separated values.
	DataNode NodeKind = iota

	// LabelNode is a "name:" declaration.
	LabelNode

	// TextNode is anything kept verbatim: blank lines, comments, directives.
	TextNode
)

func (k NodeKind) String() string {
	switch k {
	case DataNode:
		return "data"
	case LabelNode:
		return "label"
	default:
		return "text"
	}
}

// Node is one component of a Document. Nodes live in the document's
// registry for the document's lifetime; detaching only unlinks them.
type Node struct {
	id   NodeID
	doc  *Document // back-reference to the owning Document
	kind NodeKind

	// Data nodes
	command string
	values  []string
	// spacing[0] precedes the command (indent and any inline comment),
	// spacing[1] separates the command from its values ("" renders as one space).
	spacing  [2]string
	trailing string // trailing comment, including its leading whitespace

	// Label nodes
	name string

	// Text nodes
	text string

	attached bool
}

// ID returns the node's unique identifier.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Document returns the document that owns the node.
func (n *Node) Document() *Document {
	return n.doc
}

// IsLabel reports whether the node is a label declaration.
func (n *Node) IsLabel() bool {
	return n.kind == LabelNode
}

// IsData reports whether the node is a data line.
func (n *Node) IsData() bool {
	return n.kind == DataNode
}

// Attached reports whether the node is currently linked into its document.
func (n *Node) Attached() bool {
	return n.attached
}

// Command returns the data command as written.
func (n *Node) Command() string {
	return n.command
}

// CommandLower returns the data command lowercased, for case-insensitive comparison.
func (n *Node) CommandLower() string {
	return strings.ToLower(n.command)
}

// Name returns a label's name.
func (n *Node) Name() string {
	return n.name
}

// NumValues returns the number of values on a data line.
func (n *Node) NumValues() int {
	return len(n.values)
}

// Value returns the i'th value of a data line, or "" when there is none.
func (n *Node) Value(i int) string {
	if i < 0 || i >= len(n.values) {
		return ""
	}
	return n.values[i]
}

// Values returns a copy of the data line's values.
func (n *Node) Values() []string {
	out := make([]string, len(n.values))
	copy(out, n.values)
	return out
}

// SetValue replaces the i'th value of a data line.
func (n *Node) SetValue(i int, value string) error {
	if n.kind != DataNode {
		return ErrNotData
	}
	if i < 0 || i >= len(n.values) {
		return fmt.Errorf("set value %d of %s: %w", i, n.command, ErrFieldIndex)
	}
	n.values[i] = strings.TrimSpace(value)
	return nil
}

// IntValue evaluates the i'th value of a data line using the project's constants.
func (n *Node) IntValue(i int) (int, error) {
	if n.kind != DataNode {
		return 0, ErrNotData
	}
	if i < 0 || i >= len(n.values) {
		return 0, fmt.Errorf("value %d of %s: %w", i, n.command, ErrFieldIndex)
	}
	return n.doc.project.Eval(n.values[i])
}

// SetSpacing changes the whitespace around the command.
// Index 0 is the text before the command, index 1 the separator after it.
func (n *Node) SetSpacing(i int, spacing string) error {
	if n.kind != DataNode {
		return ErrNotData
	}
	if i < 0 || i >= len(n.spacing) {
		return fmt.Errorf("spacing %d: %w", i, ErrFieldIndex)
	}
	n.spacing[i] = spacing
	return nil
}

// Size returns the number of bytes the node assembles to.
func (n *Node) Size() int {
	if n.kind != DataNode || n.doc == nil || n.doc.project == nil {
		return 0
	}
	return n.doc.project.commandSize(n.command)
}

// Next returns the next data or label node in document order, skipping
// text, or nil at the end of the document or when n is detached.
func (n *Node) Next() *Node {
	for c := n.NextComponent(); c != nil; c = c.NextComponent() {
		if c.kind != TextNode {
			return c
		}
	}
	return nil
}

// NextComponent returns the immediate successor of any kind.
func (n *Node) NextComponent() *Node {
	if !n.attached {
		return nil
	}
	return n.doc.nodeRegistry[n.doc.next[n.id]]
}

// PrevComponent returns the immediate predecessor of any kind.
func (n *Node) PrevComponent() *Node {
	if !n.attached {
		return nil
	}
	return n.doc.nodeRegistry[n.doc.prev[n.id]]
}

// String renders the node as a source line.
func (n *Node) String() string {
	switch n.kind {
	case LabelNode:
		return n.name + ":"
	case TextNode:
		return n.text
	}
	var sb strings.Builder
	sb.WriteString(n.spacing[0])
	sb.WriteString(n.command)
	if len(n.values) > 0 {
		if n.spacing[1] == "" {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(n.spacing[1])
		}
		sb.WriteString(strings.Join(n.values, ", "))
	}
	sb.WriteString(n.trailing)
	return sb.String()
}
