package treasure

import (
	"fmt"
	"strings"
)

// Document is an editable source file held as an ordered chain of nodes.
//
// Every node ever created for the document stays in nodeRegistry; the
// document order is kept separately in next/prev links. Detaching a node
// unlinks it without dropping it from the registry, so anything holding the
// *Node (a TreasureObject, for example) keeps a valid reference and can see
// the node again once it is re-inserted elsewhere.
type Document struct {
	project *Project

	// Identity
	id   string // uuid, recorded in checkpoints
	path string // source path, if opened from a file
	fs   FileSystem

	// Node storage
	nodeRegistry map[NodeID]*Node
	nextNodeID   NodeID

	// Document order; 0 marks either end
	next map[NodeID]NodeID
	prev map[NodeID]NodeID
	head NodeID
	tail NodeID

	// Byte accounting for attached data nodes
	byteCount int
	byteLimit int // 0 = unlimited
}

func newDocument(p *Project, id, path string, fs FileSystem, byteLimit int) *Document {
	return &Document{
		project:      p,
		id:           id,
		path:         path,
		fs:           fs,
		nodeRegistry: make(map[NodeID]*Node),
		nextNodeID:   1,
		next:         make(map[NodeID]NodeID),
		prev:         make(map[NodeID]NodeID),
		byteLimit:    byteLimit,
	}
}

// ID returns the document's unique identifier.
func (d *Document) ID() string {
	return d.id
}

// Path returns the file the document was opened from, or "".
func (d *Document) Path() string {
	return d.path
}

// Project returns the owning project.
func (d *Document) Project() *Project {
	return d.project
}

// ByteCount returns the number of bytes the attached data nodes assemble to.
func (d *Document) ByteCount() int {
	return d.byteCount
}

// ByteLimit returns the configured byte limit, or 0 when unlimited.
func (d *Document) ByteLimit() int {
	return d.byteLimit
}

// First returns the first node of the document, or nil if it is empty.
func (d *Document) First() *Node {
	return d.nodeRegistry[d.head]
}

// Last returns the last node of the document, or nil if it is empty.
func (d *Document) Last() *Node {
	return d.nodeRegistry[d.tail]
}

// Nodes returns the attached nodes in document order.
func (d *Document) Nodes() []*Node {
	var nodes []*Node
	for id := d.head; id != 0; id = d.next[id] {
		nodes = append(nodes, d.nodeRegistry[id])
	}
	return nodes
}

// Lines returns the rendered source lines in document order.
func (d *Document) Lines() []string {
	var lines []string
	for id := d.head; id != 0; id = d.next[id] {
		lines = append(lines, d.nodeRegistry[id].String())
	}
	return lines
}

// String renders the whole document, one node per line.
func (d *Document) String() string {
	lines := d.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Save writes the document back to the file it was opened from.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoFilePath
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to path and makes it the document's path.
func (d *Document) SaveAs(path string) error {
	if err := d.fs.WriteFile(path, []byte(d.String())); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.path = path
	return nil
}

// InsertTextAfter parses lines and inserts the resulting nodes after ref,
// in order. A nil ref appends to the end of the document.
func (d *Document) InsertTextAfter(ref *Node, lines []string) ([]*Node, error) {
	if err := d.checkRef(ref); err != nil {
		return nil, err
	}
	nodes := parseLines(lines)
	if err := d.checkRoom(0, nodes...); err != nil {
		return nil, err
	}
	after := d.tail
	if ref != nil {
		after = ref.id
	}
	for _, n := range nodes {
		d.register(n)
		d.linkAfter(after, n)
		after = n.id
	}
	return nodes, nil
}

// InsertTextBefore parses lines and inserts the resulting nodes before ref,
// in order. A nil ref inserts at the start of the document.
func (d *Document) InsertTextBefore(ref *Node, lines []string) ([]*Node, error) {
	if err := d.checkRef(ref); err != nil {
		return nil, err
	}
	nodes := parseLines(lines)
	if err := d.checkRoom(0, nodes...); err != nil {
		return nil, err
	}
	after := NodeID(0)
	if ref != nil {
		after = d.prev[ref.id]
	}
	for _, n := range nodes {
		d.register(n)
		d.linkAfter(after, n)
		after = n.id
	}
	return nodes, nil
}

// ReplaceWithText parses lines and puts the resulting nodes where n is, then
// detaches n. The byte limit is checked against the result, so a same-size
// replacement always fits. On error the document is unchanged.
func (d *Document) ReplaceWithText(n *Node, lines []string) ([]*Node, error) {
	if n == nil {
		return nil, ErrForeignNode
	}
	if err := d.checkRef(n); err != nil {
		return nil, err
	}
	nodes := parseLines(lines)
	if err := d.checkRoom(n.Size(), nodes...); err != nil {
		return nil, err
	}
	after := d.prev[n.id]
	d.unlink(n)
	for _, m := range nodes {
		d.register(m)
		d.linkAfter(after, m)
		after = m.id
	}
	return nodes, nil
}

// Detach removes n from the document order. The node keeps its identity
// and content and can be re-attached with InsertNodeAfter.
func (d *Document) Detach(n *Node) error {
	if n == nil || n.doc != d {
		return ErrForeignNode
	}
	if !n.attached {
		return ErrNodeDetached
	}
	d.unlink(n)
	return nil
}

// InsertNodeAfter re-attaches a detached node after ref.
// A nil ref appends to the end of the document.
func (d *Document) InsertNodeAfter(ref, n *Node) error {
	if n == nil || n.doc != d {
		return ErrForeignNode
	}
	if n.attached {
		return ErrNodeAttached
	}
	if err := d.checkRef(ref); err != nil {
		return err
	}
	if err := d.checkRoom(0, n); err != nil {
		return err
	}
	after := d.tail
	if ref != nil {
		after = ref.id
	}
	d.linkAfter(after, n)
	return nil
}

func (d *Document) checkRef(ref *Node) error {
	if ref == nil {
		return nil
	}
	if ref.doc != d {
		return ErrForeignNode
	}
	if !ref.attached {
		return ErrNodeDetached
	}
	return nil
}

// checkRoom fails when attaching nodes would take the document past its byte
// limit. freed is the size of data being removed by the same edit.
func (d *Document) checkRoom(freed int, nodes ...*Node) error {
	if d.byteLimit <= 0 {
		return nil
	}
	total := d.byteCount - freed
	for _, n := range nodes {
		if n.kind == DataNode {
			total += d.project.commandSize(n.command)
		}
	}
	if total > d.byteLimit {
		return fmt.Errorf("%d of %d bytes: %w", total, d.byteLimit, ErrBankFull)
	}
	return nil
}

// register gives a freshly parsed node its identity in this document.
func (d *Document) register(n *Node) {
	n.id = d.nextNodeID
	d.nextNodeID++
	n.doc = d
	d.nodeRegistry[n.id] = n
}

// linkAfter links n after the node with id after (0 = at the start).
func (d *Document) linkAfter(after NodeID, n *Node) {
	var before NodeID
	if after == 0 {
		before = d.head
		d.head = n.id
	} else {
		before = d.next[after]
		d.next[after] = n.id
	}
	if before == 0 {
		d.tail = n.id
	} else {
		d.prev[before] = n.id
	}
	d.prev[n.id] = after
	d.next[n.id] = before
	n.attached = true

	d.byteCount += n.Size()
	d.project.nodeAttached(n)
}

func (d *Document) unlink(n *Node) {
	p, nx := d.prev[n.id], d.next[n.id]
	if p == 0 {
		d.head = nx
	} else {
		d.next[p] = nx
	}
	if nx == 0 {
		d.tail = p
	} else {
		d.prev[nx] = p
	}
	delete(d.prev, n.id)
	delete(d.next, n.id)
	n.attached = false

	d.byteCount -= n.Size()
	d.project.nodeDetached(n)
}
