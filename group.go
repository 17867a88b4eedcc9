package treasure

import (
	"fmt"
	"strings"
)

// layoutKind tells how a group's records are stored.
type layoutKind int

const (
	// directLayout: the group's data node is its only record.
	directLayout layoutKind = iota

	// pointerLayout: the group's data node points at a table of records.
	pointerLayout
)

// groupLayout is the resolved shape of a group. It is computed from the
// document each time it is needed and never stored, so a conversion is
// picked up by the next call without any bookkeeping.
type groupLayout struct {
	kind  layoutKind
	data  *Node // the group's entry in the treasure data table
	table *Node // first record of the subid table; nil for direct or dangling pointers
}

// TreasureGroup is one treasure index. It owns either a single treasure
// object stored directly in the treasure data table, or a pointer to a table
// of up to 256 objects, one per subid.
type TreasureGroup struct {
	project *Project
	index   int

	dataStart *Node

	// Handles are created on first access and never evicted, so the same
	// subid always yields the same *TreasureObject.
	objectCache [MaxSubids]*TreasureObject

	// poisoned is set when a structural edit failed after changing the
	// document; no further edits are attempted.
	poisoned bool
}

func newTreasureGroup(p *Project, index int) (*TreasureGroup, error) {
	if index < 0 || index >= p.NumTreasures() {
		return nil, fmt.Errorf("treasure %02X: %w", index, ErrInvalidTreasure)
	}
	g := &TreasureGroup{
		project: p,
		index:   index,
	}
	if err := g.determineDataStart(); err != nil {
		return nil, err
	}
	return g, nil
}

// Index returns the treasure index.
func (g *TreasureGroup) Index() int {
	return g.index
}

// Project returns the owning project.
func (g *TreasureGroup) Project() *Project {
	return g.project
}

// DataStart returns the group's entry in the treasure data table.
func (g *TreasureGroup) DataStart() *Node {
	return g.dataStart
}

// UsesPointer reports whether the group's records live in a separate subid table.
func (g *TreasureGroup) UsesPointer() bool {
	return g.dataStart.CommandLower() == strings.ToLower(CommandTreasurePtr)
}

// Poisoned reports whether a failed edit has left the group unusable for further edits.
func (g *TreasureGroup) Poisoned() bool {
	return g.poisoned
}

// NumObjects returns the number of subids the group currently has.
func (g *TreasureGroup) NumObjects() int {
	l := g.layout()
	if l.kind == directLayout {
		return 1
	}
	if l.table == nil {
		return 0
	}
	count, _ := traverseSubids(l.table, MaxSubids)
	return count
}

// GetObject returns the treasure object for subid, or nil if the group has
// no such subid.
func (g *TreasureGroup) GetObject(subid int) *TreasureObject {
	if subid < 0 || subid >= MaxSubids {
		return nil
	}
	if obj := g.objectCache[subid]; obj != nil {
		return obj
	}
	data := g.subidBaseData(subid)
	if data == nil {
		return nil
	}
	obj := newTreasureObject(g, subid, data)
	g.objectCache[subid] = obj
	return obj
}

// AddObject appends a new subid to the group and returns its object.
//
// A group storing its only object directly is first converted to use a
// subid table: a pointer takes the old entry's place, and the old data node
// is moved (not recreated) to the head of a new table, so objects handed out
// earlier keep working. A group whose pointer leads nowhere gets a fresh
// direct entry instead.
//
// AddObject returns nil and no error when the group is already full. An
// error means the document refused an edit; if that happened after the
// document was changed, the group is poisoned.
func (g *TreasureGroup) AddObject() (*TreasureObject, error) {
	if g.poisoned {
		return nil, ErrGroupPoisoned
	}

	num := g.NumObjects()
	if num >= MaxSubids {
		g.project.log.Debugf("treasure %02x: subid table full", g.index)
		return nil, nil
	}

	if num == 0 {
		return g.repairNullPointer()
	}

	converted := false
	if !g.UsesPointer() {
		if err := g.convertToPointer(); err != nil {
			return nil, err
		}
		converted = true
	}

	table := g.layout().table
	if table == nil {
		return nil, g.poison(fmt.Errorf("subid table %q: %w", g.dataStart.Value(0), ErrInvalidLookup))
	}
	_, last := traverseSubids(table, num-1)
	if last == nil || !last.IsData() {
		return nil, g.poison(fmt.Errorf("subid %d: %w", num-1, ErrInvalidLookup))
	}

	if _, err := last.Document().InsertTextAfter(last, []string{g.subidLine(num, true)}); err != nil {
		if converted {
			return nil, g.poison(err)
		}
		return nil, fmt.Errorf("treasure %02x: add subid %d: %w", g.index, num, err)
	}

	g.project.log.Infof("treasure %02x: added subid %02x", g.index, num)
	return g.GetObject(g.NumObjects() - 1), nil
}

// repairNullPointer replaces a pointer entry whose target does not exist
// with a blank direct entry.
func (g *TreasureGroup) repairNullPointer() (*TreasureObject, error) {
	old := g.dataStart
	doc := old.Document()

	if _, err := doc.ReplaceWithText(old, []string{g.subidLine(0, false)}); err != nil {
		return nil, fmt.Errorf("treasure %02x: repair null pointer: %w", g.index, err)
	}
	if err := g.determineDataStart(); err != nil {
		return nil, g.poison(err)
	}

	g.project.log.Infof("treasure %02x: replaced null pointer %q with a direct entry", g.index, old.Value(0))
	return g.GetObject(0), nil
}

// convertToPointer moves the group's direct entry into a new subid table at
// the end of its document and leaves a pointer to that table in its place.
func (g *TreasureGroup) convertToPointer() error {
	data := g.dataStart
	doc := data.Document()
	label := g.project.UniqueLabelName(fmt.Sprintf(treasureLabelTemplate, g.index))

	pointer := fmt.Sprintf("\t/* $%02x */ %s %s", g.index, CommandTreasurePtr, label)

	// Once the moved entry is back the document has grown by the pointer.
	if err := doc.checkRoom(0, parseLine(pointer)); err != nil {
		return fmt.Errorf("treasure %02x: create pointer: %w", g.index, err)
	}
	if _, err := doc.ReplaceWithText(data, []string{pointer}); err != nil {
		return fmt.Errorf("treasure %02x: create pointer: %w", g.index, err)
	}

	// From here on the document has changed; any failure poisons the group.
	header, err := doc.InsertTextAfter(nil, []string{
		label + ":",
		"\t" + CommandBeginSubids + " " + g.project.TreasureName(g.index),
	})
	if err != nil {
		return g.poison(err)
	}

	if err := doc.InsertNodeAfter(header[len(header)-1], data); err != nil {
		return g.poison(err)
	}

	// Table entries are indented without the index comment.
	if err := data.SetSpacing(0, "\t"); err != nil {
		return g.poison(err)
	}
	if err := data.SetSpacing(1, ""); err != nil {
		return g.poison(err)
	}

	if _, err := doc.InsertTextAfter(data, []string{""}); err != nil {
		return g.poison(err)
	}

	if err := g.determineDataStart(); err != nil {
		return g.poison(err)
	}

	g.project.log.Infof("treasure %02x: moved subid data to %s", g.index, label)
	return nil
}

// subidLine renders a blank m_TreasureSubid entry for subid, either as a
// subid table entry or as a direct entry in the treasure data table.
func (g *TreasureGroup) subidLine(subid int, inSubidTable bool) string {
	name := strings.TrimPrefix(g.project.TreasureName(g.index), treasureNamePrefix)
	body := fmt.Sprintf("$00, $00, $ff, $00, %s%s_%02x", treasureObjectPrefix, name, subid)
	if inSubidTable {
		return "\t" + CommandTreasureSubid + " " + body
	}
	return fmt.Sprintf("\t/* $%02x */ %s   %s", g.index, CommandTreasureSubid, body)
}

func (g *TreasureGroup) layout() groupLayout {
	l := groupLayout{kind: directLayout, data: g.dataStart}
	if !g.UsesPointer() {
		return l
	}
	l.kind = pointerLayout
	// Sometimes there is no table even though the entry is a pointer.
	l.table = g.resolveTable(g.dataStart.Value(0))
	return l
}

// resolveTable returns the first record under label. Zero-sized data such as
// m_BeginTreasureSubids is skipped; reaching another label or the end of the
// document means the table is empty or missing and gives nil.
func (g *TreasureGroup) resolveTable(label string) *Node {
	l, err := g.project.GetLabel(label)
	if err != nil {
		g.project.log.Debugf("treasure %02x: unresolved pointer: %v", g.index, err)
		return nil
	}
	for n := l.Next(); n != nil; n = n.Next() {
		if n.IsLabel() {
			break
		}
		if n.Size() > 0 {
			return n
		}
	}
	g.project.log.Debugf("treasure %02x: subid table %s is empty", g.index, label)
	return nil
}

func (g *TreasureGroup) subidBaseData(subid int) *Node {
	l := g.layout()
	switch {
	case l.kind == directLayout:
		if subid == 0 {
			return l.data
		}
		return nil
	case l.table == nil:
		return nil
	}
	count, data := traverseSubids(l.table, subid)
	if count != subid || data == nil || !data.IsData() {
		return nil
	}
	return data
}

// determineDataStart re-resolves the group's entry in the treasure data table.
func (g *TreasureGroup) determineDataStart() error {
	data, err := g.project.GetData(TreasureDataLabel, g.index*treasureEntrySize)
	if err != nil {
		return fmt.Errorf("treasure %02x: %w", g.index, err)
	}
	g.dataStart = data
	return nil
}

func (g *TreasureGroup) poison(err error) error {
	g.poisoned = true
	g.project.log.Infof("treasure %02x: edit failed partway, group poisoned: %v", g.index, err)
	return fmt.Errorf("treasure %02x: %w", g.index, err)
}

// traverseSubids walks forward from start over up to n subid records and
// returns how many steps it completed along with the node it stopped on.
// A label or the end of the document ends the walk early, so the result can
// be less than n. Counting and subid lookup both go through here.
func traverseSubids(start *Node, n int) (int, *Node) {
	count := 0
	node := start
	for count < n {
		if node == nil || !node.IsData() {
			return count, node
		}
		node = node.Next()
		count++
	}
	return count, node
}
