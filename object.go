package treasure

import "fmt"

// Field positions of an m_TreasureSubid entry.
const (
	FieldSpawnMode = iota
	FieldParam
	FieldText
	FieldGraphics
	FieldObjectName
)

// TreasureObject is one subid of a treasure group. It stays bound to the
// same data node for its whole life, including when that node is moved by a
// layout conversion.
type TreasureObject struct {
	group *TreasureGroup
	subid int
	data  *Node
}

func newTreasureObject(g *TreasureGroup, subid int, data *Node) *TreasureObject {
	return &TreasureObject{
		group: g,
		subid: subid,
		data:  data,
	}
}

// Group returns the owning treasure group.
func (o *TreasureObject) Group() *TreasureGroup {
	return o.group
}

// Index returns the treasure index of the owning group.
func (o *TreasureObject) Index() int {
	return o.group.index
}

// Subid returns the object's subid within its group.
func (o *TreasureObject) Subid() int {
	return o.subid
}

// Data returns the node holding the object's values.
func (o *TreasureObject) Data() *Node {
	return o.data
}

// Value returns the raw text of a field.
func (o *TreasureObject) Value(field int) string {
	return o.data.Value(field)
}

// Values returns the raw text of all fields.
func (o *TreasureObject) Values() []string {
	return o.data.Values()
}

// SetValue replaces the raw text of a field.
func (o *TreasureObject) SetValue(field int, value string) error {
	return o.data.SetValue(field, value)
}

// IntValue evaluates a field to an integer.
func (o *TreasureObject) IntValue(field int) (int, error) {
	return o.data.IntValue(field)
}

// SetIntValue writes an integer into a byte field as "$xx".
func (o *TreasureObject) SetIntValue(field, value int) error {
	if value < 0 || value > 0xff {
		return fmt.Errorf("%s: value %d does not fit in a byte: %w", o, value, ErrEvaluation)
	}
	return o.data.SetValue(field, fmt.Sprintf("$%02x", value))
}

func (o *TreasureObject) SpawnMode() (int, error) { return o.IntValue(FieldSpawnMode) }
func (o *TreasureObject) Param() (int, error)     { return o.IntValue(FieldParam) }
func (o *TreasureObject) Text() (int, error)      { return o.IntValue(FieldText) }
func (o *TreasureObject) Graphics() (int, error)  { return o.IntValue(FieldGraphics) }

func (o *TreasureObject) SetSpawnMode(v int) error { return o.SetIntValue(FieldSpawnMode, v) }
func (o *TreasureObject) SetParam(v int) error     { return o.SetIntValue(FieldParam, v) }
func (o *TreasureObject) SetText(v int) error      { return o.SetIntValue(FieldText, v) }
func (o *TreasureObject) SetGraphics(v int) error  { return o.SetIntValue(FieldGraphics, v) }

// ObjectName returns the generated constant naming this object, such as
// TREASURE_OBJECT_SWORD_01.
func (o *TreasureObject) ObjectName() string {
	return o.data.Value(FieldObjectName)
}

// SetObjectName renames the object's constant.
func (o *TreasureObject) SetObjectName(name string) error {
	return o.data.SetValue(FieldObjectName, name)
}

func (o *TreasureObject) String() string {
	return fmt.Sprintf("treasure $%02x subid $%02x", o.group.index, o.subid)
}
