package treasure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "data", DataNode.String())
	assert.Equal(t, "label", LabelNode.String())
	assert.Equal(t, "text", TextNode.String())
}

func TestNodeAccessors(t *testing.T) {
	p, _ := openTestProject(t)

	label, err := p.GetLabel("treasureObjectData01")
	require.NoError(t, err)
	assert.True(t, label.IsLabel())
	assert.Equal(t, "treasureObjectData01", label.Name())
	assert.Equal(t, 0, label.Size())
	assert.Equal(t, 0, label.NumValues())

	begin := label.Next()
	require.NotNil(t, begin)
	assert.Equal(t, CommandBeginSubids, begin.Command())
	assert.Equal(t, "m_begintreasuresubids", begin.CommandLower())
	assert.Equal(t, 0, begin.Size())

	entry := begin.Next()
	require.NotNil(t, entry)
	assert.True(t, entry.IsData())
	assert.Equal(t, 4, entry.Size())
	assert.Equal(t, 5, entry.NumValues())
	assert.Equal(t, "SPAWN_FALL", entry.Value(0))
	assert.Equal(t, "", entry.Value(5))
	assert.Equal(t, "", entry.Value(-1))
	assert.Same(t, begin, entry.PrevComponent())

	v, err := entry.IntValue(2)
	require.NoError(t, err)
	assert.Equal(t, 0x1f, v)
	_, err = entry.IntValue(5)
	require.ErrorIs(t, err, ErrFieldIndex)
}

func TestNodeValuesIsCopy(t *testing.T) {
	p, _ := openTestProject(t)
	entry, err := p.GetData(TreasureDataLabel, 0)
	require.NoError(t, err)

	values := entry.Values()
	values[0] = "$ff"
	assert.Equal(t, "$00", entry.Value(0))
}

func TestNodeDataOnlyOperations(t *testing.T) {
	p, d := openTestProject(t)
	label, err := p.GetLabel(TreasureDataLabel)
	require.NoError(t, err)

	require.ErrorIs(t, label.SetValue(0, "$01"), ErrNotData)
	require.ErrorIs(t, label.SetSpacing(0, "\t"), ErrNotData)
	_, err = label.IntValue(0)
	require.ErrorIs(t, err, ErrNotData)

	first := d.First()
	require.Equal(t, TextNode, first.Kind())
	require.ErrorIs(t, first.SetValue(0, "x"), ErrNotData)
}

func TestNodeSetValueTrims(t *testing.T) {
	p, _ := openTestProject(t)
	entry, err := p.GetData(TreasureDataLabel, 8)
	require.NoError(t, err)

	require.NoError(t, entry.SetValue(1, "  $07 "))
	assert.Equal(t, "$07", entry.Value(1))
	require.ErrorIs(t, entry.SetValue(5, "$00"), ErrFieldIndex)
}

func TestDetachedNodeHasNoNeighbours(t *testing.T) {
	p, d := openTestProject(t)
	entry, err := p.GetData(TreasureDataLabel, 4)
	require.NoError(t, err)

	require.NoError(t, d.Detach(entry))
	assert.False(t, entry.Attached())
	assert.Nil(t, entry.Next())
	assert.Nil(t, entry.NextComponent())
	assert.Nil(t, entry.PrevComponent())
	assert.Same(t, d, entry.Document())
}
