package treasure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetData(t *testing.T) {
	p, _ := openTestProject(t)

	tests := []struct {
		name   string
		label  string
		offset int
		want   string
		err    error
	}{
		{name: "first entry", label: "treasureObjectData", offset: 0, want: "TREASURE_OBJECT_00_00"},
		{name: "pointer entry", label: "treasureObjectData", offset: 4, want: "treasureObjectData01"},
		{name: "skips zero-sized macro", label: "treasureObjectData01", offset: 0, want: "TREASURE_OBJECT_SHIELD_00"},
		{name: "later entry", label: "treasureObjectData01", offset: 8, want: "TREASURE_OBJECT_SHIELD_02"},
		{name: "continues past labels", label: "treasureObjectData01", offset: 12, want: "TREASURE_OBJECT_FEATHER_00"},
		{name: "mid-entry offset", label: "treasureObjectData", offset: 2, err: ErrInvalidLookup},
		{name: "past the end", label: "unrelatedData", offset: 4, err: ErrInvalidLookup},
		{name: "missing label", label: "treasureObjectData03", offset: 0, err: ErrInvalidLookup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := p.GetData(tt.label, tt.offset)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Value(n.NumValues()-1))
		})
	}
}

func TestLabelIndexFollowsDetach(t *testing.T) {
	p, d := openTestProject(t)
	l, err := p.GetLabel("unrelatedData")
	require.NoError(t, err)

	require.NoError(t, d.Detach(l))
	assert.False(t, p.HasLabel("unrelatedData"))
	assert.Equal(t, 3, mustGroup(t, p, 4).NumObjects())

	require.NoError(t, d.InsertNodeAfter(nil, l))
	assert.True(t, p.HasLabel("unrelatedData"))
}

func TestUniqueLabelName(t *testing.T) {
	p, d := openTestProject(t)

	assert.Equal(t, "treasureObjectData02", p.UniqueLabelName("treasureObjectData02"))
	assert.Equal(t, "treasureObjectData01_1", p.UniqueLabelName("treasureObjectData01"))

	_, err := d.InsertTextAfter(nil, []string{"treasureObjectData01_1:"})
	require.NoError(t, err)
	assert.Equal(t, "treasureObjectData01_2", p.UniqueLabelName("treasureObjectData01"))
}

func TestTreasureName(t *testing.T) {
	p, _ := openTestProject(t)

	assert.Equal(t, "TREASURE_SHIELD", p.TreasureName(1))
	assert.Equal(t, "TREASURE_X", p.TreasureName(2))
	assert.Equal(t, "TREASURE_00", p.TreasureName(0))
	assert.Equal(t, "TREASURE_7F", p.TreasureName(0x7f))

	named := NewProject(ProjectOptions{
		LogLevel:      "NOOP",
		TreasureNames: map[int]string{2: "TREASURE_SWORD"},
	})
	_, err := named.Open(FileOptions{DataString: testSource})
	require.NoError(t, err)
	assert.Equal(t, "TREASURE_SWORD", named.TreasureName(2))
	assert.Equal(t, DefaultNumTreasures, named.NumTreasures())
}

func TestEval(t *testing.T) {
	p, _ := openTestProject(t)
	_, err := p.Open(FileOptions{DataString: ".define LOOP_A LOOP_B\n.define LOOP_B LOOP_A\n.define BOTH SPAWN_FALL+TREASURE_X ; mixed\n"})
	require.NoError(t, err)

	tests := []struct {
		value string
		want  int
		fail  bool
	}{
		{value: "$ff", want: 0xff},
		{value: "$0A", want: 0x0a},
		{value: "12", want: 12},
		{value: "SPAWN_FALL", want: 0x0a},
		{value: "TREASURE_X + $10", want: 0x12},
		{value: "BOTH", want: 0x0a + 0x02},
		{value: "$10 / 2", want: 8},
		{value: "", fail: true},
		{value: "NOT_DEFINED", fail: true},
		{value: "$10 / 3", fail: true},
		{value: "LOOP_A", fail: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := p.Eval(tt.value)
			if tt.fail {
				assert.ErrorIs(t, err, ErrEvaluation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandSizes(t *testing.T) {
	p := NewProject(ProjectOptions{
		LogLevel:     "NOOP",
		CommandSizes: map[string]int{"M_Custom": 3},
	})
	d, err := p.Open(FileOptions{DataString: "x:\n\tm_custom $01\n\tm_TreasureSubid $00, $00, $00, $00, A\n\tm_unknown $00\n"})
	require.NoError(t, err)
	assert.Equal(t, 7, d.ByteCount())
}
