package treasure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testSource has one treasure of each shape:
//
//	$00 direct, no define for its name
//	$01 pointer to a three entry subid table
//	$02 direct, named TREASURE_X
//	$03 pointer to a label that does not exist
//	$04 pointer to a table cut short by an unrelated label
const testSource = `; treasure data
.define TREASURE_SHIELD $01
.define TREASURE_X      $02
.define TREASURE_BOMBS  $03
.define TREASURE_FEATHER $04
.define SPAWN_FALL      $0a

treasureObjectData:
	/* $00 */ m_TreasureSubid   $00, $00, $ff, $00, TREASURE_OBJECT_00_00
	/* $01 */ m_TreasurePointer treasureObjectData01
	/* $02 */ m_TreasureSubid   $38, $00, $4a, $5c, TREASURE_OBJECT_X_00
	/* $03 */ m_TreasurePointer treasureObjectData03
	/* $04 */ m_TreasurePointer treasureObjectData04

treasureObjectData01:
	m_BeginTreasureSubids TREASURE_SHIELD
	m_TreasureSubid SPAWN_FALL, $01, $1f, $13, TREASURE_OBJECT_SHIELD_00
	m_TreasureSubid SPAWN_FALL, $02, $20, $14, TREASURE_OBJECT_SHIELD_01
	m_TreasureSubid SPAWN_FALL, $03, $21, $15, TREASURE_OBJECT_SHIELD_02

treasureObjectData04:
	m_BeginTreasureSubids TREASURE_FEATHER
	m_TreasureSubid $0a, $01, $37, $16, TREASURE_OBJECT_FEATHER_00
	m_TreasureSubid $0a, $02, $38, $17, TREASURE_OBJECT_FEATHER_01
unrelatedData:
	m_TreasureSubid $00, $00, $00, $00, UNRELATED
`

const testNumTreasures = 5

func newTestProject(t *testing.T) *Project {
	t.Helper()
	return NewProject(ProjectOptions{
		NumTreasures: testNumTreasures,
		LogLevel:     "NOOP",
	})
}

func openTestDocument(t *testing.T, p *Project, byteLimit int) *Document {
	t.Helper()
	d, err := p.Open(FileOptions{DataString: testSource, ByteLimit: byteLimit})
	require.NoError(t, err)
	return d
}

func openTestProject(t *testing.T) (*Project, *Document) {
	t.Helper()
	p := newTestProject(t)
	return p, openTestDocument(t, p, 0)
}

func mustGroup(t *testing.T, p *Project, index int) *TreasureGroup {
	t.Helper()
	g, err := p.TreasureGroup(index)
	require.NoError(t, err)
	return g
}
