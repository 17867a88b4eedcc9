package treasure

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// documentCheckpoint is the encoded form of a document's content.
type documentCheckpoint struct {
	DocumentID string   `cbor:"1,keyasint"`
	Path       string   `cbor:"2,keyasint,omitempty"`
	Lines      []string `cbor:"3,keyasint"`
}

var checkpointEncMode cbor.EncMode

func init() {
	var err error
	checkpointEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Checkpoint captures the document's current content as deterministic CBOR.
// Two checkpoints of the same document are byte-equal exactly when the
// rendered content is equal, which makes them usable for change detection.
func (d *Document) Checkpoint() ([]byte, error) {
	return checkpointEncMode.Marshal(documentCheckpoint{
		DocumentID: d.id,
		Path:       d.path,
		Lines:      d.Lines(),
	})
}

// Revert restores a document to a checkpoint taken from it.
//
// The document is rebuilt from the checkpoint's lines, so every node and
// treasure object obtained before the call refers to detached content
// afterwards. The project's treasure groups are dropped and must be fetched
// again with TreasureGroup.
func (p *Project) Revert(d *Document, checkpoint []byte) error {
	var cp documentCheckpoint
	if err := cbor.Unmarshal(checkpoint, &cp); err != nil {
		return fmt.Errorf("decode checkpoint: %w", err)
	}
	if cp.DocumentID != d.id {
		return fmt.Errorf("checkpoint of %s applied to %s: %w", cp.DocumentID, d.id, ErrCheckpointMismatch)
	}

	for _, n := range d.Nodes() {
		d.unlink(n)
	}

	limit := d.byteLimit
	d.byteLimit = 0
	_, err := d.InsertTextAfter(nil, cp.Lines)
	d.byteLimit = limit
	if err != nil {
		return err
	}

	p.groups = make(map[int]*TreasureGroup)
	p.log.Infof("reverted document %s to checkpoint (%d lines)", d.id, len(cp.Lines))
	return nil
}
