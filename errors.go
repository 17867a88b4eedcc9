// Package treasure manages treasure subid tables embedded in an editable
// assembly-style data document. A treasure group holds either one record
// directly or a pointer to a table of up to 256 records, and the package
// presents both layouts through one API while growing tables in place.
package treasure

import "errors"

// Treasure errors
var (
	// ErrInvalidTreasure indicates that a treasure index is outside the project's range.
	ErrInvalidTreasure = errors.New("treasure doesn't exist")

	// ErrGroupPoisoned indicates that an earlier mutation of the group failed partway
	// and the group refuses further structural edits.
	ErrGroupPoisoned = errors.New("treasure group was poisoned by a failed mutation")
)

// Lookup errors
var (
	// ErrInvalidLookup indicates that a label or an offset past it could not be resolved.
	ErrInvalidLookup = errors.New("invalid lookup")

	// ErrEvaluation indicates that a field value could not be evaluated to an integer.
	ErrEvaluation = errors.New("value evaluation failed")
)

// Document structure errors
var (
	// ErrNodeDetached indicates that a node used as an anchor is not attached to its document.
	ErrNodeDetached = errors.New("node is detached")

	// ErrNodeAttached indicates that a node being re-inserted is still attached.
	ErrNodeAttached = errors.New("node is already attached")

	// ErrForeignNode indicates that a node belongs to a different document.
	ErrForeignNode = errors.New("node belongs to another document")

	// ErrNotData indicates that a data-only operation was applied to a label or text node.
	ErrNotData = errors.New("node is not a data node")

	// ErrFieldIndex indicates that a value or spacing index is out of range.
	ErrFieldIndex = errors.New("field index out of range")

	// ErrBankFull indicates that an insertion would exceed the document's byte limit.
	ErrBankFull = errors.New("document byte limit exceeded")
)

// Checkpoint errors
var (
	// ErrCheckpointMismatch indicates that a checkpoint was taken from another document.
	ErrCheckpointMismatch = errors.New("checkpoint belongs to another document")
)

// Configuration errors
var (
	// ErrNoDataSource indicates that no data source was provided in FileOptions.
	ErrNoDataSource = errors.New("no data source provided")

	// ErrMultipleDataSources indicates that multiple data sources were provided.
	ErrMultipleDataSources = errors.New("multiple data sources provided")

	// ErrNoFilePath indicates that Save was called on a document not opened from a file.
	ErrNoFilePath = errors.New("document has no file path")
)
