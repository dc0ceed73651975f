package hwpctl

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. Callers match them
// with errors.Is; wrapped host errors remain reachable via errors.Unwrap.
// Messages quote user-supplied content with %q so arbitrary script
// (document text is frequently Korean) formats safely.
var (
	// ErrConnection indicates the host document application is unreachable.
	ErrConnection = errors.New("host unreachable")
	// ErrDocumentIO indicates a create/open/save failure reported by the host.
	ErrDocumentIO = errors.New("document I/O failed")
	// ErrNestedTable indicates a table creation was attempted while the
	// cursor sits inside an existing table cell.
	ErrNestedTable = errors.New("cursor inside an existing table")
	// ErrOutOfRange indicates a cell address outside the table's geometry.
	ErrOutOfRange = errors.New("cell address outside table geometry")
	// ErrShape indicates ragged fill input (rows of unequal length).
	ErrShape = errors.New("ragged fill input")
	// ErrRange indicates invalid sequential-number bounds.
	ErrRange = errors.New("invalid numeric sequence bounds")
	// ErrFill indicates a per-cell write failed during a fill.
	ErrFill = errors.New("fill failed")
	// ErrUnknownOperation indicates a batch step named an unregistered operation.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrNoDocument indicates an edit was attempted with no open document.
	ErrNoDocument = errors.New("no document open")
)

// FillError reports the first cell write that failed during a fill.
// Cells written before the failure stay written: the host exposes no
// transactional multi-cell primitive, so there is nothing to roll back.
type FillError struct {
	Row     int
	Col     int
	Written int // cells successfully written before the failure
	Err     error
}

func (e *FillError) Error() string {
	return fmt.Sprintf("fill failed at cell (%d,%d) after %d cells written: %v",
		e.Row, e.Col, e.Written, e.Err)
}

func (e *FillError) Unwrap() error {
	return e.Err
}

// Is reports ErrFill so errors.Is(err, ErrFill) matches.
func (e *FillError) Is(target error) bool {
	return target == ErrFill
}
