// Package hwpctl drives a live HWP word-processor instance through a
// narrow host adapter: document session lifecycle, table construction,
// ordered data fills, and sequential batch execution.
package hwpctl

// Anchor identifies a cursor destination for MoveTo.
type Anchor string

const (
	// AnchorDocumentStart moves the cursor to the beginning of the document.
	AnchorDocumentStart Anchor = "document_start"
	// AnchorDocumentEnd moves the cursor past the last content node.
	AnchorDocumentEnd Anchor = "document_end"
	// AnchorCellStart moves the cursor to the start of the current cell.
	AnchorCellStart Anchor = "cell_start"
	// AnchorNextCell advances to the next cell in row-major order.
	// At the last cell of a table the cursor stays put.
	AnchorNextCell Anchor = "next_cell"
)

// FontOptions selects character formatting. Nil fields leave the
// corresponding attribute of the current format unchanged.
type FontOptions struct {
	Size      *int
	Bold      *bool
	Italic    *bool
	Underline *bool
	Color     *string
	Name      *string
}

// CursorContext reports where the host's cursor currently sits.
// Row/Col and the table geometry are meaningful only when InTable is set.
type CursorContext struct {
	InTable   bool
	Row       int
	Col       int
	TableRows int
	TableCols int
}

// Host is the adapter over the live word-processor instance. It carries
// exactly the verb set the engine needs, so the engine can be exercised
// against an in-memory implementation (memhost) without a running host
// process. Every call may fail with a host-specific error; the Session
// normalizes those into the package's error taxonomy.
//
// A Host is a single mutable cursor-driven state machine: every verb may
// move the cursor, and none of them are safe to interleave. The engine
// never issues two calls concurrently against the same Host.
type Host interface {
	// Connect attaches to a running host instance.
	Connect() error
	// Close releases the host handle. Safe to call when not connected.
	Close() error

	// CreateDocument opens a fresh empty document, discarding any
	// unsaved state in the current one.
	CreateDocument() error
	// Open loads the document at path.
	Open(path string) error
	// Save writes the document to path; an empty path saves in place.
	Save(path string) error

	// InsertText inserts text at the cursor. An active selection is
	// replaced by the inserted text.
	InsertText(text string) error
	// SetFont applies character formatting to subsequent insertions.
	SetFont(opts FontOptions) error

	// CreateTable inserts a rows x cols table at the cursor and leaves
	// the cursor in the table's first (top-left) cell. The host does not
	// guard against nesting; calling this with the cursor inside a table
	// corrupts the document silently. That guard belongs to the engine.
	CreateTable(rows, cols int) error
	// MoveTo positions the cursor at the given anchor.
	MoveTo(anchor Anchor) error
	// SelectCell moves into cell (row, col) of the table the cursor is
	// anchored to and selects the cell's content, so the next InsertText
	// replaces it. Coordinates are 0-based.
	SelectCell(row, col int) error
	// CurrentContext reports the cursor's position. This is the only
	// window the engine has into the host's ambient cursor state.
	CurrentContext() (CursorContext, error)

	// SelectAll selects the whole document body.
	SelectAll() error
	// Delete removes the current selection.
	Delete() error
	// ExtractText returns the document's full text content.
	ExtractText() (string, error)
	// PageCount reports the document's page count.
	PageCount() (int, error)
}
