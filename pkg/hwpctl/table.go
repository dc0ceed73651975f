package hwpctl

import "fmt"

// TableRef identifies a table by its structural anchor: the cell the
// cursor occupied immediately after creation (host convention: top-left).
// The host exposes no persistent table identity, so the recorded geometry
// is the engine's only defense against out-of-range navigation.
type TableRef struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// resolve validates a 0-based cell address against the table's recorded
// geometry. It performs no host call, so an invalid address can never
// move the cursor.
func (t *TableRef) resolve(row, col int) error {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return fmt.Errorf("%w: (%d,%d) not in %dx%d table", ErrOutOfRange, row, col, t.Rows, t.Cols)
	}
	return nil
}

// CreateTable inserts a rows x cols table at the cursor and returns a
// reference anchored at its first cell. Creation is geometry only; data
// lands through the fill operations, so a fill bug cannot corrupt the
// table's shape and vice versa.
//
// The live cursor context is queried first: if the cursor already sits
// inside a table cell the call fails with ErrNestedTable instead of
// letting the host silently nest a table inside the cell.
func (s *Session) CreateTable(rows, cols int) (*TableRef, error) {
	if err := s.requireDocument(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: table geometry %dx%d", ErrOutOfRange, rows, cols)
	}

	ctx, err := s.host.CurrentContext()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if ctx.InTable {
		return nil, fmt.Errorf("%w: at cell (%d,%d)", ErrNestedTable, ctx.Row, ctx.Col)
	}

	if err := s.host.CreateTable(rows, cols); err != nil {
		return nil, fmt.Errorf("create table: %v", err)
	}
	// Host convention: the cursor lands in the new table's first cell.
	s.cursor = CursorContext{InTable: true, Row: 0, Col: 0, TableRows: rows, TableCols: cols}
	return &TableRef{Rows: rows, Cols: cols}, nil
}

// MoveToCell navigates to cell (row, col) of the referenced table and
// selects its content. The address is validated before any host call.
func (s *Session) MoveToCell(ref *TableRef, row, col int) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if err := ref.resolve(row, col); err != nil {
		return err
	}
	if err := s.host.SelectCell(row, col); err != nil {
		return fmt.Errorf("select cell (%d,%d): %v", row, col, err)
	}
	s.cursor = CursorContext{InTable: true, Row: row, Col: col, TableRows: ref.Rows, TableCols: ref.Cols}
	return nil
}
