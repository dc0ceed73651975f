package hwpctl

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/tiendc/go-deepcopy"
)

// FillOptions controls a rectangular table fill.
type FillOptions struct {
	// HasHeader bolds the first row. It never changes write order or count.
	HasHeader bool
	// FromFirstCell anchors the fill at the table's top-left cell
	// regardless of where the cursor currently sits. When false, the
	// cell the cursor occupies becomes the fill's origin.
	FromFirstCell bool
}

// FillTable writes a rectangular value matrix into the referenced table,
// row-major, one cell per value. Each write navigates to its exact target
// cell first, so the result never depends on cursor drift from earlier
// operations. Ragged input fails with ErrShape before anything is written.
//
// There is no rollback: the host has no transactional multi-cell write,
// so a failing cell leaves the earlier cells filled. The returned
// *FillError records the failing cell and how many cells were committed.
func (s *Session) FillTable(ref *TableRef, values [][]any, opts FillOptions) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if err := validateShape(values); err != nil {
		return err
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return nil
	}
	cols := len(values[0])

	// Snapshot the caller's matrix: a long fill must not be skewed by the
	// caller mutating the slices mid-flight.
	var snapshot [][]any
	if err := deepcopy.Copy(&snapshot, values); err != nil {
		return fmt.Errorf("%w: %v", ErrShape, err)
	}

	origin, err := s.fillOrigin(ref, opts.FromFirstCell)
	if err != nil {
		return err
	}
	if origin.Row+len(snapshot) > ref.Rows || origin.Col+cols > ref.Cols {
		return fmt.Errorf("%w: %dx%d fill at (%d,%d) exceeds %dx%d table",
			ErrOutOfRange, len(snapshot), cols, origin.Row, origin.Col, ref.Rows, ref.Cols)
	}

	written := 0
	for r, row := range snapshot {
		if opts.HasHeader && r == 0 {
			s.setBold(true)
		}
		for c, v := range row {
			targetRow, targetCol := origin.Row+r, origin.Col+c
			if err := s.writeCell(ref, targetRow, targetCol, formatCell(v)); err != nil {
				if opts.HasHeader && r == 0 {
					s.setBold(false)
				}
				return &FillError{Row: targetRow, Col: targetCol, Written: written, Err: err}
			}
			written++
			// Advance between writes, stay after the last.
			if !(r == len(snapshot)-1 && c == cols-1) {
				if err := s.host.MoveTo(AnchorNextCell); err != nil {
					if opts.HasHeader && r == 0 {
						s.setBold(false)
					}
					return &FillError{Row: targetRow, Col: targetCol, Written: written,
						Err: fmt.Errorf("advance to next cell: %v", err)}
				}
			}
		}
		if opts.HasHeader && r == 0 {
			s.setBold(false)
		}
	}
	return nil
}

// FillColumnNumbers writes the integers start..end inclusive down one
// column, beginning at row 0 (or at the cursor's row when fromFirstCell
// is false). The bounds are validated against the table's geometry before
// any host call.
func (s *Session) FillColumnNumbers(ref *TableRef, start, end, column int, fromFirstCell bool) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if end < start {
		return fmt.Errorf("%w: start %d > end %d", ErrRange, start, end)
	}
	if column < 0 || column >= ref.Cols {
		return fmt.Errorf("%w: column %d not in %dx%d table", ErrOutOfRange, column, ref.Rows, ref.Cols)
	}

	startRow := 0
	if !fromFirstCell {
		origin, err := s.fillOrigin(ref, false)
		if err != nil {
			return err
		}
		startRow = origin.Row
	}
	count := end - start + 1
	if startRow+count > ref.Rows {
		return fmt.Errorf("%w: %d values from row %d exceed %d rows", ErrRange, count, startRow, ref.Rows)
	}

	row := startRow
	written := 0
	for n := range intRange(start, end) {
		if err := s.writeCell(ref, row, column, strconv.Itoa(n)); err != nil {
			return &FillError{Row: row, Col: column, Written: written, Err: err}
		}
		written++
		row++
	}
	return nil
}

// validateShape checks that every row has the first row's length.
func validateShape(values [][]any) error {
	if len(values) == 0 {
		return nil
	}
	cols := len(values[0])
	for i, row := range values {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, i, len(row), cols)
		}
	}
	return nil
}

type cellAddress struct {
	Row int
	Col int
}

// fillOrigin determines where a fill starts. With fromFirstCell the
// origin is always (0,0); otherwise the live cursor context is consulted,
// and the cursor must already sit inside a table cell.
func (s *Session) fillOrigin(ref *TableRef, fromFirstCell bool) (cellAddress, error) {
	if fromFirstCell {
		return cellAddress{0, 0}, nil
	}
	if err := s.refreshCursor(); err != nil {
		return cellAddress{}, err
	}
	if !s.cursor.InTable {
		return cellAddress{}, fmt.Errorf("%w: cursor not inside a table", ErrOutOfRange)
	}
	origin := cellAddress{s.cursor.Row, s.cursor.Col}
	if err := ref.resolve(origin.Row, origin.Col); err != nil {
		return cellAddress{}, err
	}
	return origin, nil
}

// writeCell navigates to the target cell and replaces its content.
// SelectCell leaves the cell's existing content selected, so the insert
// overwrites it.
func (s *Session) writeCell(ref *TableRef, row, col int, text string) error {
	if err := s.MoveToCell(ref, row, col); err != nil {
		return err
	}
	if err := s.host.InsertText(text); err != nil {
		return fmt.Errorf("insert %q: %v", text, err)
	}
	return nil
}

// setBold toggles bold formatting. Header styling is best effort: a host
// failure here is logged and must not disturb the fill's write sequence.
func (s *Session) setBold(on bool) {
	b := on
	if err := s.host.SetFont(FontOptions{Bold: &b}); err != nil {
		s.logger.Warn("header formatting failed", "bold", on, "error", err)
	}
}

// intRange yields start..end inclusive. The sequence is finite and
// restartable: ranging over it again restarts from the beginning.
func intRange(start, end int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := start; v <= end; v++ {
			if !yield(v) {
				return
			}
		}
	}
}

// formatCell renders a fill value the way it should appear in the cell.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
