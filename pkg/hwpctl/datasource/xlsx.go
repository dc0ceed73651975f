// Package datasource loads rectangular value matrices for table fills
// from spreadsheet and CSV files. Rows are squared to the widest row with
// empty strings, since spreadsheet readers trim trailing blanks; the fill
// engine itself still rejects genuinely ragged programmatic input.
package datasource

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// FromXLSX reads the named sheet of an Excel file into a value matrix.
// An empty sheet name selects the workbook's first sheet. Numeric-looking
// cells are parsed into int64/float64 so fills render them canonically.
func FromXLSX(path, sheet string) ([][]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook %q has no sheets", path)
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return square(rows), nil
}

// square converts string rows to value rows, padding every row to the
// widest row's length.
func square(rows [][]string) [][]any {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, width)
		for j := range vals {
			if j < len(row) {
				vals[j] = parseValue(row[j])
			} else {
				vals[j] = ""
			}
		}
		out[i] = vals
	}
	return out
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
