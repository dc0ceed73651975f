package datasource

import (
	"encoding/csv"
	"os"
)

// FromCSV reads a CSV file into a value matrix. Records of differing
// length are accepted and squared like spreadsheet rows.
func FromCSV(path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return square(records), nil
}
