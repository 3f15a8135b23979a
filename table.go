package sheettable

import (
	"fmt"
	"slices"
)

// ReadRecords reads sheet as table with the first row at firstRow as header.
//
// Cells are read starting at column firstCol. If fields is nil,
// the header is used as fields. The header is validated against
// fields with ValidateHeader, then every following row is projected
// onto fields with ProjectRow.
//
// Validation errors are returned before any data row is read.
// A sheet without rows at or after firstRow results in no records.
func ReadRecords(sheet Sheet, firstRow, firstCol int, fields []string, strict bool) ([]Record, error) {
	if firstRow < 0 || firstCol < 0 {
		return nil, fmt.Errorf("negative table window: firstRow %d, firstCol %d", firstRow, firstCol)
	}
	if firstRow >= sheet.NumRows() {
		return nil, nil
	}

	cells, err := sheet.RowCells(firstRow)
	if err != nil {
		return nil, err
	}
	header := HeaderStrings(ReadRow(cells, firstCol))
	if fields == nil {
		fields = header
	}
	err = ValidateHeader(header, fields, strict)
	if err != nil {
		return nil, err
	}
	index := HeaderIndex(header)

	records := make([]Record, 0, sheet.NumRows()-firstRow-1)
	for r := firstRow + 1; r < sheet.NumRows(); r++ {
		cells, err := sheet.RowCells(r)
		if err != nil {
			return nil, err
		}
		records = append(records, ProjectRow(ReadRow(cells, firstCol), fields, index))
	}
	return records, nil
}

// ValidateHeader checks the header row of a table against fields.
//
// With strict validation the header must equal fields value by value
// in the same order, else a SchemaMismatchError is returned.
// Otherwise every field must be somewhere in the header,
// else a MissingFieldsError listing the missing fields is returned.
// The non strict validation tolerates additional header columns
// and a different column order.
func ValidateHeader(header, fields []string, strict bool) error {
	if strict {
		if !slices.Equal(header, fields) {
			return SchemaMismatchError{Header: header, Fields: fields}
		}
		return nil
	}
	var missing []string
	for _, field := range fields {
		if !slices.Contains(header, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return MissingFieldsError{Missing: missing}
	}
	return nil
}

// HeaderIndex maps the names of header to their zero based column index.
// For names that occur more than once the last column wins.
func HeaderIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for col, name := range header {
		index[name] = col
	}
	return index
}

// ProjectRow returns a Record with the values of fields
// taken from the columns of row given by index.
//
// Fields whose column is beyond the end of row,
// or that are not in index, get an empty string as value.
func ProjectRow(row Row, fields []string, index map[string]int) Record {
	values := make([]any, len(fields))
	for i, field := range fields {
		col, ok := index[field]
		if ok && col < len(row) {
			values[i] = row[col]
		} else {
			values[i] = ""
		}
	}
	return Record{Fields: fields, Values: values}
}
