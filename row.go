package sheettable

// Row is an ordered sequence of cell values of one spreadsheet row.
// Values are nil, string, float64, or bool.
type Row []any

// Grid is an ordered sequence of rows.
// Grids returned by ReadGrid have rows of equal length.
type Grid []Row

// ReadRow returns the values of cells starting at column firstCol
// with all trailing nil values removed.
//
// cells must contain every cell position of a row starting at column 0,
// including empty positions as nil values.
// Spreadsheet formats may report phantom cells after the last filled one,
// those are not part of the returned row.
// A row without any non-nil value at or after firstCol results in an empty row.
func ReadRow(cells []any, firstCol int) Row {
	if firstCol < 0 {
		firstCol = 0
	}
	last := -1
	for col := len(cells) - 1; col >= firstCol; col-- {
		if cells[col] != nil {
			last = col
			break
		}
	}
	if last < 0 {
		return Row{}
	}
	row := make(Row, last+1-firstCol)
	copy(row, cells[firstCol:last+1])
	return row
}

// NumCols returns the length of the longest row.
func (g Grid) NumCols() int {
	numCols := 0
	for _, row := range g {
		numCols = max(numCols, len(row))
	}
	return numCols
}
