package sheettable

import (
	fs "github.com/ungerik/go-fs"
)

// ReadTable reads the sheet of file selected by sheet as table
// with the row at firstRow as header, see ReadRecords.
//
// Example:
//
//	records, err := ReadTable(fs.File("prices.xlsx"), FormatAuto, SheetName("Prices"), 0, 0, []string{"id", "price"}, false)
func ReadTable(file fs.FileReader, format Format, sheet SheetSelector, firstRow, firstCol int, fields []string, strict bool) ([]Record, error) {
	s, err := OpenSheet(file, format, sheet)
	if err != nil {
		return nil, err
	}
	return ReadRecords(s, firstRow, firstCol, fields, strict)
}

// ReadRange reads a window of the sheet of file selected by sheet
// as Grid, see ReadGrid.
func ReadRange(file fs.FileReader, format Format, sheet SheetSelector, firstRow, firstCol, maxRows, maxCols int) (Grid, error) {
	s, err := OpenSheet(file, format, sheet)
	if err != nil {
		return nil, err
	}
	return ReadGrid(s, firstRow, firstCol, maxRows, maxCols)
}
