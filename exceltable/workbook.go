// Package exceltable reads Excel workbooks (.xlsx, .xlsm, .xltm, .xltx)
// as rows of raw, typed cell values.
//
// The package uses the excelize library (github.com/xuri/excelize/v2) under the hood.
// No number formats are applied, cells are returned with the following types:
//   - nil for empty cells
//   - float64 for numbers, including dates as Excel serial numbers
//   - bool for boolean cells
//   - string for everything else
//
// Example usage:
//
//	wb, err := exceltable.OpenWorkbook(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer wb.Close()
//	sheet := wb.SheetNames()[wb.ActiveSheetIndex()]
//	rows, err := wb.SheetCells(sheet)
package exceltable

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is an opened Excel workbook.
// It must be closed after use to release temporary files
// that excelize might have created for large worksheets.
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook opens an Excel workbook from reader.
func OpenWorkbook(reader io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	return &Workbook{file: f}, nil
}

// OpenLocalFile opens the Excel workbook at filename.
func OpenLocalFile(filename string) (*Workbook, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	return &Workbook{file: f}, nil
}

// SheetNames returns the names of all sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// ActiveSheetIndex returns the index of the sheet that was active
// when the workbook was saved.
func (wb *Workbook) ActiveSheetIndex() int {
	return wb.file.GetActiveSheetIndex()
}

// SheetCells returns the raw cell values of all rows of sheet.
//
// Every row starts at column A, empty cells in between are nil.
// Empty rows before the last non-empty row are returned as
// empty rows so that row indices match the sheet.
func (wb *Workbook) SheetCells(sheet string) (cells [][]any, err error) {
	if idx, _ := wb.file.GetSheetIndex(sheet); idx < 0 {
		return nil, ErrSheetNotExist{SheetName: sheet}
	}
	rows, err := wb.file.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rowNum := 1; rows.Next(); rowNum++ {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		row := make([]any, len(cols))
		for i, raw := range cols {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				return nil, err
			}
			cellType, err := wb.file.GetCellType(sheet, axis)
			if err != nil {
				return nil, err
			}
			row[i] = CellValue(raw, cellType)
		}
		cells = append(cells, row)
	}
	if err = rows.Error(); err != nil {
		return nil, err
	}
	return cells, nil
}

// Close closes the workbook.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// CellValue converts the raw string value of a cell
// into a typed value according to its cellType.
//
// Numbers are stored without type attribute in most workbooks
// so untyped values that parse as numbers are returned as float64.
func CellValue(raw string, cellType excelize.CellType) any {
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")

	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}
