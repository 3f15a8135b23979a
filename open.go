package sheettable

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-sheettable/csvtable"
	"github.com/domonda/go-sheettable/exceltable"
	"github.com/domonda/go-sheettable/odstable"
	"github.com/domonda/go-sheettable/xlstable"
)

// workbook is implemented by the Workbook types of the format packages.
type workbook interface {
	SheetNames() []string
	ActiveSheetIndex() int
	Close() error
}

type cellsWorkbook interface {
	workbook
	SheetCells(sheet string) ([][]any, error)
}

// stringsWorkbook is a workbook of a format without cell types like CSV.
type stringsWorkbook interface {
	workbook
	SheetStrings(sheet string) ([][]string, error)
}

// boundWorkbook converts the strings of a stringsWorkbook with BindCellValue.
type boundWorkbook struct {
	stringsWorkbook
}

func (wb boundWorkbook) SheetCells(sheet string) ([][]any, error) {
	rows, err := wb.SheetStrings(sheet)
	if err != nil {
		return nil, err
	}
	cells := make([][]any, len(rows))
	for r, row := range rows {
		if row == nil {
			continue
		}
		cells[r] = make([]any, len(row))
		for c, str := range row {
			cells[r][c] = BindCellValue(str)
		}
	}
	return cells, nil
}

// OpenSheet reads file and returns the sheet selected by sheet.
//
// FormatAuto detects the format with DetectFormat.
// A sheet selected by name is the only one converted,
// other sheets of the file are not parsed beyond their names
// where the format allows it.
// CSV files have a single sheet named like the file without extension.
//
// OpenSheet never returns a nil Sheet without error,
// a selected sheet that does not exist results in ErrSheetNotExist.
// Errors from the format parsers are returned unchanged.
func OpenSheet(file fs.FileReader, format Format, sheet SheetSelector) (s Sheet, err error) {
	if err = sheet.Validate(); err != nil {
		return nil, err
	}
	wb, err := openWorkbook(file, format)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
		if err != nil {
			s = nil
		}
	}()

	name, err := selectSheetName(wb, sheet)
	if err != nil {
		return nil, err
	}
	cells, err := wb.SheetCells(name)
	if err != nil {
		return nil, err
	}
	return NewMemSheet(name, cells), nil
}

// SheetNames returns the names of all sheets of file.
func SheetNames(file fs.FileReader, format Format) (names []string, err error) {
	wb, err := openWorkbook(file, format)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
	}()
	return wb.SheetNames(), nil
}

func selectSheetName(wb workbook, sheet SheetSelector) (string, error) {
	names := wb.SheetNames()
	if name, ok := sheet.Name(); ok {
		for _, n := range names {
			if n == name {
				return name, nil
			}
		}
		return "", ErrSheetNotExist{SheetName: name}
	}
	if index, ok := sheet.Index(); ok {
		if index >= len(names) {
			return "", ErrSheetNotExist{SheetName: sheet.String()}
		}
		return names[index], nil
	}
	if len(names) == 0 {
		return "", ErrSheetNotExist{SheetName: sheet.String()}
	}
	index := wb.ActiveSheetIndex()
	if index < 0 || index >= len(names) {
		index = 0
	}
	return names[index], nil
}

func openWorkbook(file fs.FileReader, format Format) (cellsWorkbook, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, file.Name())
	}
	if format == FormatAuto {
		format = DetectFormat(data, file.Name())
	}

	switch format {
	case FormatCSV:
		var (
			title = strings.TrimSuffix(file.Name(), path.Ext(file.Name()))
			wb    *csvtable.Workbook
		)
		if CSVFormat != nil {
			wb, err = csvtable.OpenWorkbookWithFormat(title, data, CSVFormat)
		} else {
			wb, err = csvtable.OpenWorkbook(title, data, CSVFormatDetection)
		}
		if err != nil {
			return nil, err
		}
		return boundWorkbook{wb}, nil

	case FormatXLS:
		wb, err := xlstable.OpenWorkbook(data)
		if err != nil {
			return nil, err
		}
		return wb, nil

	case FormatXLSX:
		wb, err := exceltable.OpenWorkbook(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return wb, nil

	case FormatODS:
		wb, err := odstable.OpenWorkbook(data)
		if err != nil {
			return nil, err
		}
		return wb, nil
	}
	return nil, UnsupportedFormatError{Format: string(format)}
}
