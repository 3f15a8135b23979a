package csvtable

import "fmt"

// Workbook is a parsed CSV file exposed as a workbook
// with a single sheet.
type Workbook struct {
	title  string
	format *Format
	rows   [][]string
}

// OpenWorkbook parses csv with automatic format detection
// and returns a Workbook with a single sheet named title.
// A nil config means NewDefaultFormatDetectionConfig().
func OpenWorkbook(title string, csv []byte, config *FormatDetectionConfig) (*Workbook, error) {
	rows, format, err := ParseDetectFormat(csv, config)
	if err != nil {
		return nil, err
	}
	return &Workbook{title: title, format: format, rows: rows}, nil
}

// OpenWorkbookWithFormat parses csv using an explicitly specified format
// and returns a Workbook with a single sheet named title.
func OpenWorkbookWithFormat(title string, csv []byte, format *Format) (*Workbook, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return &Workbook{title: title, format: format, rows: rows}, nil
}

// Format returns the detected or passed format of the CSV data.
func (wb *Workbook) Format() *Format { return wb.format }

func (wb *Workbook) SheetNames() []string { return []string{wb.title} }

// ActiveSheetIndex always returns 0, the only sheet.
func (wb *Workbook) ActiveSheetIndex() int { return 0 }

// SheetStrings returns the rows of the only sheet.
// Empty lines of the CSV data are nil rows.
func (wb *Workbook) SheetStrings(sheet string) ([][]string, error) {
	if sheet != wb.title {
		return nil, fmt.Errorf("CSV has no sheet %q", sheet)
	}
	return wb.rows, nil
}

func (wb *Workbook) Close() error { return nil }
