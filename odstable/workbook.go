// Package odstable reads OpenDocument spreadsheets (.ods)
// as rows of typed cell values.
//
// Cells are returned with the following types:
//   - nil for empty cells
//   - float64 for float, percentage, and currency cells
//   - float64 Excel serial numbers (1900 date system) for date cells
//   - bool for boolean cells
//   - string with the text content for all other cells
//
// Repeated rows and columns are expanded, except for empty ones
// at the end of a row or sheet which OpenDocument writers use
// to fill the sheet up to its maximum size.
package odstable

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/domonda/go-sheettable/xldate"
)

const (
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsConfig = "urn:oasis:names:tc:opendocument:xmlns:config:1.0"
)

// MaxRepeat limits the expansion of repeated non-empty rows and cells.
var MaxRepeat = 1 << 16

var (
	// ErrNoContent is returned for ZIP files without content.xml
	ErrNoContent = errors.New("ods: missing content.xml")

	// ErrSheetNotExist is returned by SheetCells for unknown sheet names
	ErrSheetNotExist = errors.New("ods: sheet does not exist")
)

// Workbook is an opened OpenDocument spreadsheet.
type Workbook struct {
	zip    *zip.Reader
	names  []string
	active int
}

// OpenWorkbook opens the spreadsheet from the ZIP data of an .ods file.
// Only the sheet names and the active sheet are read,
// sheet contents are parsed on demand by SheetCells.
func OpenWorkbook(data []byte) (*Workbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	wb := &Workbook{zip: zr}
	wb.names, err = wb.readSheetNames()
	if err != nil {
		return nil, err
	}
	activeName, err := wb.readActiveTable()
	if err != nil {
		return nil, err
	}
	wb.active = max(slices.Index(wb.names, activeName), 0)
	return wb, nil
}

func (wb *Workbook) SheetNames() []string { return wb.names }

// ActiveSheetIndex returns the index of the sheet named as ActiveTable
// in settings.xml, or 0 if there is none.
func (wb *Workbook) ActiveSheetIndex() int { return wb.active }

// SheetCells parses the rows of sheet. Other sheets are skipped
// without being parsed.
func (wb *Workbook) SheetCells(sheet string) ([][]any, error) {
	var cells [][]any
	found := false
	err := wb.decodeTables(func(d *xml.Decoder, name string) (err error) {
		if name != sheet || found {
			return d.Skip()
		}
		found = true
		cells, err = readTable(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotExist, sheet)
	}
	return cells, nil
}

// Close is a no-op, the spreadsheet data is held in memory.
func (wb *Workbook) Close() error { return nil }

func (wb *Workbook) readSheetNames() (names []string, err error) {
	err = wb.decodeTables(func(d *xml.Decoder, name string) error {
		names = append(names, name)
		return d.Skip()
	})
	return names, err
}

// decodeTables calls onTable for every table:table element of content.xml.
// onTable has to consume the table element including its end element.
func (wb *Workbook) decodeTables(onTable func(d *xml.Decoder, name string) error) error {
	file, err := wb.zip.Open("content.xml")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoContent, err)
	}
	defer file.Close()

	d := xml.NewDecoder(file)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if start, ok := tok.(xml.StartElement); ok && isElem(start.Name, nsTable, "table") {
			err = onTable(d, attr(start, nsTable, "name"))
			if err != nil {
				return err
			}
		}
	}
}

// readActiveTable returns the ActiveTable configuration of settings.xml
// or an empty string if there is no settings.xml or no such configuration.
func (wb *Workbook) readActiveTable() (string, error) {
	file, err := wb.zip.Open("settings.xml")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	d := xml.NewDecoder(file)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !isElem(start.Name, nsConfig, "config-item") || attr(start, nsConfig, "name") != "ActiveTable" {
			continue
		}
		var value string
		if err = d.DecodeElement(&value, &start); err != nil {
			return "", err
		}
		return strings.TrimSpace(value), nil
	}
}

// readTable reads the rows of a table after its start element
// until including its end element.
func readTable(d *xml.Decoder) (rows [][]any, err error) {
	emptyRows := 0 // not yet appended
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isElem(t.Name, nsTable, "table-row"):
				row, err := readRow(d)
				if err != nil {
					return nil, err
				}
				repeat := repeated(t, "number-rows-repeated")
				if len(row) == 0 {
					emptyRows += repeat
					continue
				}
				for ; emptyRows > 0; emptyRows-- {
					rows = append(rows, nil)
				}
				rows = append(rows, row)
				for i := 1; i < repeat; i++ {
					rows = append(rows, slices.Clone(row))
				}

			case isElem(t.Name, nsTable, "table-header-rows"),
				isElem(t.Name, nsTable, "table-rows"),
				isElem(t.Name, nsTable, "table-row-group"):
				// Row containers, rows are read with the next tokens

			default:
				if err = d.Skip(); err != nil {
					return nil, err
				}
			}

		case xml.EndElement:
			if isElem(t.Name, nsTable, "table") {
				return rows, nil
			}
		}
	}
}

// readRow reads the cells of a row after its start element
// until including its end element.
func readRow(d *xml.Decoder) (cells []any, err error) {
	emptyCells := 0 // not yet appended
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !isElem(t.Name, nsTable, "table-cell") && !isElem(t.Name, nsTable, "covered-table-cell") {
				if err = d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			text, err := readCellText(d)
			if err != nil {
				return nil, err
			}
			value := cellValue(t, text)
			repeat := repeated(t, "number-columns-repeated")
			if value == nil {
				emptyCells += repeat
				continue
			}
			for ; emptyCells > 0; emptyCells-- {
				cells = append(cells, nil)
			}
			for range repeat {
				cells = append(cells, value)
			}

		case xml.EndElement:
			if isElem(t.Name, nsTable, "table-row") {
				return cells, nil
			}
		}
	}
}

// readCellText reads the text paragraphs of a cell after its
// start element until including its end element.
// Paragraphs are joined with newlines.
func readCellText(d *xml.Decoder) (string, error) {
	var (
		b          strings.Builder
		depth      int
		paragraphs int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if isElem(t.Name, nsOffice, "annotation") {
				if err = d.Skip(); err != nil {
					return "", err
				}
				continue
			}
			depth++
			if t.Name.Space != nsText {
				continue
			}
			switch t.Name.Local {
			case "p", "h":
				if paragraphs > 0 {
					b.WriteByte('\n')
				}
				paragraphs++
			case "s":
				n, err := strconv.Atoi(attr(t, nsText, "c"))
				if err != nil || n < 1 {
					n = 1
				}
				b.WriteString(strings.Repeat(" ", n))
			case "tab":
				b.WriteByte('\t')
			case "line-break":
				b.WriteByte('\n')
			}

		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}

		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

// cellValue returns the typed value of a cell start element
// or nil for an empty cell.
func cellValue(start xml.StartElement, text string) any {
	switch attr(start, nsOffice, "value-type") {
	case "float", "percentage", "currency":
		if f, err := strconv.ParseFloat(attr(start, nsOffice, "value"), 64); err == nil {
			return f
		}
	case "boolean":
		return attr(start, nsOffice, "boolean-value") == "true"
	case "date":
		if serial, ok := dateSerial(attr(start, nsOffice, "date-value")); ok {
			return serial
		}
	case "":
		if text == "" {
			return nil
		}
	}
	return text
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func dateSerial(value string) (float64, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		serial, err := xldate.FromTime(t, xldate.DateMode1900)
		return serial, err == nil
	}
	return 0, false
}

func repeated(start xml.StartElement, name string) int {
	n, err := strconv.Atoi(attr(start, nsTable, name))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, MaxRepeat)
}

func isElem(name xml.Name, space, local string) bool {
	return name.Space == space && name.Local == local
}

func attr(start xml.StartElement, space, local string) string {
	for _, a := range start.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
