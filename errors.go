package sheettable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domonda/go-sheettable/exceltable"
)

// ErrSheetNotExist is re-exported from excelize and indicates that
// a sheet selected by name or index does not exist in a file.
// For index selections SheetName is formatted as "#index".
type ErrSheetNotExist = exceltable.ErrSheetNotExist

// ErrEmptyFile is returned when a file has no data at all.
var ErrEmptyFile = errors.New("empty spreadsheet file")

// InvalidSelectorError is returned for sheet selectors that
// are neither a sheet index, a sheet name, nor the active sheet.
type InvalidSelectorError struct {
	Selector any
}

func (e InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid sheet selector %#v: must be a sheet index, a sheet name, or the active sheet", e.Selector)
}

// UnsupportedFormatError is returned for unknown spreadsheet formats.
type UnsupportedFormatError struct {
	Format string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported spreadsheet format %q", e.Format)
}

// SchemaMismatchError is returned by strict header validation
// when the header differs from the required fields
// in content or order.
type SchemaMismatchError struct {
	Header []string
	Fields []string
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("fields in the spreadsheet differ from the required ones: got %q, want %q", e.Header, e.Fields)
}

// MissingFieldsError is returned by subset header validation
// when required fields are missing in the header.
// Missing is in the order of the required fields.
type MissingFieldsError struct {
	Missing []string
}

func (e MissingFieldsError) Error() string {
	return "fields are missing in the input file: " + strings.Join(e.Missing, ", ")
}
