// Package csvtable parses CSV files into string rows
// with support for various encodings, separators, and line endings.
//
// The package handles common CSV edge cases including:
//   - Multiple character encodings (UTF-8, UTF-16LE, ISO 8859-1, Windows 1252, Macintosh)
//   - Various field separators (comma, semicolon, tab)
//   - Different line endings (\n, \r\n, \n\r)
//   - Quoted fields with embedded newlines, separators, and quotes
//   - Automatic format detection including "sep=X" header lines written by Excel
//
// A parsed CSV file is exposed as a Workbook with a single sheet
// so it can be read like any other spreadsheet format.
package csvtable

import (
	"errors"
	"fmt"
)

// Format describes the encoding and structural format of a CSV file.
//
// Example:
//
//	format := &Format{
//	    Encoding:  "UTF-8",
//	    Separator: ",",
//	    Newline:   "\r\n",
//	}
type Format struct {
	// Encoding specifies the character encoding of the CSV data.
	// Common values: "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252", "Macintosh"
	Encoding string `json:"encoding"`

	// Separator is the field delimiter character (must be single character).
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	Separator string `json:"separator"`

	// Newline specifies the line ending sequence.
	// Valid values: "\n" (LF), "\r\n" (CRLF), "\n\r" (LFCR)
	Newline string `json:"newline"`
}

// NewFormat creates a new Format with the specified separator,
// UTF-8 encoding, and RFC 4180 line endings (\r\n).
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate checks if the Format configuration is valid.
// It can be safely called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the automatic CSV format detection.
//
// Encodings are tried in order and the first one that decodes the data
// so that one of the EncodingTests strings is found is selected.
// EncodingTests should contain characters that have different byte
// representations across the encodings, like umlauts or currency symbols.
type FormatDetectionConfig struct {
	Encodings     []string `json:"encodings"`
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig with
// sensible defaults for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä",
			"ö", "Ö",
			"ü", "Ü",
			"ß",
			"§",
			"€",
			"д", "Д",
			"ъ", "Ъ",
			"б", "Б",
			"л", "Л",
			"и", "И",
			"ж",
		},
	}
}
