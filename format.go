package sheettable

import (
	"archive/zip"
	"bytes"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format of a spreadsheet file.
type Format string

const (
	// FormatAuto detects the format from the file content
	// and falls back to the file extension.
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
	FormatODS  Format = "ods"
)

// ParseFormat returns the Format for a case insensitive name,
// an empty name results in FormatAuto.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	f := Format(strings.ToLower(name))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// Validate returns an UnsupportedFormatError
// if f is not one of the defined formats.
func (f Format) Validate() error {
	switch f {
	case FormatAuto, FormatCSV, FormatXLS, FormatXLSX, FormatODS:
		return nil
	}
	return UnsupportedFormatError{Format: string(f)}
}

func (f Format) String() string { return string(f) }

// FormatOfExt returns the Format for a file extension
// with or without leading dot, or false if unknown.
func FormatOfExt(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv", "tsv", "txt":
		return FormatCSV, true
	case "xls":
		return FormatXLS, true
	case "xlsx", "xlsm", "xltx", "xltm":
		return FormatXLSX, true
	case "ods", "ots":
		return FormatODS, true
	}
	return "", false
}

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeODS  = "application/vnd.oasis.opendocument.spreadsheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeZIP  = "application/zip"
	mimeOLE  = "application/x-ole-storage"
)

// DetectFormat detects the Format of spreadsheet data.
//
// The content is sniffed first, ZIP archives are identified by their
// entries. Then the extension of filename is used,
// everything else is treated as CSV.
func DetectFormat(data []byte, filename string) Format {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is(mimeXLSX):
			return FormatXLSX
		case m.Is(mimeODS):
			return FormatODS
		case m.Is(mimeXLS):
			return FormatXLS
		case m.Is(mimeZIP):
			if f, ok := detectZIPFormat(data); ok {
				return f
			}
		case m.Is(mimeOLE):
			// Excel is the only OLE2 format that can be read
			return FormatXLS
		}
	}
	if f, ok := FormatOfExt(path.Ext(filename)); ok {
		return f
	}
	return FormatCSV
}

func detectZIPFormat(data []byte) (Format, bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}
	for _, file := range zr.File {
		switch file.Name {
		case "xl/workbook.xml":
			return FormatXLSX, true
		case "content.xml":
			return FormatODS, true
		}
	}
	return "", false
}
