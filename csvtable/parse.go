package csvtable

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data with automatic format detection.
// It analyzes the raw bytes to determine encoding, separator, and line endings,
// then parses the data into rows of string fields.
//
// Detection:
//  1. Encoding: the first of config.Encodings that decodes one of config.EncodingTests
//  2. Line endings: \r\n if present, otherwise \n
//  3. Separator: a "sep=X" header line if present, otherwise the most
//     frequent of comma, semicolon and tab (comma on ties)
//
// Empty lines are returned as nil rows, empty lines at the end of the data
// are removed. A nil config means NewDefaultFormatDetectionConfig().
//
// Example:
//
//	rows, format, err := ParseDetectFormat([]byte("Name;Age\r\nJohn;30\r\n"), nil)
//	// format.Separator == ";"
//	// rows == [][]string{{"Name", "Age"}, {"John", "30"}}
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}

	format, lines, err := detectFormatAndSplitLines(csv, config)
	if err != nil {
		return nil, format, err
	}

	rows, err = readLines(lines, []byte(format.Separator), "\n")
	return rows, format, err
}

// ParseWithFormat parses CSV data using an explicitly specified format.
//
// Data in other encodings than UTF-8 is decoded to UTF-8,
// a UTF-8 BOM is removed. Lines are split at format.Newline,
// stray carriage returns or line feeds of mixed line endings
// are removed from the line ends.
// A "sep=X" header line is removed if it declares format.Separator,
// a different declared separator is an error.
//
// Cell text is returned as decoded, no characters are replaced.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	csv, err = decode(csv, format.Encoding)
	if err != nil {
		return nil, err
	}

	lines := splitLines(csv, format.Newline)
	if sep := parseSepHeaderLine(lines[0]); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("header line sep=%s contradicts format separator %q", sep, format.Separator)
		}
		lines = lines[1:]
	}
	return readLines(lines, []byte(format.Separator), "\n")
}

// decode converts csv from encoding to UTF-8.
// A UTF-8 BOM is removed from UTF-8 data.
func decode(csv []byte, encoding string) ([]byte, error) {
	if encoding == "UTF-8" {
		return charset.TrimBOM(csv, charset.BOMUTF8), nil
	}
	enc, err := charset.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return enc.Decode(csv)
}

// splitLines splits csv at newline and trims
// carriage returns and line feeds from the line ends.
// The result has at least one line.
func splitLines(csv []byte, newline string) [][]byte {
	lines := bytes.Split(csv, []byte(newline))
	for i := range lines {
		lines[i] = bytes.Trim(lines[i], "\r\n")
	}
	return lines
}

func detectFormatAndSplitLines(csv []byte, config *FormatDetectionConfig) (format *Format, lines [][]byte, err error) {
	if config == nil {
		return nil, nil, errors.New("FormatDetectionConfig must not be nil")
	}

	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}

	// \r\n is the standard, so take it if there is any
	if bytes.Contains(csv, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	lines = splitLines(csv, format.Newline)

	format.Separator = parseSepHeaderLine(lines[0])
	if format.Separator != "" {
		return format, lines[1:], nil
	}

	var commas, semicolons, tabs, nonEmptyLines int
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		nonEmptyLines++
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}

	switch {
	case nonEmptyLines == 0:
		format.Separator = ","
		return format, nil, nil
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, lines, nil
}

// parseSepHeaderLine returns the separator declared by a
// "sep=X" or "SEP=X" header line, optionally enclosed in double quotes,
// or an empty string if line is not such a header line.
func parseSepHeaderLine(line []byte) (sep string) {
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

// readLines parses CSV lines into rows of string fields.
//
// Quoting follows RFC 4180: quoted fields may contain separators and
// newlines, quotes within quoted fields are escaped by doubling them.
// Because lines and fields are split before quotes are interpreted,
// a quoted field that was split at a separator is joined again with
// the following fields, and a quoted last field without closing quote
// is continued with the following lines. Lines consumed by such a
// multi-line field don't produce rows of their own.
//
// Empty lines result in nil rows, trailing empty rows are removed.
func readLines(lines [][]byte, separator []byte, newlineReplacement string) (rows [][]string, err error) {
	rows = make([][]string, 0, len(lines))
	for lineIndex := 0; lineIndex < len(lines); lineIndex++ {
		line := lines[lineIndex]
		if len(line) == 0 {
			rows = append(rows, nil)
			continue
		}

		// Index of the line the last of fields comes from
		lastLine := lineIndex

		fields := bytes.Split(line, separator)
		for i := 0; i < len(fields); i++ {
			field := fields[i]
			if len(field) < 2 {
				continue
			}

			leftQuotes, rightQuotes := countQuotesLeftRight(field)
			switch {
			case leftQuotes == 0 && rightQuotes == 0:
				// Unquoted field

			case leftQuotes == 1 && rightQuotes == 1, // Quoted field
				leftQuotes == 3 && rightQuotes == 1, // Quoted field beginning with escaped quote
				leftQuotes == 1 && rightQuotes == 3, // Quoted field ending with escaped quote
				leftQuotes == 3 && rightQuotes == 3, // Quoted field with escaped quotes inside
				leftQuotes == 2 && rightQuotes == 2: // Field not quoted, but escaped quotes inside
				field = field[1 : len(field)-1]

			case leftQuotes == 0 && rightQuotes >= 1:
				// Field internal quoting

			case leftQuotes == 2 && rightQuotes == 0:
				// Begins with an escaped quote, unescaped below

			case leftQuotes >= 1 && rightQuotes == 0:
				joinLine := -1
				if i == len(fields)-1 {
					// Last field opens a quote that is closed by the
					// first field ending with a quote in a following line
					for joinLine = lastLine + 1; joinLine < len(lines); joinLine++ {
						joinFields := bytes.Split(lines[joinLine], separator)
						if len(joinFields) > 0 && bytes.HasSuffix(joinFields[0], []byte{'"'}) {
							break
						}
					}
				}

				if joinLine > lastLine && joinLine < len(lines) {
					joinFields := bytes.Split(lines[joinLine], separator)
					// field shares memory with the following lines
					field = bytes.Clone(field)
					for index := lastLine + 1; index < joinLine; index++ {
						field = append(field, newlineReplacement...)
						field = append(field, lines[index]...)
					}
					field = append(field, newlineReplacement...)
					field = append(field, joinFields[0]...)
					field = field[1 : len(field)-1]
					fields = append(fields, joinFields[1:]...)
					lastLine = joinLine
				} else {
					// A separator within a quoted field split it into
					// multiple fields, join with the first following
					// field that ends with the closing quote
					for r := i + 1; r < len(fields); r++ {
						rField := fields[r]
						if len(rField) < 2 {
							continue
						}
						rLeftQuotes, rRightQuotes := countQuotesLeftRight(rField)
						var (
							rLeftOK  = rLeftQuotes == 0 || rLeftQuotes == 2
							rRightOK = (leftQuotes == 1 || leftQuotes == 3) && (rRightQuotes == 1 || rRightQuotes == 3)
						)
						if rLeftOK && rRightOK {
							field = bytes.Join(fields[i:r+1], separator)
							field = field[1 : len(field)-1]
							copy(fields[i+1:], fields[r+1:])
							fields = fields[:len(fields)-(r-i)]
							break
						}
					}
				}

			default:
				return nil, fmt.Errorf("can't handle CSV field `%s` in line %d: `%s`", field, lineIndex+1, line)
			}

			fields[i] = bytes.ReplaceAll(field, []byte(`""`), []byte{'"'})
		}

		row := make([]string, len(fields))
		for i := range fields {
			row[i] = string(fields[i])
		}
		rows = append(rows, row)
		lineIndex = lastLine
	}

	for len(rows) > 0 && rows[len(rows)-1] == nil {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// countQuotesLeftRight counts consecutive quotes from both ends of str.
// If str consists only of quotes, they are split between left and right
// with left getting one more for an odd number.
func countQuotesLeftRight(str []byte) (left, right int) {
	left = len(str)
	for i, c := range str {
		if c != '"' {
			left = i
			break
		}
	}
	if left == len(str) {
		left = (len(str) + 1) / 2
		return left, len(str) - left
	}
	for i := len(str) - 1; i >= 0; i-- {
		if str[i] != '"' {
			right = len(str) - 1 - i
			break
		}
	}
	return left, right
}
