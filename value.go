package sheettable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BindCellValue converts the string of a cell from a format
// without cell types (CSV) into a typed value:
//   - an empty string results in nil
//   - TRUE and FALSE (case insensitive) result in bool
//   - decimal numbers result in float64
//   - everything else is returned unchanged
//
// Numbers that can't be represented as float64 without losing
// characters or digits stay strings: numbers with a leading zero
// followed by another digit like the zip code "01234" or "-007",
// and integers without fraction and exponent from ±2^53 on.
func BindCellValue(str string) any {
	switch {
	case str == "":
		return nil
	case strings.EqualFold(str, "TRUE"):
		return true
	case strings.EqualFold(str, "FALSE"):
		return false
	case !isDecimal(str) || hasLeadingZero(str):
		return str
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return str
	}
	if math.Abs(f) >= maxExactInteger && !strings.ContainsAny(str, ".eE") {
		return str
	}
	return f
}

// maxExactInteger is the first integer whose successor
// is not representable as float64.
const maxExactInteger = 1 << 53

// hasLeadingZero reports if the unsigned part of str
// starts with a zero followed by another digit.
func hasLeadingZero(str string) bool {
	if str != "" && (str[0] == '-' || str[0] == '+') {
		str = str[1:]
	}
	return len(str) > 1 && str[0] == '0' && str[1] >= '0' && str[1] <= '9'
}

// isDecimal reports if str is an optionally signed decimal number
// with optional fraction and exponent, without surrounding spaces.
// Keeps strconv special values like "Inf", "NaN", or hex floats as strings.
func isDecimal(str string) bool {
	i := 0
	if i < len(str) && (str[i] == '-' || str[i] == '+') {
		i++
	}
	digits := 0
	for ; i < len(str) && str[i] >= '0' && str[i] <= '9'; i++ {
		digits++
	}
	if i < len(str) && str[i] == '.' {
		i++
		for ; i < len(str) && str[i] >= '0' && str[i] <= '9'; i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(str) && (str[i] == 'e' || str[i] == 'E') {
		i++
		if i < len(str) && (str[i] == '-' || str[i] == '+') {
			i++
		}
		expDigits := 0
		for ; i < len(str) && str[i] >= '0' && str[i] <= '9'; i++ {
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(str)
}

// CellString formats a cell value as string
// for comparing header cells with field names.
// nil results in an empty string, float64 is formatted
// without trailing zeros, bool as TRUE or FALSE.
func CellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprint(value)
}

// HeaderStrings returns the values of a header row as strings.
func HeaderStrings(row Row) []string {
	header := make([]string, len(row))
	for i, value := range row {
		header[i] = CellString(value)
	}
	return header
}
