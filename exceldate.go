package sheettable

import (
	"time"

	"github.com/domonda/go-sheettable/xldate"
)

// ExcelDateToTimestamp converts an Excel serial date number
// of the 1900 date system to Unix time seconds.
// The readers never convert dates, use this function
// for numeric cells known to contain dates.
func ExcelDateToTimestamp(serial float64) int64 {
	return xldate.ToUnix(serial)
}

// ExcelDateToTime converts an Excel serial date number
// of the 1900 date system to a UTC time.
func ExcelDateToTime(serial float64) (time.Time, error) {
	return xldate.ToTime(serial, xldate.DateMode1900)
}
