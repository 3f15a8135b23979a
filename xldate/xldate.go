// Package xldate converts between Excel serial date numbers and Go time values.
//
// Excel stores dates as the number of days since an epoch, with the time of day
// as the fractional part. Two date systems exist:
//   - DateMode1900: serial 0 is 1899-12-30 (Windows default, the 1900 leap year bug
//     makes serials below 61 ambiguous)
//   - DateMode1904: serial 0 is 1904-01-01 (legacy Macintosh workbooks)
//
// All conversions are done in UTC.
package xldate

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Date systems of a workbook.
const (
	DateMode1900 = 0
	DateMode1904 = 1
)

const (
	// SecondsPerDay is the number of seconds of one serial day.
	SecondsPerDay = 86400

	// UnixEpochSerial is the serial number of 1970-01-01 in the 1900 date system.
	UnixEpochSerial = 25569

	// UnixEpochSerial1904 is the serial number of 1970-01-01 in the 1904 date system.
	UnixEpochSerial1904 = UnixEpochSerial - 1462

	// serials of the year 10000 and later are not valid dates
	tooLarge1900 = 2958466
	tooLarge1904 = tooLarge1900 - 1462
)

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

var (
	// ErrNegative is returned for serial numbers or times before the epoch.
	ErrNegative = errors.New("xldate: serial date before epoch")

	// ErrAmbiguous is returned for 1900 date system serials
	// in the range [1, 61) affected by the 1900 leap year bug.
	ErrAmbiguous = errors.New("xldate: ambiguous serial date before 1900-03-01")

	// ErrTooLarge is returned for dates in the year 10000 or later.
	ErrTooLarge = errors.New("xldate: serial date too large")
)

// ToUnix converts a serial number of the 1900 date system
// into Unix time seconds, rounding to the nearest second.
//
// This is a pure arithmetic conversion without any validation:
//
//	round(serial * 86400) - 25569 * 86400
func ToUnix(serial float64) int64 {
	return int64(math.Round(serial*SecondsPerDay)) - UnixEpochSerial*SecondsPerDay
}

// ToTime converts a serial number of the passed date system into a UTC time
// rounded to the nearest second.
func ToTime(serial float64, dateMode int) (time.Time, error) {
	epoch, tooLarge, err := epochOf(dateMode)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case serial < 0:
		return time.Time{}, fmt.Errorf("%w: %v", ErrNegative, serial)
	case serial >= tooLarge:
		return time.Time{}, fmt.Errorf("%w: %v", ErrTooLarge, serial)
	case dateMode == DateMode1900 && serial >= 1 && serial < 61:
		return time.Time{}, fmt.Errorf("%w: %v", ErrAmbiguous, serial)
	}
	seconds := int64(math.Round(serial * SecondsPerDay))
	return epoch.Add(time.Duration(seconds) * time.Second), nil
}

// FromTime converts t into a serial number of the passed date system.
// Sub-second precision is kept as fraction.
func FromTime(t time.Time, dateMode int) (float64, error) {
	epoch, tooLarge, err := epochOf(dateMode)
	if err != nil {
		return 0, err
	}
	// Wall clock of t counts, not its instant
	y, m, d := t.Date()
	t = time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if t.Before(epoch) {
		return 0, fmt.Errorf("%w: %s", ErrNegative, t)
	}
	seconds := float64(t.Unix()-epoch.Unix()) + float64(t.Nanosecond())/1e9
	serial := seconds / SecondsPerDay
	if serial >= tooLarge {
		return 0, fmt.Errorf("%w: %s", ErrTooLarge, t)
	}
	return serial, nil
}

func epochOf(dateMode int) (epoch time.Time, tooLarge float64, err error) {
	switch dateMode {
	case DateMode1900:
		return epoch1900, tooLarge1900, nil
	case DateMode1904:
		return epoch1904, tooLarge1904, nil
	}
	return time.Time{}, 0, fmt.Errorf("xldate: invalid date mode %d", dateMode)
}
