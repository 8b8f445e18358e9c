package streak

import (
	"fmt"
	"time"
)

// DateLayout is the canonical textual form of a Date.
const DateLayout = "2006-01-02"

// ReferenceOffset is the fixed UTC offset used to decide which calendar day
// "today" is. It does not follow daylight-saving transitions.
const ReferenceOffset = -5 * time.Hour

// ReferenceZone is the time zone built from ReferenceOffset.
var ReferenceZone = time.FixedZone("UTC-05:00", int(ReferenceOffset/time.Second))

// MinYear and MaxYear bound the dates that survive a round trip through
// DateLayout.
const (
	MinYear = 1
	MaxYear = 9999
)

var errYearOutOfRange = fmt.Errorf("year must be between %04d and %04d", MinYear, MaxYear)

// Date is a calendar date without a time component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day, normalizing overflow the
// same way time.Date does (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the calendar date of the instant now as observed in loc.
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InvalidDateError{Value: s, Err: err}
	}
	d := DateOf(t)
	if d.Year < MinYear {
		return Date{}, &InvalidDateError{Value: s, Err: errYearOutOfRange}
	}
	return d, nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests and
// package-level constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Midnight returns the first instant of the date in loc
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) utc() time.Time {
	return d.Midnight(time.UTC)
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// After reports whether d is strictly later than o
func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Validate returns an *InvalidDateError when d cannot be written as
// YYYY-MM-DD and read back.
func (d Date) Validate() error {
	if d.Year < MinYear || d.Year > MaxYear {
		return &InvalidDateError{Value: d.String(), Err: errYearOutOfRange}
	}
	return nil
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
