package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. Because the format is fixed
// width and zero padded, plain string comparison orders dates correctly.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Valid reports whether d is a well-formed calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time returns midnight UTC of d.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// Bounds of the four-digit year range that keeps string comparison valid.
const (
	MinDate Date = "0001-01-01"
	MaxDate Date = "9999-12-31"
)

// AddDays returns the date n days after d (n may be negative), clamped to
// [MinDate, MaxDate]. An invalid date is returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	const secondsPerDay = 24 * 60 * 60
	maxT, _ := MaxDate.Time()
	minT, _ := MinDate.Time()
	if n > 0 && int64(n) > (maxT.Unix()-t.Unix())/secondsPerDay {
		return MaxDate
	}
	if n < 0 && int64(n) < (minT.Unix()-t.Unix())/secondsPerDay {
		return MinDate
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Between reports whether start <= d <= end.
func (d Date) Between(start, end Date) bool {
	return start <= d && d <= end
}

func (d Date) String() string {
	return string(d)
}

// UnmarshalJSON rejects strings that are not YYYY-MM-DD dates.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as text; PostgreSQL casts it to DATE.
func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// Scan reads DATE columns, which lib/pq returns as time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
	case string:
		*d = Date(firstDateChars(v))
	case []byte:
		*d = Date(firstDateChars(string(v)))
	case nil:
		*d = ""
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func firstDateChars(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
