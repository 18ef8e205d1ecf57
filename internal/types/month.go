// Package types implements calendar types for TwoBolsos.
package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// Month is a month in a specific year.
//
// The underlying time is always the first instant of the month in UTC.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs in that time's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("month must be in YYYY-MM format: %q", s)
	}

	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time {
	return time.Time(m)
}

// FirstDay returns the first calendar day of the month.
func (m Month) FirstDay() Date {
	return DateOf(time.Time(m))
}

// MarshalJSON implements the json.Marshaler interface.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
//
// Both "YYYY-MM" and "YYYY-MM-DD" are accepted, the day is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	if len(value) == len(dateLayout) {
		d, err := ParseDate(value)
		if err != nil {
			return err
		}
		*m = MonthOf(d.Time())
		return nil
	}

	month, err := ParseMonth(value)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// Scan writes the value from the database.
func (m *Month) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = Month{}
		return nil
	case time.Time:
		*m = MonthOf(v)
		return nil
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	}

	return fmt.Errorf("cannot scan %T into Month", value)
}

func (m *Month) scanString(s string) error {
	if len(s) > len(monthLayout) {
		s = s[:len(monthLayout)]
	}

	month, err := ParseMonth(s)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Month) GormDataType() string {
	return "varchar(7)"
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// After reports whether the month m is after n.
func (m Month) After(n Month) bool {
	return time.Time(m).After(time.Time(n))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// Contains reports whether the day is in the month.
func (m Month) Contains(d Date) bool {
	return MonthOf(d.Time()).Equal(m)
}
