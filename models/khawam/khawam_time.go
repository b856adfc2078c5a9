package khawam

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// KhawamTime is the timestamp type used across the API. It serializes as
// "2006-01-02 15:04:05" instead of RFC3339 so the dashboard can render the
// value verbatim.
type KhawamTime time.Time

const timeFormat = time.DateTime

// MarshalJSON implements json.Marshaler.
func (t KhawamTime) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(t).Format(timeFormat))
	return []byte(formatted), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *KhawamTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	str := string(data)[1 : len(data)-1]
	parsed, err := time.Parse(timeFormat, str)
	if err != nil {
		return err
	}
	*t = KhawamTime(parsed)
	return nil
}

// Value implements driver.Valuer.
func (t KhawamTime) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements sql.Scanner.
func (t *KhawamTime) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = KhawamTime(v)
	default:
		return fmt.Errorf("cannot scan type %T into KhawamTime", value)
	}
	return nil
}

// String implements fmt.Stringer.
func (t KhawamTime) String() string {
	return time.Time(t).Format(timeFormat)
}

// UnmarshalParam implements gin's query/uri binding.
func (t *KhawamTime) UnmarshalParam(param string) error {
	if param == "" {
		return nil
	}
	parsed, err := time.Parse(time.DateOnly, param)
	if err != nil {
		return err
	}
	*t = KhawamTime(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t KhawamTime) Time() time.Time {
	return time.Time(t)
}

// Now returns the current time as KhawamTime.
func Now() KhawamTime {
	return KhawamTime(time.Now())
}
