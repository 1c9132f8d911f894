package timezone

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Clock is a wall-clock value backed by a TIME column, kept as "15:04:05".
// The empty Clock maps to NULL.
type Clock string

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = ""
	case time.Time:
		*c = Clock(v.Format(time.TimeOnly))
	case []byte:
		*c = Clock(v)
	case string:
		*c = Clock(v)
	default:
		return fmt.Errorf("cannot scan %T into Clock", src)
	}

	return nil
}

func (c Clock) Value() (driver.Value, error) {
	if c == "" {
		return nil, nil
	}

	return string(c), nil
}

func (c Clock) String() string {
	return string(c)
}

// Short drops the seconds, e.g. "08:30".
func (c Clock) Short() string {
	if len(c) >= len("15:04") {
		return string(c[:len("15:04")])
	}

	return string(c)
}

// ParseClock accepts "15:04" or "15:04:05" and normalises to "15:04:05".
func ParseClock(value string) (Clock, error) {
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return Clock(t.Format(time.TimeOnly)), nil
		}
	}

	return "", fmt.Errorf("invalid clock value %q", value)
}
