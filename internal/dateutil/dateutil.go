// Package dateutil canonicalizes day identifiers. Every tracker keys its
// records by the user's local calendar day, never by a UTC slice, so a record
// written just before midnight lands on the day the user actually lived.
package dateutil

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// DayID formats t as YYYY-MM-DD using its local date components.
func DayID(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDayID parses a YYYY-MM-DD identifier into a local-midnight time.
func ParseDayID(id string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, id, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse day id: %w", err)
	}

	return t, nil
}

// IsDayID reports whether id is a well-formed day identifier.
func IsDayID(id string) bool {
	_, err := time.ParseInLocation(dayLayout, id, time.Local)
	return err == nil
}
