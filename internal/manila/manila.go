// Package manila implements the Manila calendar-day arithmetic every view in
// the visitor system is keyed on. Asia/Manila is a fixed UTC+8 offset with no
// daylight saving, so a fixed zone is used instead of the tz database.
package manila

import (
	"fmt"
	"strings"
	"time"
)

// Zone is the Asia/Manila time zone.
var Zone = time.FixedZone("Asia/Manila", 8*60*60)

const dateLayout = "2006-01-02"

// Date returns the Manila calendar day (YYYY-MM-DD) of the given instant.
func Date(t time.Time) string {
	return t.In(Zone).Format(dateLayout)
}

// Today returns the current Manila calendar day.
func Today(now time.Time) string {
	return Date(now)
}

// DayRange returns the first and last instant of the Manila day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	local := t.In(Zone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// MonthRange returns the first and last instant of the Manila month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	local := t.In(Zone)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Zone)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// ParseDate parses a YYYY-MM-DD string as a Manila-local date.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(raw), Zone)
}

// ParseTimestamp accepts the timestamp shapes the upstream backend emits.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		dateLayout,
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			if layout == "2006-01-02T15:04:05" || layout == "2006-01-02 15:04:05" || layout == dateLayout {
				// No zone information: upstream stores Manila wall-clock time.
				return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), Zone), nil
			}
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// CombineDateTime resolves a raw time observation against a Manila date.
// Bare HH:mm[:ss] values are anchored to the date at +08:00; complete
// timestamps are parsed as-is.
func CombineDateTime(date, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if clock, err := time.Parse(layout, raw); err == nil {
			day, err := ParseDate(date)
			if err != nil {
				return time.Time{}, err
			}
			return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, Zone), nil
		}
	}
	return ParseTimestamp(raw)
}

// FormatISO renders an instant as an RFC 3339 timestamp at +08:00.
func FormatISO(t time.Time) string {
	return t.In(Zone).Format(time.RFC3339)
}

// FormatDateTime renders an instant as Manila wall-clock time for display.
func FormatDateTime(t time.Time) string {
	return t.In(Zone).Format("Jan 2, 2006 3:04:05 PM")
}
