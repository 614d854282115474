// Package countdown renders the time left until an occurrence boundary.
package countdown

import (
	"strconv"
	"strings"
	"time"
)

// Format builds the countdown text between ref and boundary.
//
// Days and hours are truncated toward zero and hours are what is left after
// removing whole days, so a gap with no leftover hours reads "less than an
// hour" even when whole days remain.
func Format(boundary, ref time.Time, ongoing bool) string {
	totalHours := int64(boundary.Sub(ref) / time.Hour)
	days := totalHours / 24
	hours := totalHours - days*24

	var builder strings.Builder
	if ongoing {
		builder.WriteString("Ending in ")
	} else {
		builder.WriteString("Starting in ")
	}

	if hours == 0 {
		builder.WriteString("less than an hour")
		return builder.String()
	}
	if days != 0 {
		builder.WriteString(plural(days, "day"))
		builder.WriteString(" and ")
	}
	builder.WriteString(plural(hours, "hour"))
	return builder.String()
}

// Remaining returns the time left until boundary, never negative.
func Remaining(boundary, ref time.Time) time.Duration {
	remaining := boundary.Sub(ref)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func plural(count int64, unit string) string {
	text := strconv.FormatInt(count, 10) + " " + unit
	if count > 1 {
		text += "s"
	}
	return text
}
