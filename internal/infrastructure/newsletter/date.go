// Package newsletter renders the weekly digest without a language
// model: a deterministic HTML writer plus the date helpers both writer
// implementations share.
package newsletter

import (
	"fmt"
	"time"
)

// FormatDate renders a date for the newsletter title, e.g.
// "August 26th, 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

// Title builds the standing post title for the given run date.
func Title(t time.Time) string {
	return "Weekly Update: " + FormatDate(t)
}

func ordinalSuffix(day int) string {
	if day%100 >= 10 && day%100 <= 20 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
