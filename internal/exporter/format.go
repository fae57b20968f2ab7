package exporter

import (
	"fmt"
	"strings"
	"time"
)

// noRecordLabel is rendered wherever a punch has no usable check-out and
// therefore no duration.
const noRecordLabel = "Sin registro"

// formatHours renders a decimal hour count as HH:MM:SS, rounded to the
// nearest second. Negative durations keep their sign.
func formatHours(hours float64) string {
	sign := ""
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	seconds := int64(hours*3600 + 0.5)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, seconds/3600, (seconds%3600)/60, seconds%60)
}

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDate renders a date in the day-first form the source workbooks use.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// formatClock renders the time-of-day portion of a timestamp.
func formatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// upperName normalizes a person name to uppercase for report output,
// matching how the rendered summaries present employees.
func upperName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
