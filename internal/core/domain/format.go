package domain

import (
	"fmt"
	"strings"
)

func fmtPercent(label string, v float64) string {
	return fmt.Sprintf("%s %.2f%%", label, v)
}

func fmtMillis(label string, v float64) string {
	return fmt.Sprintf("%s %.0fms", label, v)
}

func joinNotes(notes []string) string {
	return strings.Join(notes, ", ")
}

// FormatBytes renders a byte count in the largest unit that keeps the value
// under 1024, matching the dashboard's display convention.
func FormatBytes(value float64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	for _, unit := range units {
		if value < 1024 || unit == units[len(units)-1] {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f B", value)
}
