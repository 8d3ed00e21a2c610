// Package util contains small helpers shared across the application.
package util

import (
	"fmt"
	"math"
)

// Timemark formats a position in seconds as HH:MM:SS.
func Timemark(seconds float64) string {
	whole := int64(math.Round(seconds))

	hours := whole / 3600
	remaining := whole % 3600
	minutes := remaining / 60
	secs := remaining % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
