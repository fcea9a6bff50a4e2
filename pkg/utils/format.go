// Package utils provides shared utility functions.
package utils

import "fmt"

// FormatPercent formats a percentage with an explicit sign.
func FormatPercent(value float64) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatRate formats an exchange rate to four decimal places.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.4f", rate)
}
