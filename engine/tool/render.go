package tool

import (
	"strconv"
	"strings"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatPrice renders whole amounts without a decimal point, matching the
// catalog data.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}
