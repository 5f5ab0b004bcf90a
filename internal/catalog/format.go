package catalog

import "fmt"

// FormatVolume renders a trading volume for display: "$4.2M" at a million or
// more, "$1.8K" at a thousand or more, "$950" below that. One decimal, no
// further rounding. Negative volumes are rejected at catalog load, so they
// are out of contract here.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1_000_000:
		return fmt.Sprintf("$%.1fM", volume/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("$%.1fK", volume/1_000)
	default:
		return fmt.Sprintf("$%g", volume)
	}
}
