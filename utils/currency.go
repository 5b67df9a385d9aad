package utils

import "fmt"

// FormatCompactINR formats an amount in Indian Rupees using the compact
// crore/lakh/thousand notation used across reports and chat context.
func FormatCompactINR(amount float64) string {
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.1fCr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.1fL", amount/1e5)
	case amount >= 1e3:
		return fmt.Sprintf("₹%.1fK", amount/1e3)
	default:
		return fmt.Sprintf("₹%.0f", amount)
	}
}
