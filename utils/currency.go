package utils

import (
	"fmt"
	"strings"
)

// FormatCurrencyIDR memformat nominal (satuan rupiah penuh) ke format Rupiah.
// Contoh: 52300 -> "Rp 52.300"
func FormatCurrencyIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)

	var parts []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:i]}, parts...)
	}

	formatted := "Rp " + strings.Join(parts, ".")
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}
