package utils

import "fmt"

// Amounts are carried everywhere as int64 kobo (minor currency units).
// Binary floating point is only ever used at the display boundary.

// FormatAmount renders a kobo amount as a plain decimal string, e.g.
// 350050 -> "3500.50".
func FormatAmount(kobo int64) string {
	sign := ""
	if kobo < 0 {
		sign = "-"
		kobo = -kobo
	}
	return fmt.Sprintf("%s%d.%02d", sign, kobo/100, kobo%100)
}

// FormatNaira renders a kobo amount with the currency symbol for
// human-facing payloads and reports.
func FormatNaira(kobo int64) string {
	return "₦" + FormatAmount(kobo)
}
