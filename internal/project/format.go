package project

import (
	"fmt"
	"strings"
)

// Missing is the placeholder rendered for an absent leaf field whose parent
// sub-tree is present.
const Missing = "—"

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatMoney formats a dollar value with B/M/K suffixes, or the missing
// placeholder for nil.
func FormatMoney(v *float64) string {
	if v == nil {
		return Missing
	}
	switch {
	case *v >= 1e12:
		return fmt.Sprintf("$%.2fT", *v/1e12)
	case *v >= 1e9:
		return fmt.Sprintf("$%.2fB", *v/1e9)
	case *v >= 1e6:
		return fmt.Sprintf("$%.2fM", *v/1e6)
	case *v >= 1e3:
		return fmt.Sprintf("$%.1fK", *v/1e3)
	default:
		return fmt.Sprintf("$%.2f", *v)
	}
}

// FormatPrice formats a price as $X.XX, or the missing placeholder for nil.
func FormatPrice(p *float64) string {
	if p == nil {
		return Missing
	}
	return fmt.Sprintf("$%.2f", *p)
}

// FormatRatio formats a plain ratio such as P/E, or the missing placeholder
// for nil.
func FormatRatio(r *float64) string {
	if r == nil {
		return Missing
	}
	return fmt.Sprintf("%.2f", *r)
}

// orMissing substitutes the placeholder for an empty string.
func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}
