// Package utils provides formatting helper functions.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrency formats a number as US dollars with thousands separators.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a value as a percentage with sign.
func FormatPercent(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// FormatPnL formats a profit/loss value with an explicit sign.
func FormatPnL(pnl float64) string {
	if pnl >= 0 {
		return "+" + FormatCurrency(pnl)
	}
	return FormatCurrency(pnl)
}

// FormatCompact formats a large amount in short form (1.2K, 3.4M).
func FormatCompact(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", amount/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", amount/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", amount/1e3)
	default:
		return fmt.Sprintf("%.2f", amount)
	}
}

// FormatQuantity formats a contract or share count with separators.
func FormatQuantity(qty int64) string {
	negative := qty < 0
	if negative {
		qty = -qty
	}
	s := groupThousands(fmt.Sprintf("%d", qty))
	if negative {
		return "-" + s
	}
	return s
}
