// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// FormatMoney formats an amount in dollars with cents and thousands
// separators, e.g. 1234.5 -> "$1,234.50", -12 -> "-$12.00".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	whole, cents, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + s
	}
	return sign + "$" + FormatNumber(n) + "." + cents
}

// FormatMoneyShort formats an amount compactly for narrow cells and chart
// axes, e.g. 1500 -> "$1.5K", 2000000 -> "$2M", 40 -> "$40", 0.5 -> "$0.50".
func FormatMoneyShort(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	million := thousand.Mul(thousand)
	switch {
	case d.GreaterThanOrEqual(million):
		return sign + "$" + strings.TrimSuffix(d.Div(million).StringFixed(1), ".0") + "M"
	case d.GreaterThanOrEqual(thousand):
		return sign + "$" + strings.TrimSuffix(d.Div(thousand).StringFixed(1), ".0") + "K"
	case d.GreaterThanOrEqual(decimal.NewFromInt(1)) && d.Equal(d.Truncate(0)):
		return sign + "$" + d.StringFixed(0)
	default:
		return sign + "$" + d.StringFixed(2)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(p int) string {
	return strconv.Itoa(p) + "%"
}

// FormatDelta formats the change from previous to current with a sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatMoney(delta.Neg())
	}
	return "+" + FormatMoney(delta)
}

// FormatMonths formats a month count as years and months,
// e.g. 14 -> "1y 2mo", 5 -> "5mo".
func FormatMonths(months int) string {
	if months <= 0 {
		return "0mo"
	}
	y, m := months/12, months%12
	switch {
	case y == 0:
		return fmt.Sprintf("%dmo", m)
	case m == 0:
		return fmt.Sprintf("%dy", y)
	default:
		return fmt.Sprintf("%dy %dmo", y, m)
	}
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
