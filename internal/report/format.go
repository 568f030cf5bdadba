package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const timestampLayout = "2006-01-02 15:04:05"

var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// formatMoney renders d as dollars with thousands separators and two decimals.
func formatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	_, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + "$" + formatCount(rounded.Abs().Truncate(0).IntPart()) + "." + frac
}

// formatRate renders a percentage with one decimal place.
func formatRate(rate float64) string {
	return printer.Sprintf("%.1f%%", rate)
}

func formatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

// formatPrice pads d to two decimals but never rounds away digits.
func formatPrice(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return "$" + d.String()
	}
	return "$" + d.StringFixed(2)
}
