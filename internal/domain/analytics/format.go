package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown in place of a metric that has no value
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// FormatRubles renders an amount as whole rubles with thousands separators, e.g. ₽1,234,567
func FormatRubles(amount decimal.Decimal) string {
	return printer.Sprintf("₽%d", amount.Round(0).IntPart())
}

// FormatCount renders an integer count with thousands separators
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatQuantity renders a quantity rounded to whole units with thousands separators
func FormatQuantity(q float64) string {
	return FormatCount(int64(math.Round(q)))
}

// FormatPercent renders a percentage with one decimal, optionally signed (+1.2%)
func FormatPercent(p float64, signed bool) string {
	if signed {
		return fmt.Sprintf("%+.1f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatOptionalPercent renders a nullable percentage, falling back to N/A
func FormatOptionalPercent(p *float64, signed bool) string {
	if p == nil {
		return NotAvailable
	}
	return FormatPercent(*p, signed)
}
