// Package format renders numbers for display.
package format

import (
	"math"

	"github.com/iwvelando/production-optimizer/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with the rupiah symbol and thousands separators (e.g., "-Rp 1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.DefaultCurrencySymbol + " " + formatted
	}
	return constants.DefaultCurrencySymbol + " " + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if amount == 0 {
		// Avoid printing negative zero.
		amount = 0
	}
	return message.NewPrinter(language.English).Sprintf("%.2f", amount)
}

// Quantity returns a production quantity with two decimals and separators.
func Quantity(value float64) string {
	return NumericCurrency(value)
}
