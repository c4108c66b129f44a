package ticketing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var germanPrinter = message.NewPrinter(language.German)

// FormatPrice renders an amount with two decimals and a comma separator, e.g. "37,50".
func FormatPrice(amount float64) string {
	return germanPrinter.Sprint(number.Decimal(amount, number.Scale(2)))
}

// roundCents rounds to two decimals.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
