package advisor

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatAmount renders v with en-US digit grouping and up to three
// fraction digits, e.g. 60000 → "60,000" and 1234.5 → "1,234.5".
func FormatAmount(v float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// RoundCents rounds v to two decimal places, halves away from zero. Values
// beyond float64's integer precision have no cents and are returned as is.
func RoundCents(v float64) float64 {
	if math.Abs(v) >= 1<<53 || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
