package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParsePriceMinorUnits extracts the first numeric amount from a display price
// like "249,00 kr" or "kr 1 299.50" and converts it to integer minor units.
// A comma is treated as the decimal separator; grouping spaces (including
// NBSP) are stripped first.
func ParsePriceMinorUnits(price string) (int64, error) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "").Replace(price)
	match := priceRe.FindString(cleaned)
	if match == "" {
		return 0, fmt.Errorf("no numeric amount in price %q", price)
	}

	amount, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", match, err)
	}
	return int64(math.Round(amount * 100)), nil
}

// FormatAmount renders minor units for display ("5000" nok -> "50.00 NOK").
// Presentation only; stored amounts stay in minor units.
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}
