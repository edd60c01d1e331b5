package util

import "github.com/shopspring/decimal"

// minorUnitDigits maps a currency code to its minor-unit exponent.
var minorUnitDigits = map[string]int32{
	"VND": 0,
	"SGD": 2,
}

// FormatAmount renders an integer minor-unit amount as a decimal string in
// major units, e.g. 150050 SGD -> "1500.50", 5000 VND -> "5000".
func FormatAmount(amount int64, currencyCode string) string {
	digits, ok := minorUnitDigits[currencyCode]
	if !ok {
		digits = 2
	}
	return decimal.New(amount, -digits).StringFixed(digits)
}
