package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exponent int32  `json:"exponent"`
}

var SupportedCurrencies = map[string]Currency{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Exponent: 2},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Exponent: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Exponent: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Exponent: 2},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Exponent: 2},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Exponent: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Exponent: 0},
}

func IsSupportedCurrency(code string) bool {
	_, ok := SupportedCurrencies[strings.ToUpper(code)]
	return ok
}

// PercentageOf returns percent% of amount in minor units, unrounded.
func PercentageOf(amount int64, percent float64) decimal.Decimal {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100))
}

// RoundMinorUnits rounds v to whole minor units, half-up.
func RoundMinorUnits(v decimal.Decimal) int64 {
	return v.Round(0).IntPart()
}

// IsWholeMinorUnits reports whether v has no fractional part.
func IsWholeMinorUnits(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Truncate(0))
}

// FormatMinorUnits renders an amount held in minor units, e.g. 49950 INR -> ₹499.50.
func FormatMinorUnits(amount int64, currencyCode string) string {
	currency, exists := SupportedCurrencies[strings.ToUpper(currencyCode)]
	if !exists {
		currency = SupportedCurrencies[DefaultCurrency]
	}

	value := decimal.New(amount, -currency.Exponent)
	return fmt.Sprintf("%s%s", currency.Symbol, value.StringFixed(currency.Exponent))
}
