// Package format renders amounts and dates for display.
//
// Every currency is shown with exactly two fraction digits, including those
// whose natural minor unit differs (JPY is shown as ¥1,000.00).
package format

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency describes a supported display currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// DefaultCurrency is used when an invoice or caller does not name one.
const DefaultCurrency = "USD"

// Currencies is the fixed set of codes accepted on invoices.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "KZT", Symbol: "₸", Name: "Kazakhstani Tenge"},
	{Code: "RUB", Symbol: "₽", Name: "Russian Ruble"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Lookup returns the currency for a code, case-insensitively.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// IsSupported reports whether code is in the currency table.
func IsSupported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// FormatCurrency formats amount with the currency symbol, en-US grouping and
// two fraction digits, e.g. "$1,234.50" or "-€10.00". Unknown codes are
// used verbatim as the prefix ("CHF 5.00"); an empty code means USD.
func FormatCurrency(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}

	prefix := strings.ToUpper(code) + " "
	if c, ok := Lookup(code); ok {
		prefix = c.Symbol
	}

	sign := ""
	if amount < 0 && groupedNumber(-amount) != "0.00" {
		sign = "-"
	}
	return sign + prefix + groupedNumber(math.Abs(amount))
}

// FormatAmount formats amount followed by the currency code, e.g. "1,234.50 KZT".
// Used where the output font cannot draw every currency symbol.
func FormatAmount(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	return groupedNumber(amount) + " " + strings.ToUpper(code)
}

func groupedNumber(v float64) string {
	return printer.Sprintf("%.2f", v)
}
