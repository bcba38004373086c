// Package money formats monetary amounts for user-facing messages.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ValidCode reports whether code is a well-formed ISO 4217 currency code.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// symbols covers the currencies the dashboard offers. Anything else is
// rendered with its ISO code prefix.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"BRL": "R$",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
	"INR": "₹",
}

// Format renders an amount like "$15.99" or "SEK 12.00".
func Format(code string, amount decimal.Decimal) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := symbols[code]; ok {
		return sym + amount.StringFixed(2)
	}

	if code == "" {
		return amount.StringFixed(2)
	}

	return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
}
