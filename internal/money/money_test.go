package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/subslayer/subslayer/internal/money"
)

func TestFormat(t *testing.T) {
	type testCase struct {
		name   string
		code   string
		amount string
		want   string
	}

	tests := []testCase{
		{name: "Dollar", code: "USD", amount: "15.99", want: "$15.99"},
		{name: "Euro", code: "EUR", amount: "9.9", want: "€9.90"},
		{name: "UnknownSymbol", code: "SEK", amount: "12", want: "SEK 12.00"},
		{name: "LowercaseCode", code: "usd", amount: "1", want: "$1.00"},
		{name: "EmptyCode", code: "", amount: "3.5", want: "3.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.Format(tt.code, decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidCode(t *testing.T) {
	assert.True(t, money.ValidCode("USD"))
	assert.True(t, money.ValidCode("JPY"))
	assert.False(t, money.ValidCode("DOLLARS"))
	assert.False(t, money.ValidCode(""))
}
