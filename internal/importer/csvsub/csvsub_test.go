package csvsub

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subslayer/subslayer/internal/subscription"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Exported 2026-08-30",
		"name,cost,currency,cycle,next_billing,category",
		"Netflix,15.99,USD,monthly,2026-09-04,Streaming",
		"Domain,12.00,EUR,annual,2026-12-01,",
		"Broken,,USD,monthly,2026-09-04,",
		"NoDate,5.00,USD,monthly,not-a-date,",
		"Total,33.99,,,,",
	}, "\n")

	params, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Netflix", params[0].Name)
	assert.Equal(t, "15.99", params[0].Cost.String())
	assert.Equal(t, "USD", params[0].Currency)
	assert.Equal(t, subscription.CycleMonthly, params[0].Cycle)
	assert.Equal(t, time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC), params[0].NextBilling)
	assert.Equal(t, "Streaming", params[0].Category)

	assert.Equal(t, "Domain", params[1].Name)
	assert.Equal(t, subscription.CycleAnnual, params[1].Cycle)
	assert.Empty(t, params[1].Category)
}

func TestParser_Parse_HeaderAliases(t *testing.T) {
	input := strings.Join([]string{
		"Subscription,Price,Renewal Date",
		"Spotify,9.99,01/10/2026",
	}, "\n")

	params, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Spotify", params[0].Name)
	assert.Equal(t, "USD", params[0].Currency)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), params[0].NextBilling)
}

func TestParser_Parse_NoHeader(t *testing.T) {
	input := "just,some,cells\nwithout,a,header\n"

	_, err := New().Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParser_Parse_NegativeCostSkipped(t *testing.T) {
	input := strings.Join([]string{
		"name,cost,next_billing",
		"Refund,-4.99,2026-09-04",
		"Netflix,15.99,2026-09-04",
	}, "\n")

	params, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Netflix", params[0].Name)
}
