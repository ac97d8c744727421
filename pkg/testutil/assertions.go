package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireAmount fails the test unless got equals want. decimal.Decimal
// cannot be compared with assert.Equal because equal values may differ in
// exponent.
func RequireAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromInt(want)), "amount = %s, want %d", got, want)
}

// AssertAmount is the non-fatal variant of RequireAmount.
func AssertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "amount = %s, want %d", got, want)
}
