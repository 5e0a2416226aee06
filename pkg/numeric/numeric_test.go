package numeric

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		expected string
	}{
		{"one WETH", "1000000000000000000", 18, "1"},
		{"fractional WETH", "1500000000000000000", 18, "1.5"},
		{"one USDC", "1000000", 6, "1"},
		{"zero decimals passes through", "12345", 0, "12345"},
		{"zero amount", "0", 18, "0"},
		{"dust", "1", 18, "0.000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.raw, 10)
			require.True(t, ok)
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, expected.Equal(ToDecimal(raw, tt.decimals)),
				"ToDecimal(%s, %d) should equal %s", tt.raw, tt.decimals, tt.expected)
		})
	}
}

func TestToDecimalNil(t *testing.T) {
	assert.True(t, ToDecimal(nil, 18).IsZero(), "nil raw amount should convert to zero")
}

func TestFromShare(t *testing.T) {
	raw := big.NewInt(1_000_000)
	assert.True(t, One.Equal(FromShare(raw)), "1e6 raw USDC units should be 1.0")
}

func TestSafeDiv(t *testing.T) {
	ten := decimal.NewFromInt(10)
	four := decimal.NewFromInt(4)

	assert.True(t, decimal.NewFromFloat(2.5).Equal(SafeDiv(ten, four)))
	assert.True(t, SafeDiv(ten, decimal.Zero).IsZero(), "division by zero must yield zero, not panic")
	assert.True(t, SafeDiv(decimal.Zero, decimal.Zero).IsZero())
}

func TestBasisPointsToRatio(t *testing.T) {
	tests := []struct {
		bps      uint32
		expected string
	}{
		{0, "0"},
		{1, "0.0001"},
		{5000, "0.5"},
		{10000, "1"},
	}
	for _, tt := range tests {
		expected, err := decimal.NewFromString(tt.expected)
		require.NoError(t, err)
		assert.True(t, expected.Equal(BasisPointsToRatio(tt.bps)),
			"bps %d should be ratio %s", tt.bps, tt.expected)
	}
}

func TestBigIntToDecimal(t *testing.T) {
	weight, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", BigIntToDecimal(weight).String())
	assert.True(t, BigIntToDecimal(nil).IsZero())
}
