// Package numeric holds the unit conversion and money math used by the
// aggregation engine. All amount, price and ratio arithmetic goes through
// shopspring decimals so valuations never touch binary floating point.
package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// USDCDecimals is the raw-unit exponent of the reference currency. Fund
// shares are denominated in raw USDC units.
const USDCDecimals = 6

var (
	Zero    = decimal.Zero
	One     = decimal.NewFromInt(1)
	Hundred = decimal.NewFromInt(100)
)

// ToDecimal converts a raw integer token amount into its decimal value,
// scaling down by the token's decimals exponent. A decimals exponent of 0
// passes the amount through as an integer-valued decimal.
func ToDecimal(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// FromShare converts a raw share amount (reference-currency units) into its
// decimal value.
func FromShare(raw *big.Int) decimal.Decimal {
	return ToDecimal(raw, USDCDecimals)
}

// SafeDiv divides a by b, returning zero when b is zero. Division by zero is
// an expected state here (empty funds, zero principal), not an error.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// BasisPointsToRatio converts a 0-10000 basis-point value into a 0-1 decimal
// ratio.
func BasisPointsToRatio(bps uint32) decimal.Decimal {
	return decimal.New(int64(bps), -4)
}

// BigIntToDecimal converts an unscaled big integer (vote weights, counters)
// into a decimal.
func BigIntToDecimal(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}
