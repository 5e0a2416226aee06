// Package metadata resolves token metadata (symbol, decimals) and prices.
// The engine treats every lookup as fallible: a miss degrades the valuation
// path but never blocks share accounting.
package metadata

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/stelelabs/fundx/pkg/entity"
)

// UnknownSymbol is returned for tokens whose symbol cannot be resolved. The
// ledger treats it as unresolved and keeps any previously recorded symbol.
const UnknownSymbol = entity.UnknownSymbol

// DefaultDecimals is the fallback exponent for swap-out tokens whose decimals
// cannot be resolved.
const DefaultDecimals uint8 = 18

// Resolver answers metadata and price lookups at a given chain time.
//
// TokenDecimals and TokenPriceUSDC report ok=false on a miss; TokenSymbol
// never fails and returns UnknownSymbol instead. USDCPriceUSD always returns
// a price (the reference currency is assumed quotable; a depegged or missing
// feed still yields the last known value or 1).
type Resolver interface {
	TokenDecimals(ctx context.Context, token common.Address, at time.Time) (uint8, bool)
	TokenSymbol(ctx context.Context, token common.Address, at time.Time) string
	TokenPriceUSDC(ctx context.Context, token common.Address, at time.Time) (decimal.Decimal, bool)
	USDCPriceUSD(ctx context.Context, at time.Time) decimal.Decimal
}
