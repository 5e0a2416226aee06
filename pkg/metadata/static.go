package metadata

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Static is a fixed, map-backed Resolver. It backs tests and offline replays
// where price feeds are pinned.
type Static struct {
	decimals map[common.Address]uint8
	symbols  map[common.Address]string
	prices   map[common.Address]decimal.Decimal
	usdcUSD  decimal.Decimal
}

var _ Resolver = (*Static)(nil)

func NewStatic() *Static {
	return &Static{
		decimals: make(map[common.Address]uint8),
		symbols:  make(map[common.Address]string),
		prices:   make(map[common.Address]decimal.Decimal),
		usdcUSD:  decimal.NewFromInt(1),
	}
}

// SetToken registers a token's symbol and decimals.
func (s *Static) SetToken(token common.Address, symbol string, decimals uint8) *Static {
	s.symbols[token] = symbol
	s.decimals[token] = decimals
	return s
}

// SetPriceUSDC pins a token's price in reference-currency units.
func (s *Static) SetPriceUSDC(token common.Address, price decimal.Decimal) *Static {
	s.prices[token] = price
	return s
}

// SetUSDCPriceUSD pins the reference currency's USD price.
func (s *Static) SetUSDCPriceUSD(price decimal.Decimal) *Static {
	s.usdcUSD = price
	return s
}

// DropToken removes a token's symbol and decimals, simulating a resolver
// outage for a token that was previously known.
func (s *Static) DropToken(token common.Address) *Static {
	delete(s.symbols, token)
	delete(s.decimals, token)
	return s
}

// DropPrice removes a token's price, simulating an oracle miss.
func (s *Static) DropPrice(token common.Address) *Static {
	delete(s.prices, token)
	return s
}

func (s *Static) TokenDecimals(_ context.Context, token common.Address, _ time.Time) (uint8, bool) {
	d, ok := s.decimals[token]
	return d, ok
}

func (s *Static) TokenSymbol(_ context.Context, token common.Address, _ time.Time) string {
	if sym, ok := s.symbols[token]; ok {
		return sym
	}
	return UnknownSymbol
}

func (s *Static) TokenPriceUSDC(_ context.Context, token common.Address, _ time.Time) (decimal.Decimal, bool) {
	p, ok := s.prices[token]
	return p, ok
}

func (s *Static) USDCPriceUSD(_ context.Context, _ time.Time) decimal.Decimal {
	return s.usdcUSD
}
