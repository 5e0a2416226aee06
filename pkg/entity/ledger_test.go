package entity

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	weth = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	usdc = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	arb  = common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548")
)

func TestTokenLedgerAddAndGet(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(1))
	l.Add(usdc, "USDC", 6, decimal.NewFromInt(100))
	l.Add(weth, "WETH", 18, decimal.NewFromFloat(0.5))

	require.Equal(t, 2, l.Len(), "re-adding a held token must not create a second entry")

	p, ok := l.Get(weth)
	require.True(t, ok)
	assert.Equal(t, "WETH", p.Symbol)
	assert.Equal(t, uint8(18), p.Decimals)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(p.Amount))

	assert.True(t, l.Amount(arb).IsZero(), "absent token amount is zero")
}

func TestTokenLedgerInsertionOrder(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(1))
	l.Add(usdc, "USDC", 6, decimal.NewFromInt(2))
	l.Add(arb, "ARB", 18, decimal.NewFromInt(3))

	tokens := l.Tokens()
	require.Equal(t, []common.Address{weth, usdc, arb}, tokens)
}

func TestTokenLedgerRemovePreservesOrder(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(1))
	l.Add(usdc, "USDC", 6, decimal.NewFromInt(2))
	l.Add(arb, "ARB", 18, decimal.NewFromInt(3))

	require.True(t, l.Remove(usdc))
	assert.Equal(t, []common.Address{weth, arb}, l.Tokens())

	// Index map survives the splice: later lookups still hit.
	p, ok := l.Get(arb)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(3).Equal(p.Amount))

	assert.False(t, l.Remove(usdc), "removing an absent token reports false")
}

func TestTokenLedgerSub(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(10))

	remaining, ok := l.Sub(weth, decimal.NewFromInt(4))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(6).Equal(remaining))

	_, ok = l.Sub(arb, decimal.NewFromInt(1))
	assert.False(t, ok, "subtracting from an absent token reports false")
}

func TestTokenLedgerCloneIsDeep(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(1))

	c := l.Clone()
	c.Add(weth, "WETH", 18, decimal.NewFromInt(1))
	c.Add(usdc, "USDC", 6, decimal.NewFromInt(5))

	assert.True(t, decimal.NewFromInt(1).Equal(l.Amount(weth)), "clone mutation must not leak back")
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, c.Len())
}

func TestTokenLedgerScaled(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(10))
	l.Add(usdc, "USDC", 6, decimal.NewFromInt(300))

	half := l.Scaled(decimal.NewFromFloat(0.5))
	assert.True(t, decimal.NewFromInt(5).Equal(half.Amount(weth)))
	assert.True(t, decimal.NewFromInt(150).Equal(half.Amount(usdc)))
	// Source untouched.
	assert.True(t, decimal.NewFromInt(10).Equal(l.Amount(weth)))
}

func TestLedgerMetadataNeverDegrades(t *testing.T) {
	l := NewTokenLedger()
	l.Add(weth, "WETH", 18, decimal.NewFromInt(2))

	// An unresolved lookup folds its amount but cannot clobber resolved
	// metadata on the held position.
	l.Add(weth, UnknownSymbol, 0, decimal.Zero)
	pos, ok := l.Get(weth)
	require.True(t, ok)
	assert.Equal(t, "WETH", pos.Symbol)
	assert.Equal(t, uint8(18), pos.Decimals)

	// Late-resolved metadata still repairs an Unknown entry.
	l.Add(usdc, UnknownSymbol, 0, decimal.Zero)
	l.Add(usdc, "USDC", 6, decimal.NewFromInt(1))
	pos, ok = l.Get(usdc)
	require.True(t, ok)
	assert.Equal(t, "USDC", pos.Symbol)
	assert.Equal(t, uint8(6), pos.Decimals)

	// Set obeys the same rule.
	l.Set(weth, UnknownSymbol, 0, decimal.NewFromInt(3))
	pos, _ = l.Get(weth)
	assert.Equal(t, "WETH", pos.Symbol)
	assert.Equal(t, uint8(18), pos.Decimals)
	assert.True(t, decimal.NewFromInt(3).Equal(pos.Amount))
}

func TestSettingWhitelist(t *testing.T) {
	s := NewSetting(common.Address{}, 1, 1)

	s.AddWhitelistToken(weth)
	s.AddWhitelistToken(usdc)
	s.AddWhitelistToken(weth) // duplicate add is a no-op

	assert.Equal(t, []common.Address{weth, usdc}, s.WhitelistTokens())
	assert.True(t, s.IsWhitelisted(weth))

	require.True(t, s.RemoveWhitelistToken(weth))
	assert.False(t, s.IsWhitelisted(weth))
	assert.Equal(t, []common.Address{usdc}, s.WhitelistTokens())
	assert.False(t, s.RemoveWhitelistToken(weth))
}
