package metadata

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
)

// Cache durations. Token identity is near-immutable, prices go stale fast.
const (
	TokenInfoCacheDuration = 604800 * time.Second
	PriceCacheDuration     = 900 * time.Second
)

type tokenInfoEntry struct {
	symbol    string
	decimals  uint8
	hasDec    bool
	fetchedAt time.Time
}

type priceEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// Cache memoizes an upstream Resolver. Negative decimal/price lookups are not
// cached so a late-listing token heals on the next event that references it.
type Cache struct {
	upstream Resolver

	tokenInfo *xsync.Map[common.Address, tokenInfoEntry]
	prices    *xsync.Map[common.Address, priceEntry]

	usdcUSD *xsync.Map[string, priceEntry] // single key, shares the entry shape
}

var _ Resolver = (*Cache)(nil)

func NewCache(upstream Resolver) *Cache {
	return &Cache{
		upstream:  upstream,
		tokenInfo: xsync.NewMap[common.Address, tokenInfoEntry](),
		prices:    xsync.NewMap[common.Address, priceEntry](),
		usdcUSD:   xsync.NewMap[string, priceEntry](),
	}
}

func (c *Cache) TokenDecimals(ctx context.Context, token common.Address, at time.Time) (uint8, bool) {
	if e, ok := c.tokenInfo.Load(token); ok && e.hasDec && at.Sub(e.fetchedAt) < TokenInfoCacheDuration {
		return e.decimals, true
	}
	dec, ok := c.upstream.TokenDecimals(ctx, token, at)
	if !ok {
		return 0, false
	}
	c.storeTokenInfo(ctx, token, at, dec)
	return dec, true
}

func (c *Cache) TokenSymbol(ctx context.Context, token common.Address, at time.Time) string {
	if e, ok := c.tokenInfo.Load(token); ok && e.symbol != UnknownSymbol && at.Sub(e.fetchedAt) < TokenInfoCacheDuration {
		return e.symbol
	}
	sym := c.upstream.TokenSymbol(ctx, token, at)
	if sym != UnknownSymbol {
		e, _ := c.tokenInfo.Load(token)
		e.symbol = sym
		e.fetchedAt = at
		c.tokenInfo.Store(token, e)
	}
	return sym
}

func (c *Cache) TokenPriceUSDC(ctx context.Context, token common.Address, at time.Time) (decimal.Decimal, bool) {
	if e, ok := c.prices.Load(token); ok && at.Sub(e.fetchedAt) < PriceCacheDuration {
		return e.price, true
	}
	price, ok := c.upstream.TokenPriceUSDC(ctx, token, at)
	if !ok {
		return decimal.Zero, false
	}
	c.prices.Store(token, priceEntry{price: price, fetchedAt: at})
	return price, true
}

func (c *Cache) USDCPriceUSD(ctx context.Context, at time.Time) decimal.Decimal {
	if e, ok := c.usdcUSD.Load("usdc"); ok && at.Sub(e.fetchedAt) < PriceCacheDuration {
		return e.price
	}
	price := c.upstream.USDCPriceUSD(ctx, at)
	c.usdcUSD.Store("usdc", priceEntry{price: price, fetchedAt: at})
	return price
}

func (c *Cache) storeTokenInfo(ctx context.Context, token common.Address, at time.Time, dec uint8) {
	e, ok := c.tokenInfo.Load(token)
	if !ok {
		e = tokenInfoEntry{symbol: c.upstream.TokenSymbol(ctx, token, at)}
	}
	e.decimals = dec
	e.hasDec = true
	e.fetchedAt = at
	c.tokenInfo.Store(token, e)
}
