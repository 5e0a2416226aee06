package metadata

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Redis key layout, written by the external metadata feeder:
//
//	fundx:token:<lowercase hex>  hash {symbol, decimals}
//	fundx:price:<lowercase hex>  string, price in reference-currency units
//	fundx:price:usd              string, reference currency's USD price
const (
	tokenKeyPrefix = "fundx:token:"
	priceKeyPrefix = "fundx:price:"
	usdPriceKey    = "fundx:price:usd"
)

// RedisResolver resolves token metadata and prices from Redis. Wrap it in
// Cache so repeated lookups within the TTL window stay off the wire.
type RedisResolver struct {
	client *redis.Client
	logger *zap.Logger
}

var _ Resolver = (*RedisResolver)(nil)

func NewRedisResolver(client *redis.Client, logger *zap.Logger) *RedisResolver {
	return &RedisResolver{client: client, logger: logger}
}

func (r *RedisResolver) TokenDecimals(ctx context.Context, token common.Address, _ time.Time) (uint8, bool) {
	raw, err := r.client.HGet(ctx, tokenKey(token), "decimals").Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("token decimals lookup failed",
				zap.String("token", token.Hex()),
				zap.Error(err))
		}
		return 0, false
	}
	dec, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		r.logger.Warn("unparsable token decimals",
			zap.String("token", token.Hex()),
			zap.String("raw", raw))
		return 0, false
	}
	return uint8(dec), true
}

func (r *RedisResolver) TokenSymbol(ctx context.Context, token common.Address, _ time.Time) string {
	sym, err := r.client.HGet(ctx, tokenKey(token), "symbol").Result()
	if err != nil || sym == "" {
		return UnknownSymbol
	}
	return sym
}

func (r *RedisResolver) TokenPriceUSDC(ctx context.Context, token common.Address, _ time.Time) (decimal.Decimal, bool) {
	raw, err := r.client.Get(ctx, priceKeyPrefix+addrKey(token)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("token price lookup failed",
				zap.String("token", token.Hex()),
				zap.Error(err))
		}
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		r.logger.Warn("unparsable token price",
			zap.String("token", token.Hex()),
			zap.String("raw", raw))
		return decimal.Zero, false
	}
	return price, true
}

// USDCPriceUSD returns the reference currency's USD price, falling back to
// parity when the feed is absent.
func (r *RedisResolver) USDCPriceUSD(ctx context.Context, _ time.Time) decimal.Decimal {
	raw, err := r.client.Get(ctx, usdPriceKey).Result()
	if err != nil {
		return decimal.NewFromInt(1)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return price
}

func tokenKey(token common.Address) string {
	return tokenKeyPrefix + addrKey(token)
}

func addrKey(token common.Address) string {
	return strings.ToLower(token.Hex())
}
