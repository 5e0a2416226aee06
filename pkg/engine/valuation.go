package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/numeric"
)

// ledgerValueUSD prices every position in the ledger at the event time and
// sums to USD. Positions whose price cannot be resolved contribute zero — a
// stale valuation is acceptable, a corrupted ledger is not.
func (e *Engine) ledgerValueUSD(ctx context.Context, l *entity.TokenLedger, at time.Time) decimal.Decimal {
	usdcUSD := e.meta.USDCPriceUSD(ctx, at)
	total := decimal.Zero
	for _, p := range l.Positions() {
		price, ok := e.meta.TokenPriceUSDC(ctx, p.Token, at)
		if !ok {
			e.logger.Warn("token price unresolved, valuing position at zero",
				zap.String("token", p.Token.Hex()),
				zap.String("symbol", p.Symbol))
			continue
		}
		total = total.Add(p.Amount.Mul(price).Mul(usdcUSD))
	}
	return total
}

// applyFundProfit recomputes profit = valuation − principal and the profit
// ratio, with a zero ratio when principal is zero.
func (e *Engine) applyFundProfit(ctx context.Context, fund *entity.Fund, at time.Time) {
	principalUSD := fund.Principal().Mul(e.meta.USDCPriceUSD(ctx, at))
	fund.ProfitUSD = fund.AmountUSD.Sub(principalUSD)
	fund.ProfitRatio = numeric.SafeDiv(fund.ProfitUSD, principalUSD)
}

func applyInvestorProfit(inv *entity.Investor) {
	inv.ProfitUSD = inv.AmountUSD.Sub(inv.PrincipalUSD)
	inv.ProfitRatio = numeric.SafeDiv(inv.ProfitUSD, inv.PrincipalUSD)
}

// shiftInfoTotal folds a fund valuation change into the protocol-wide total.
func (e *Engine) shiftInfoTotal(ev *event.Event, oldUSD, newUSD decimal.Decimal) {
	info := e.store.Info()
	if info == nil {
		return
	}
	info.TotalAmountUSD = info.TotalAmountUSD.Sub(oldUSD).Add(newUSD)
	info.UpdatedAtBlock = ev.BlockNumber
	info.UpdatedAtTimestamp = ev.BlockTime
	e.store.SaveInfo(info)
}

func touchFund(fund *entity.Fund, ev *event.Event) {
	fund.UpdatedAtBlock = ev.BlockNumber
	fund.UpdatedAtTimestamp = ev.BlockTime
}

func touchInvestor(inv *entity.Investor, ev *event.Event) {
	inv.UpdatedAtBlock = ev.BlockNumber
	inv.UpdatedAtTimestamp = ev.BlockTime
}
