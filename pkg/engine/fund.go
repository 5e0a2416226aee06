package engine

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/numeric"
)

func (e *Engine) applyInfoCreated(ctx context.Context, ev *event.Event) {
	if e.store.Info() != nil {
		e.logger.Warn("duplicate InfoCreated ignored",
			zap.String("address", ev.Address.Hex()))
		return
	}
	info := entity.NewInfo(ev.Address, ev.Address, ev.BlockNumber, ev.BlockTime)
	e.store.SaveInfo(info)
	e.snapshotInfo(ctx, ev, info)
}

func (e *Engine) applyOwnerChanged(ev *event.Event, p *event.OwnerChanged) {
	info := e.store.Info()
	if info == nil {
		e.logger.Warn("OwnerChanged before InfoCreated, dropped",
			zap.String("new_owner", p.NewOwner.Hex()))
		return
	}
	info.Owner = p.NewOwner
	info.UpdatedAtBlock = ev.BlockNumber
	info.UpdatedAtTimestamp = ev.BlockTime
	e.store.SaveInfo(info)
}

func (e *Engine) applyFundCreated(ctx context.Context, ev *event.Event, p *event.FundCreated) {
	fundID := entity.FundKey(p.FundID)
	if e.store.Fund(fundID) != nil {
		e.logger.Warn("duplicate FundCreated ignored", zap.String("fund", fundID))
		return
	}

	fund := entity.NewFund(fundID, p.Manager, ev.BlockNumber, ev.BlockTime)
	e.store.SaveFund(fund)
	e.saveFundShare(ev, fund)

	// The manager is an investor of their own fund from the start.
	manager := entity.NewInvestor(p.FundID, p.Manager, true, ev.BlockNumber, ev.BlockTime)
	e.store.SaveInvestor(manager)
	fund.InvestorCount++
	e.store.SaveFund(fund)

	if info := e.store.Info(); info != nil {
		info.FundCount++
		info.InvestorCount++
		info.UpdatedAtBlock = ev.BlockNumber
		info.UpdatedAtTimestamp = ev.BlockTime
		e.store.SaveInfo(info)
		e.snapshotInfo(ctx, ev, info)
	} else {
		e.logger.Warn("FundCreated with no Info singleton, protocol counters skipped",
			zap.String("fund", fundID))
	}

	e.snapshotFund(ctx, ev, fund)
	e.snapshotInvestor(ctx, ev, manager)
}

func (e *Engine) applySubscribe(ctx context.Context, ev *event.Event, p *event.Subscribe) {
	key := entity.InvestorKey(p.FundID, p.Investor)
	if e.store.Investor(key) != nil {
		e.logger.Warn("duplicate Subscribe ignored", zap.String("investor", key))
		return
	}

	inv := entity.NewInvestor(p.FundID, p.Investor, false, ev.BlockNumber, ev.BlockTime)
	e.store.SaveInvestor(inv)

	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("Subscribe to unknown fund, fund counters skipped",
			zap.String("investor", key))
	} else {
		fund.InvestorCount++
		touchFund(fund, ev)
		e.store.SaveFund(fund)
		e.snapshotFund(ctx, ev, fund)
	}

	if info := e.store.Info(); info != nil {
		info.InvestorCount++
		info.UpdatedAtBlock = ev.BlockNumber
		info.UpdatedAtTimestamp = ev.BlockTime
		e.store.SaveInfo(info)
		e.snapshotInfo(ctx, ev, info)
	}

	e.snapshotInvestor(ctx, ev, inv)
}

func (e *Engine) applyDeposit(ctx context.Context, ev *event.Event, p *event.Deposit) {
	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("Deposit into unknown fund, dropped",
			zap.String("fund", p.FundID.String()))
		return
	}
	inv := e.store.Investor(entity.InvestorKey(p.FundID, p.Investor))
	if inv == nil {
		// Deposit without a prior Subscribe: materialize the row so share
		// accounting never goes missing.
		e.logger.Warn("Deposit from unsubscribed investor, creating row",
			zap.String("fund", fund.ID),
			zap.String("investor", p.Investor.Hex()))
		inv = entity.NewInvestor(p.FundID, p.Investor, false, ev.BlockNumber, ev.BlockTime)
	}

	// Share ledgers first; they hold regardless of metadata availability.
	inv.Share = p.Share
	fund.Share = p.TotalShare
	e.saveFundShare(ev, fund)
	e.saveInvestorShare(ev, inv)

	at := ev.Time()
	decimals, ok := e.meta.TokenDecimals(ctx, p.Token, at)
	if !ok {
		// A transient resolver miss must not degrade a position the fund
		// already holds; its recorded decimals stay authoritative.
		if held, heldOK := heldDecimals(fund.Tokens, p.Token); heldOK {
			e.logger.Warn("token decimals unresolved, using ledger decimals",
				zap.String("token", p.Token.Hex()))
			decimals, ok = held, true
		}
	}
	amountDec := decimal.Zero
	if !ok {
		e.logger.Warn("token decimals unresolved, deposit amount recorded as zero",
			zap.String("token", p.Token.Hex()))
	} else {
		amountDec = numeric.ToDecimal(p.Amount, decimals)
	}
	symbol := e.meta.TokenSymbol(ctx, p.Token, at)
	fund.Tokens.Add(p.Token, symbol, decimals, amountDec)

	oldUSD := fund.AmountUSD
	if price, priced := e.meta.TokenPriceUSDC(ctx, p.Token, at); priced {
		depositUSD := amountDec.Mul(price).Mul(e.meta.USDCPriceUSD(ctx, at))
		fund.AmountUSD = fund.AmountUSD.Add(depositUSD)
		inv.PrincipalUSD = inv.PrincipalUSD.Add(depositUSD)
	} else {
		e.logger.Warn("deposit token unpriced, valuation unchanged",
			zap.String("token", p.Token.Hex()))
	}

	frac := inv.ShareFraction(p.TotalShare)
	inv.Tokens = fund.Tokens.Scaled(frac)
	inv.AmountUSD = fund.AmountUSD.Mul(frac)

	e.applyFundProfit(ctx, fund, at)
	applyInvestorProfit(inv)
	e.shiftInfoTotal(ev, oldUSD, fund.AmountUSD)

	touchFund(fund, ev)
	touchInvestor(inv, ev)
	e.store.SaveFund(fund)
	e.store.SaveInvestor(inv)

	e.snapshotFund(ctx, ev, fund)
	e.snapshotInvestor(ctx, ev, inv)
	if info := e.store.Info(); info != nil {
		e.snapshotInfo(ctx, ev, info)
	}
}

func (e *Engine) applyDepositFee(ctx context.Context, ev *event.Event, p *event.DepositFee) {
	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("DepositFee for unknown fund, dropped",
			zap.String("fund", p.FundID.String()))
		return
	}

	at := ev.Time()
	decimals, ok := e.meta.TokenDecimals(ctx, p.Token, at)
	if !ok {
		if held, heldOK := heldDecimals(fund.FeeTokens, p.Token); heldOK {
			decimals = held
		} else {
			e.logger.Warn("fee token decimals unresolved, assuming default",
				zap.String("token", p.Token.Hex()))
			decimals = 18
		}
	}
	symbol := e.meta.TokenSymbol(ctx, p.Token, at)
	fund.FeeTokens.Add(p.Token, symbol, decimals, numeric.ToDecimal(p.Amount, decimals))

	touchFund(fund, ev)
	e.store.SaveFund(fund)
	e.snapshotFund(ctx, ev, fund)
}

// heldDecimals reports the decimals recorded on an existing ledger position.
func heldDecimals(l *entity.TokenLedger, token common.Address) (uint8, bool) {
	if pos, ok := l.Get(token); ok {
		return pos.Decimals, true
	}
	return 0, false
}

func (e *Engine) applyWithdraw(ctx context.Context, ev *event.Event, p *event.Withdraw) {
	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("Withdraw from unknown fund, dropped",
			zap.String("fund", p.FundID.String()))
		return
	}
	inv := e.store.Investor(entity.InvestorKey(p.FundID, p.Investor))
	if inv == nil {
		e.logger.Warn("Withdraw by unknown investor, dropped",
			zap.String("fund", fund.ID),
			zap.String("investor", p.Investor.Hex()))
		return
	}

	ratio := numeric.BasisPointsToRatio(p.Percentage)

	// Capture the investor's slice before any mutation; the fund ledger
	// decrement below must be computed from pre-withdraw amounts.
	pre := inv.Tokens.Clone()
	for _, pos := range pre.Positions() {
		withdrawn := pos.Amount.Mul(ratio)
		remaining, found := fund.Tokens.Sub(pos.Token, withdrawn)
		if !found {
			e.logger.Warn("withdrawn token absent from fund ledger",
				zap.String("fund", fund.ID),
				zap.String("token", pos.Token.Hex()))
			continue
		}
		if remaining.Sign() <= 0 {
			fund.Tokens.Remove(pos.Token)
		}
	}

	inv.Share = p.Share
	fund.Share = p.TotalShare
	e.saveFundShare(ev, fund)
	e.saveInvestorShare(ev, inv)

	if p.TotalShare.Sign() > 0 {
		frac := inv.ShareFraction(p.TotalShare)
		inv.Tokens = fund.Tokens.Scaled(frac)
	} else {
		inv.Tokens = entity.NewTokenLedger()
	}
	inv.PrincipalUSD = inv.PrincipalUSD.Mul(numeric.One.Sub(ratio))

	at := ev.Time()
	oldUSD := fund.AmountUSD
	fund.AmountUSD = e.ledgerValueUSD(ctx, fund.Tokens, at)
	e.applyFundProfit(ctx, fund, at)
	inv.AmountUSD = e.ledgerValueUSD(ctx, inv.Tokens, at)
	applyInvestorProfit(inv)
	e.shiftInfoTotal(ev, oldUSD, fund.AmountUSD)

	touchFund(fund, ev)
	touchInvestor(inv, ev)
	e.store.SaveFund(fund)
	e.store.SaveInvestor(inv)

	e.snapshotFund(ctx, ev, fund)
	e.snapshotInvestor(ctx, ev, inv)
	if info := e.store.Info(); info != nil {
		e.snapshotInfo(ctx, ev, info)
	}
}

func (e *Engine) applyWithdrawFee(ctx context.Context, ev *event.Event, p *event.WithdrawFee) {
	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("WithdrawFee for unknown fund, dropped",
			zap.String("fund", p.FundID.String()))
		return
	}

	pos, ok := fund.FeeTokens.Get(p.Token)
	if !ok {
		e.logger.Warn("WithdrawFee for token absent from fee ledger",
			zap.String("fund", fund.ID),
			zap.String("token", p.Token.Hex()))
		return
	}
	remaining, _ := fund.FeeTokens.Sub(p.Token, numeric.ToDecimal(p.Amount, pos.Decimals))
	if remaining.Sign() <= 0 {
		fund.FeeTokens.Remove(p.Token)
	}

	touchFund(fund, ev)
	e.store.SaveFund(fund)
	e.snapshotFund(ctx, ev, fund)
}

func (e *Engine) applySwap(ctx context.Context, ev *event.Event, p *event.Swap) {
	fund := e.store.Fund(entity.FundKey(p.FundID))
	if fund == nil {
		e.logger.Warn("Swap in unknown fund, dropped",
			zap.String("fund", p.FundID.String()))
		return
	}

	at := ev.Time()

	if pos, ok := fund.Tokens.Get(p.TokenIn); ok {
		remaining, _ := fund.Tokens.Sub(p.TokenIn, numeric.ToDecimal(p.AmountIn, pos.Decimals))
		if remaining.Sign() <= 0 {
			fund.Tokens.Remove(p.TokenIn)
		}
	} else {
		e.logger.Warn("swap input token absent from fund ledger",
			zap.String("fund", fund.ID),
			zap.String("token", p.TokenIn.Hex()))
	}

	decimalsOut, ok := e.meta.TokenDecimals(ctx, p.TokenOut, at)
	if !ok {
		if held, heldOK := heldDecimals(fund.Tokens, p.TokenOut); heldOK {
			decimalsOut = held
		} else {
			e.logger.Warn("swap output token decimals unresolved, assuming default",
				zap.String("token", p.TokenOut.Hex()))
			decimalsOut = 18
		}
	}
	symbolOut := e.meta.TokenSymbol(ctx, p.TokenOut, at)
	fund.Tokens.Add(p.TokenOut, symbolOut, decimalsOut, numeric.ToDecimal(p.AmountOut, decimalsOut))

	oldUSD := fund.AmountUSD
	fund.AmountUSD = e.ledgerValueUSD(ctx, fund.Tokens, at)
	e.applyFundProfit(ctx, fund, at)
	e.shiftInfoTotal(ev, oldUSD, fund.AmountUSD)

	touchFund(fund, ev)
	e.store.SaveFund(fund)
	e.snapshotFund(ctx, ev, fund)

	inv := e.store.Investor(entity.InvestorKey(p.FundID, p.Investor))
	if inv == nil {
		e.logger.Warn("swap initiator has no investor row",
			zap.String("fund", fund.ID),
			zap.String("investor", p.Investor.Hex()))
	} else {
		frac := inv.ShareFraction(fund.Share)
		inv.Tokens = fund.Tokens.Scaled(frac)
		inv.AmountUSD = fund.AmountUSD.Mul(frac)
		applyInvestorProfit(inv)
		touchInvestor(inv, ev)
		e.store.SaveInvestor(inv)
		e.snapshotInvestor(ctx, ev, inv)
	}

	if info := e.store.Info(); info != nil {
		e.snapshotInfo(ctx, ev, info)
	}
}

func (e *Engine) saveFundShare(ev *event.Event, fund *entity.Fund) {
	e.store.SaveFundShare(&entity.FundShare{
		FundID:     fund.ID,
		TotalShare: fund.Share,
		Block:      ev.BlockNumber,
		TxHash:     ev.TxHash,
		Timestamp:  ev.BlockTime,
	})
}

func (e *Engine) saveInvestorShare(ev *event.Event, inv *entity.Investor) {
	e.store.SaveInvestorShare(&entity.InvestorShare{
		ID:        inv.ID,
		FundID:    inv.FundID,
		Share:     inv.Share,
		Block:     ev.BlockNumber,
		TxHash:    ev.TxHash,
		Timestamp: ev.BlockTime,
	})
}
