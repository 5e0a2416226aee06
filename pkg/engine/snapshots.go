package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
)

// Snapshot emission runs after the aggregate fold, once per period. Upserts
// within the same bucket overwrite, so intra-bucket emission is idempotent:
// the last event of a bucket determines the bucket's row. Sink failures are
// logged and skipped; the aggregate fold has already committed.

func (e *Engine) snapshotInfo(ctx context.Context, ev *event.Event, info *entity.Info) {
	entityKey := entity.NormalizeAddress(info.Address)
	for _, p := range entity.Periods {
		snap := &entity.InfoSnapshot{
			Key:            entity.SnapshotKey(entityKey, p, ev.BlockTime),
			Period:         p,
			BucketID:       p.BucketID(ev.BlockTime),
			BucketStart:    p.BucketStart(ev.BlockTime),
			FundCount:      info.FundCount,
			InvestorCount:  info.InvestorCount,
			TotalAmountUSD: info.TotalAmountUSD,
		}
		if err := e.snapshots.UpsertInfoSnapshot(ctx, snap); err != nil {
			e.logger.Warn("info snapshot upsert failed",
				zap.String("key", snap.Key),
				zap.Error(err))
		}
	}
}

func (e *Engine) snapshotFund(ctx context.Context, ev *event.Event, fund *entity.Fund) {
	for _, p := range entity.Periods {
		snap := &entity.FundSnapshot{
			Key:           entity.SnapshotKey(fund.ID, p, ev.BlockTime),
			Period:        p,
			BucketID:      p.BucketID(ev.BlockTime),
			BucketStart:   p.BucketStart(ev.BlockTime),
			FundID:        fund.ID,
			Manager:       fund.Manager,
			InvestorCount: fund.InvestorCount,
			Share:         fund.Share,
			AmountUSD:     fund.AmountUSD,
			ProfitUSD:     fund.ProfitUSD,
			ProfitRatio:   fund.ProfitRatio,
			Tokens:        fund.Tokens.Positions(),
		}
		if err := e.snapshots.UpsertFundSnapshot(ctx, snap); err != nil {
			e.logger.Warn("fund snapshot upsert failed",
				zap.String("key", snap.Key),
				zap.Error(err))
		}
	}
}

func (e *Engine) snapshotInvestor(ctx context.Context, ev *event.Event, inv *entity.Investor) {
	for _, p := range entity.Periods {
		snap := &entity.InvestorSnapshot{
			Key:          entity.SnapshotKey(inv.ID, p, ev.BlockTime),
			Period:       p,
			BucketID:     p.BucketID(ev.BlockTime),
			BucketStart:  p.BucketStart(ev.BlockTime),
			InvestorID:   inv.ID,
			FundID:       inv.FundID,
			Investor:     inv.Address,
			IsManager:    inv.IsManager,
			Share:        inv.Share,
			PrincipalUSD: inv.PrincipalUSD,
			AmountUSD:    inv.AmountUSD,
			ProfitUSD:    inv.ProfitUSD,
			ProfitRatio:  inv.ProfitRatio,
			Tokens:       inv.Tokens.Positions(),
		}
		if err := e.snapshots.UpsertInvestorSnapshot(ctx, snap); err != nil {
			e.logger.Warn("investor snapshot upsert failed",
				zap.String("key", snap.Key),
				zap.Error(err))
		}
	}
}
