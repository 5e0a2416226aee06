package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/db/models"
	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/store"
)

// FlushAggregates persists the current aggregate state. Each table flush is a
// batched insert into a ReplacingMergeTree versioned by flushed_at; the
// flushes for independent tables run in parallel on a worker pool.
func (db *DB) FlushAggregates(ctx context.Context, st store.Store) error {
	flushStart := time.Now()
	flushedAt := time.Now().UTC()

	pool := pond.NewPool(4)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	group.SubmitErr(func() error {
		return db.flushInfo(groupCtx, st.Info(), flushedAt)
	})
	group.SubmitErr(func() error {
		return db.flushFunds(groupCtx, st.Funds(), flushedAt)
	})
	group.SubmitErr(func() error {
		return db.flushInvestors(groupCtx, st.Investors(), flushedAt)
	})
	group.SubmitErr(func() error {
		return db.flushGovernance(groupCtx, st, flushedAt)
	})

	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, pond.ErrGroupStopped) {
			return err
		}
		return fmt.Errorf("flush aggregates: %w", err)
	}

	db.Logger.Info("Aggregate flush complete",
		zap.Duration("duration", time.Since(flushStart)))
	return nil
}

func (db *DB) flushInfo(ctx context.Context, info *entity.Info, flushedAt time.Time) error {
	if info == nil {
		return nil
	}
	return db.insertRow(ctx, models.InfoTableName, models.InfoColumns,
		entity.NormalizeAddress(info.Address),
		entity.NormalizeAddress(info.Owner),
		info.FundCount,
		info.InvestorCount,
		info.TotalAmountUSD.String(),
		info.UpdatedAtBlock,
		flushedAt,
	)
}

func (db *DB) flushFunds(ctx context.Context, funds []*entity.Fund, flushedAt time.Time) error {
	if len(funds) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, models.FundsTableName, models.ColumnNames(models.FundColumns))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, f := range funds {
		tokens, symbols, amounts := positionArrays(f.Tokens.Positions())
		feeTokens, _, feeAmounts := positionArrays(f.FeeTokens.Positions())
		if err := batch.Append(
			f.ID,
			entity.NormalizeAddress(f.Manager),
			f.InvestorCount,
			f.Share.String(),
			f.AmountUSD.String(),
			f.ProfitUSD.String(),
			f.ProfitRatio.String(),
			tokens,
			symbols,
			amounts,
			feeTokens,
			feeAmounts,
			time.Unix(f.CreatedAtTimestamp, 0).UTC(),
			f.UpdatedAtBlock,
			flushedAt,
		); err != nil {
			return err
		}
	}
	return batch.Send()
}

func (db *DB) flushInvestors(ctx context.Context, investors []*entity.Investor, flushedAt time.Time) error {
	if len(investors) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, models.InvestorsTableName, models.ColumnNames(models.InvestorColumns))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, inv := range investors {
		tokens, symbols, amounts := positionArrays(inv.Tokens.Positions())
		share := ""
		if inv.Share != nil {
			share = inv.Share.String()
		}
		if err := batch.Append(
			inv.ID,
			inv.FundID,
			entity.NormalizeAddress(inv.Address),
			inv.IsManager,
			share,
			inv.PrincipalUSD.String(),
			inv.AmountUSD.String(),
			inv.ProfitUSD.String(),
			inv.ProfitRatio.String(),
			tokens,
			symbols,
			amounts,
			time.Unix(inv.CreatedAtTimestamp, 0).UTC(),
			inv.UpdatedAtBlock,
			flushedAt,
		); err != nil {
			return err
		}
	}
	return batch.Send()
}

func (db *DB) flushGovernance(ctx context.Context, st store.Store, flushedAt time.Time) error {
	proposals := st.Proposals()
	if len(proposals) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, models.ProposalsTableName, models.ColumnNames(models.ProposalColumns))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, p := range proposals {
		if err := batch.Append(
			p.ID,
			entity.NormalizeAddress(p.Proposer),
			string(p.Status),
			p.VoteStart.String(),
			p.VoteEnd.String(),
			p.Description,
			time.Unix(p.CreatedAt, 0).UTC(),
			p.LastUpdatedBlock,
			flushedAt,
		); err != nil {
			return err
		}
	}
	if err := batch.Send(); err != nil {
		return err
	}

	for _, p := range proposals {
		res := st.VoteResult(p.ID)
		if res == nil {
			continue
		}
		if err := db.insertRow(ctx, models.VoteResultsTableName, models.VoteResultColumns,
			res.ProposalID,
			res.ForVotes.String(),
			res.AgainstVotes.String(),
			res.AbstainVotes.String(),
			res.TotalVotes.String(),
			res.ForPercentage.String(),
			res.AgainstPercentage.String(),
			res.AbstainPercentage.String(),
			res.VoterCount,
			res.IsFinalized,
			flushedAt,
		); err != nil {
			return err
		}
		if err := db.flushVotes(ctx, st.ProposalVotes(p.ID), flushedAt); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) flushVotes(ctx context.Context, votes []*entity.Vote, flushedAt time.Time) error {
	if len(votes) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, models.VotesTableName, models.ColumnNames(models.VoteColumns))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, v := range votes {
		if err := batch.Append(
			v.ID,
			v.ProposalID,
			entity.NormalizeAddress(v.Voter),
			v.Support,
			v.Weight.String(),
			v.Reason,
			v.Block,
			time.Unix(v.Timestamp, 0).UTC(),
			v.TxHash.Hex(),
			flushedAt,
		); err != nil {
			return err
		}
	}
	return batch.Send()
}
