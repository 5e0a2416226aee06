package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/stelelabs/fundx/pkg/db/models"
	"github.com/stelelabs/fundx/pkg/entity"
)

// The snapshot tables are ReplacingMergeTree keyed (entity_key, period,
// bucket_id) with updated_at as the version column, so an upsert is a plain
// insert: the latest write within a bucket wins at merge time and readers
// use FINAL.

func (db *DB) UpsertInfoSnapshot(ctx context.Context, snap *entity.InfoSnapshot) error {
	return db.insertRow(ctx, models.InfoSnapshotsTableName, models.InfoSnapshotColumns,
		snap.Key,
		string(snap.Period),
		snap.BucketID,
		time.Unix(snap.BucketStart, 0).UTC(),
		snap.FundCount,
		snap.InvestorCount,
		snap.TotalAmountUSD.String(),
		time.Now().UTC(),
	)
}

func (db *DB) UpsertFundSnapshot(ctx context.Context, snap *entity.FundSnapshot) error {
	tokens, symbols, amounts := positionArrays(snap.Tokens)
	return db.insertRow(ctx, models.FundSnapshotsTableName, models.FundSnapshotColumns,
		snap.Key,
		string(snap.Period),
		snap.BucketID,
		time.Unix(snap.BucketStart, 0).UTC(),
		snap.FundID,
		entity.NormalizeAddress(snap.Manager),
		snap.InvestorCount,
		snap.Share.String(),
		snap.AmountUSD.String(),
		snap.ProfitUSD.String(),
		snap.ProfitRatio.String(),
		tokens,
		symbols,
		amounts,
		time.Now().UTC(),
	)
}

func (db *DB) UpsertInvestorSnapshot(ctx context.Context, snap *entity.InvestorSnapshot) error {
	tokens, symbols, amounts := positionArrays(snap.Tokens)
	share := ""
	if snap.Share != nil {
		share = snap.Share.String()
	}
	return db.insertRow(ctx, models.InvestorSnapshotsTableName, models.InvestorSnapshotColumns,
		snap.Key,
		string(snap.Period),
		snap.BucketID,
		time.Unix(snap.BucketStart, 0).UTC(),
		snap.InvestorID,
		snap.FundID,
		entity.NormalizeAddress(snap.Investor),
		snap.IsManager,
		share,
		snap.PrincipalUSD.String(),
		snap.AmountUSD.String(),
		snap.ProfitUSD.String(),
		snap.ProfitRatio.String(),
		tokens,
		symbols,
		amounts,
		time.Now().UTC(),
	)
}

func (db *DB) insertRow(ctx context.Context, table string, cols []models.ColumnDef, values ...interface{}) error {
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, table, models.ColumnNames(cols))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	if err := batch.Append(values...); err != nil {
		return err
	}
	return batch.Send()
}

// positionArrays splits ledger positions into the parallel columnar arrays
// the snapshot schema stores.
func positionArrays(positions []entity.TokenPosition) (tokens, symbols, amounts []string) {
	tokens = make([]string, len(positions))
	symbols = make([]string, len(positions))
	amounts = make([]string, len(positions))
	for i, p := range positions {
		tokens[i] = entity.NormalizeAddress(p.Token)
		symbols[i] = p.Symbol
		amounts[i] = p.Amount.String()
	}
	return tokens, symbols, amounts
}
