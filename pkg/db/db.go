// Package db is the ClickHouse persistence layer: the immutable event mirror,
// the snapshot tables and the flushed aggregate tables.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/db/clickhouse"
	"github.com/stelelabs/fundx/pkg/db/models"
	"github.com/stelelabs/fundx/pkg/utils"
)

// DB wraps a ClickHouse connection bound to the indexer database.
type DB struct {
	clickhouse.Client
	Name string
}

// New connects and initializes the indexer database. The database name comes
// from CLICKHOUSE_DATABASE (default "fundx").
func New(ctx context.Context, logger *zap.Logger) (*DB, error) {
	dbName := clickhouse.SanitizeName(utils.Env("CLICKHOUSE_DATABASE", "fundx"))

	client, err := clickhouse.New(ctx, logger.With(zap.String("db", dbName)), dbName)
	if err != nil {
		return nil, err
	}

	db := &DB{Client: client, Name: dbName}
	if err := db.InitializeDB(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// InitializeDB creates the database and all tables. Table creation runs in
// parallel; every statement is IF NOT EXISTS so restarts are safe.
func (db *DB) InitializeDB(ctx context.Context) error {
	initStart := time.Now()

	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("create database %s: %w", db.Name, err)
	}

	initOps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{models.EventsTableName, db.initEvents},
		{models.InfoSnapshotsTableName, db.initInfoSnapshots},
		{models.FundSnapshotsTableName, db.initFundSnapshots},
		{models.InvestorSnapshotsTableName, db.initInvestorSnapshots},
		{models.InfoTableName, db.initInfo},
		{models.FundsTableName, db.initFunds},
		{models.InvestorsTableName, db.initInvestors},
		{models.ProposalsTableName, db.initProposals},
		{models.VoteResultsTableName, db.initVoteResults},
		{models.VotesTableName, db.initVotes},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(initOps))

	for _, op := range initOps {
		wg.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errChan <- fmt.Errorf("init %s: %w", name, err)
			}
		}(op.name, op.fn)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	db.Logger.Info("Database initialization complete",
		zap.String("database", db.Name),
		zap.Duration("duration", time.Since(initStart)))
	return nil
}

// createTable issues CREATE TABLE IF NOT EXISTS from a column schema.
func (db *DB) createTable(ctx context.Context, table string, cols []models.ColumnDef, engine, orderBy string) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY %s
	`, db.Name, table, models.ColumnsToSchemaSQL(cols), engine, orderBy)
	if err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

func (db *DB) initEvents(ctx context.Context) error {
	return db.createTable(ctx, models.EventsTableName, models.EventColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "block_number"),
		"(block_number, log_index, record_id)")
}

func (db *DB) initInfoSnapshots(ctx context.Context) error {
	return db.createTable(ctx, models.InfoSnapshotsTableName, models.InfoSnapshotColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"),
		"(entity_key, period, bucket_id)")
}

func (db *DB) initFundSnapshots(ctx context.Context) error {
	return db.createTable(ctx, models.FundSnapshotsTableName, models.FundSnapshotColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"),
		"(entity_key, period, bucket_id)")
}

func (db *DB) initInvestorSnapshots(ctx context.Context) error {
	return db.createTable(ctx, models.InvestorSnapshotsTableName, models.InvestorSnapshotColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"),
		"(entity_key, period, bucket_id)")
}

func (db *DB) initInfo(ctx context.Context) error {
	return db.createTable(ctx, models.InfoTableName, models.InfoColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(address)")
}

func (db *DB) initFunds(ctx context.Context) error {
	return db.createTable(ctx, models.FundsTableName, models.FundColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(fund_id)")
}

func (db *DB) initInvestors(ctx context.Context) error {
	return db.createTable(ctx, models.InvestorsTableName, models.InvestorColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(fund_id, investor_id)")
}

func (db *DB) initProposals(ctx context.Context) error {
	return db.createTable(ctx, models.ProposalsTableName, models.ProposalColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(proposal_id)")
}

func (db *DB) initVoteResults(ctx context.Context) error {
	return db.createTable(ctx, models.VoteResultsTableName, models.VoteResultColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(proposal_id)")
}

func (db *DB) initVotes(ctx context.Context) error {
	return db.createTable(ctx, models.VotesTableName, models.VoteColumns,
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "flushed_at"),
		"(proposal_id, vote_id)")
}
