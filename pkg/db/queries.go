package db

import (
	"context"
	"fmt"

	"github.com/stelelabs/fundx/pkg/db/models"
)

// Read side for the query API. All aggregate tables are ReplacingMergeTree,
// so every read uses FINAL to collapse to the latest flushed row per key.

func (db *DB) GetInfo(ctx context.Context) (*models.InfoRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		ORDER BY flushed_at DESC
		LIMIT 1
	`, models.ColumnNames(models.InfoColumns), db.Name, models.InfoTableName)

	var rows []*models.InfoRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (db *DB) ListFunds(ctx context.Context) ([]*models.FundRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		ORDER BY toUInt64OrZero(fund_id)
	`, models.ColumnNames(models.FundColumns), db.Name, models.FundsTableName)

	var rows []*models.FundRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) GetFund(ctx context.Context, fundID string) (*models.FundRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE fund_id = ?
		LIMIT 1
	`, models.ColumnNames(models.FundColumns), db.Name, models.FundsTableName)

	var rows []*models.FundRow
	if err := db.Select(ctx, &rows, query, fundID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (db *DB) ListFundInvestors(ctx context.Context, fundID string) ([]*models.InvestorRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE fund_id = ?
		ORDER BY investor_id
	`, models.ColumnNames(models.InvestorColumns), db.Name, models.InvestorsTableName)

	var rows []*models.InvestorRow
	if err := db.Select(ctx, &rows, query, fundID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) GetInvestor(ctx context.Context, investorID string) (*models.InvestorRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE investor_id = ?
		LIMIT 1
	`, models.ColumnNames(models.InvestorColumns), db.Name, models.InvestorsTableName)

	var rows []*models.InvestorRow
	if err := db.Select(ctx, &rows, query, investorID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (db *DB) ListProposals(ctx context.Context) ([]*models.ProposalRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		ORDER BY created_at DESC
	`, models.ColumnNames(models.ProposalColumns), db.Name, models.ProposalsTableName)

	var rows []*models.ProposalRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) GetVoteResult(ctx context.Context, proposalID string) (*models.VoteResultRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE proposal_id = ?
		LIMIT 1
	`, models.ColumnNames(models.VoteResultColumns), db.Name, models.VoteResultsTableName)

	var rows []*models.VoteResultRow
	if err := db.Select(ctx, &rows, query, proposalID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (db *DB) ListProposalVotes(ctx context.Context, proposalID string) ([]*models.VoteRow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE proposal_id = ?
		ORDER BY block
	`, models.ColumnNames(models.VoteColumns), db.Name, models.VotesTableName)

	var rows []*models.VoteRow
	if err := db.Select(ctx, &rows, query, proposalID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) ListInfoSnapshots(ctx context.Context, period string, limit int) ([]*models.InfoSnapshotRow, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE period = ?
		ORDER BY bucket_id DESC
		LIMIT ?
	`, models.ColumnNames(models.InfoSnapshotColumns), db.Name, models.InfoSnapshotsTableName)

	var rows []*models.InfoSnapshotRow
	if err := db.Select(ctx, &rows, query, period, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) ListFundSnapshots(ctx context.Context, fundID, period string, limit int) ([]*models.FundSnapshotRow, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE fund_id = ? AND period = ?
		ORDER BY bucket_id DESC
		LIMIT ?
	`, models.ColumnNames(models.FundSnapshotColumns), db.Name, models.FundSnapshotsTableName)

	var rows []*models.FundSnapshotRow
	if err := db.Select(ctx, &rows, query, fundID, period, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *DB) ListInvestorSnapshots(ctx context.Context, investorID, period string, limit int) ([]*models.InvestorSnapshotRow, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE investor_id = ? AND period = ?
		ORDER BY bucket_id DESC
		LIMIT ?
	`, models.ColumnNames(models.InvestorSnapshotColumns), db.Name, models.InvestorSnapshotsTableName)

	var rows []*models.InvestorSnapshotRow
	if err := db.Select(ctx, &rows, query, investorID, period, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
