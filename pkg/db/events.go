package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethereum/go-ethereum/common"

	"github.com/stelelabs/fundx/pkg/db/models"
	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
)

// Record writes one immutable mirror row for a processed event. The table is
// ReplacingMergeTree on record_id, so redelivered events after a replay
// collapse to a single row.
func (db *DB) Record(ctx context.Context, ev *event.Event) error {
	row, err := eventRow(ev)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, models.EventsTableName, models.ColumnNames(models.EventColumns))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	if err := batch.Append(
		row.RecordID,
		row.BlockNumber,
		row.BlockTime,
		row.TxHash,
		row.LogIndex,
		row.Address,
		row.EventType,
		row.FundID,
		row.Investor,
		row.Token,
		row.Amount,
		row.Msg,
	); err != nil {
		return err
	}
	return batch.Send()
}

// RecentEvents returns the latest mirrored events, newest first.
func (db *DB) RecentEvents(ctx context.Context, limit int) ([]*models.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		ORDER BY block_number DESC, log_index DESC
		LIMIT ?
	`, models.ColumnNames(models.EventColumns), db.Name, models.EventsTableName)

	var rows []*models.EventRecord
	if err := db.Select(ctx, &rows, query, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// FundEvents returns the mirrored events touching one fund, newest first.
func (db *DB) FundEvents(ctx context.Context, fundID string, limit int) ([]*models.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s FROM "%s"."%s" FINAL
		WHERE fund_id = ?
		ORDER BY block_number DESC, log_index DESC
		LIMIT ?
	`, models.ColumnNames(models.EventColumns), db.Name, models.EventsTableName)

	var rows []*models.EventRecord
	if err := db.Select(ctx, &rows, query, fundID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// eventRow flattens an event into the mirror schema: common fields become
// typed columns, the whole payload lands in msg.
func eventRow(ev *event.Event) (*models.EventRecord, error) {
	msg, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.Type, err)
	}

	row := &models.EventRecord{
		RecordID:    ev.RecordID(),
		BlockNumber: ev.BlockNumber,
		BlockTime:   ev.Time(),
		TxHash:      ev.TxHash.Hex(),
		LogIndex:    ev.LogIndex,
		Address:     entity.NormalizeAddress(ev.Address),
		EventType:   string(ev.Type),
		Msg:         string(msg),
	}

	switch p := ev.Payload.(type) {
	case *event.FundCreated:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Manager)
	case *event.Subscribe:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Investor)
	case *event.Deposit:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Investor)
		row.Token = addrPtr(p.Token)
		row.Amount = bigPtr(p.Amount)
	case *event.DepositFee:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Investor)
		row.Token = addrPtr(p.Token)
		row.Amount = bigPtr(p.Amount)
	case *event.Withdraw:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Investor)
	case *event.WithdrawFee:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Manager)
		row.Token = addrPtr(p.Token)
		row.Amount = bigPtr(p.Amount)
	case *event.Swap:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Investor)
		row.Token = addrPtr(p.TokenIn)
		row.Amount = bigPtr(p.AmountIn)
	case *event.ManagerNFTMinted:
		row.FundID = strPtr(p.FundID.String())
		row.Investor = addrPtr(p.Manager)
	case *event.VoteCast:
		row.Investor = addrPtr(p.Voter)
		row.Amount = bigPtr(p.Weight)
	case *event.VoteCastWithParams:
		row.Investor = addrPtr(p.Voter)
		row.Amount = bigPtr(p.Weight)
	case *event.DelegateVotesChanged:
		row.Investor = addrPtr(p.Delegate)
		row.Amount = bigPtr(p.NewBalance)
	case *event.TokenTransfer:
		row.Investor = addrPtr(p.To)
		row.Amount = bigPtr(p.Value)
	}

	return row, nil
}

func strPtr(s string) *string { return &s }

func addrPtr(a common.Address) *string {
	s := entity.NormalizeAddress(a)
	return &s
}

func bigPtr(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
