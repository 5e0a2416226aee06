package entity

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// SnapshotPeriod is one of the three time-bucket widths snapshots are
// materialized at.
type SnapshotPeriod string

const (
	PeriodDaily   SnapshotPeriod = "daily"
	PeriodWeekly  SnapshotPeriod = "weekly"
	PeriodMonthly SnapshotPeriod = "monthly"
)

// Periods lists every snapshot period in emission order.
var Periods = []SnapshotPeriod{PeriodDaily, PeriodWeekly, PeriodMonthly}

// Seconds returns the bucket width for the period.
func (p SnapshotPeriod) Seconds() int64 {
	switch p {
	case PeriodDaily:
		return 86400
	case PeriodWeekly:
		return 604800
	case PeriodMonthly:
		return 2592000
	default:
		return 86400
	}
}

// BucketID returns the time-bucket index for a unix timestamp:
// floor(timestamp / bucketSeconds).
func (p SnapshotPeriod) BucketID(ts int64) int64 {
	return ts / p.Seconds()
}

// BucketStart returns the unix timestamp of the bucket's lower bound.
func (p SnapshotPeriod) BucketStart(ts int64) int64 {
	return p.BucketID(ts) * p.Seconds()
}

// SnapshotKey derives the snapshot row key "<entityKey>-<period>-<bucketId>".
// One row exists per (entity, period, bucket); writes within the same bucket
// overwrite. The period is part of the key so rows of different widths can
// never collide on a coincident bucket id.
func SnapshotKey(entityKey string, p SnapshotPeriod, ts int64) string {
	return entityKey + "-" + string(p) + "-" + strconv.FormatInt(p.BucketID(ts), 10)
}

// InfoSnapshot is a point-in-time copy of the Info aggregate.
type InfoSnapshot struct {
	Key         string         `json:"key"`
	Period      SnapshotPeriod `json:"period"`
	BucketID    int64          `json:"bucket_id"`
	BucketStart int64          `json:"bucket_start"`

	FundCount      uint64          `json:"fund_count"`
	InvestorCount  uint64          `json:"investor_count"`
	TotalAmountUSD decimal.Decimal `json:"total_amount_usd"`
}

// FundSnapshot is a point-in-time copy of a Fund aggregate's derived fields.
type FundSnapshot struct {
	Key         string         `json:"key"`
	Period      SnapshotPeriod `json:"period"`
	BucketID    int64          `json:"bucket_id"`
	BucketStart int64          `json:"bucket_start"`

	FundID        string          `json:"fund_id"`
	Manager       common.Address  `json:"manager"`
	InvestorCount uint64          `json:"investor_count"`
	Share         *big.Int        `json:"share"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	ProfitUSD     decimal.Decimal `json:"profit_usd"`
	ProfitRatio   decimal.Decimal `json:"profit_ratio"`
	Tokens        []TokenPosition `json:"tokens"`
}

// InvestorSnapshot is a point-in-time copy of an Investor aggregate's derived
// fields.
type InvestorSnapshot struct {
	Key         string         `json:"key"`
	Period      SnapshotPeriod `json:"period"`
	BucketID    int64          `json:"bucket_id"`
	BucketStart int64          `json:"bucket_start"`

	InvestorID   string          `json:"investor_id"`
	FundID       string          `json:"fund_id"`
	Investor     common.Address  `json:"investor"`
	IsManager    bool            `json:"is_manager"`
	Share        *big.Int        `json:"share,omitempty"`
	PrincipalUSD decimal.Decimal `json:"principal_usd"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	ProfitUSD    decimal.Decimal `json:"profit_usd"`
	ProfitRatio  decimal.Decimal `json:"profit_ratio"`
	Tokens       []TokenPosition `json:"tokens"`
}
