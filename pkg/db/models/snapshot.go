package models

import (
	"time"
)

const (
	InfoSnapshotsTableName     = "info_snapshots"
	FundSnapshotsTableName     = "fund_snapshots"
	InvestorSnapshotsTableName = "investor_snapshots"
)

// Snapshot tables are ReplacingMergeTree keyed (entity_key, period, bucket_id)
// versioned by updated_at: re-emitting within a bucket overwrites the row.
// Monetary figures are stored as decimal strings to keep them exact.

type InfoSnapshotRow struct {
	EntityKey   string    `ch:"entity_key" json:"entity_key"`
	Period      string    `ch:"period" json:"period"`
	BucketID    int64     `ch:"bucket_id" json:"bucket_id"`
	BucketStart time.Time `ch:"bucket_start" json:"bucket_start"`

	FundCount      uint64 `ch:"fund_count" json:"fund_count"`
	InvestorCount  uint64 `ch:"investor_count" json:"investor_count"`
	TotalAmountUSD string `ch:"total_amount_usd" json:"total_amount_usd"`

	UpdatedAt time.Time `ch:"updated_at" json:"updated_at"`
}

var InfoSnapshotColumns = []ColumnDef{
	{Name: "entity_key", Type: "String", Codec: "ZSTD(1)"},
	{Name: "period", Type: "LowCardinality(String)"},
	{Name: "bucket_id", Type: "Int64", Codec: "Delta, ZSTD(1)"},
	{Name: "bucket_start", Type: "DateTime", Codec: "Delta, ZSTD(1)"},
	{Name: "fund_count", Type: "UInt64"},
	{Name: "investor_count", Type: "UInt64"},
	{Name: "total_amount_usd", Type: "String"},
	{Name: "updated_at", Type: "DateTime64(3)"},
}

type FundSnapshotRow struct {
	EntityKey   string    `ch:"entity_key" json:"entity_key"`
	Period      string    `ch:"period" json:"period"`
	BucketID    int64     `ch:"bucket_id" json:"bucket_id"`
	BucketStart time.Time `ch:"bucket_start" json:"bucket_start"`

	FundID        string   `ch:"fund_id" json:"fund_id"`
	Manager       string   `ch:"manager" json:"manager"`
	InvestorCount uint64   `ch:"investor_count" json:"investor_count"`
	Share         string   `ch:"share" json:"share"`
	AmountUSD     string   `ch:"amount_usd" json:"amount_usd"`
	ProfitUSD     string   `ch:"profit_usd" json:"profit_usd"`
	ProfitRatio   string   `ch:"profit_ratio" json:"profit_ratio"`
	Tokens        []string `ch:"tokens" json:"tokens"`
	TokenSymbols  []string `ch:"token_symbols" json:"token_symbols"`
	TokenAmounts  []string `ch:"token_amounts" json:"token_amounts"`

	UpdatedAt time.Time `ch:"updated_at" json:"updated_at"`
}

var FundSnapshotColumns = []ColumnDef{
	{Name: "entity_key", Type: "String", Codec: "ZSTD(1)"},
	{Name: "period", Type: "LowCardinality(String)"},
	{Name: "bucket_id", Type: "Int64", Codec: "Delta, ZSTD(1)"},
	{Name: "bucket_start", Type: "DateTime", Codec: "Delta, ZSTD(1)"},
	{Name: "fund_id", Type: "String"},
	{Name: "manager", Type: "String", Codec: "ZSTD(1)"},
	{Name: "investor_count", Type: "UInt64"},
	{Name: "share", Type: "String"},
	{Name: "amount_usd", Type: "String"},
	{Name: "profit_usd", Type: "String"},
	{Name: "profit_ratio", Type: "String"},
	{Name: "tokens", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_symbols", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_amounts", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "updated_at", Type: "DateTime64(3)"},
}

type InvestorSnapshotRow struct {
	EntityKey   string    `ch:"entity_key" json:"entity_key"`
	Period      string    `ch:"period" json:"period"`
	BucketID    int64     `ch:"bucket_id" json:"bucket_id"`
	BucketStart time.Time `ch:"bucket_start" json:"bucket_start"`

	InvestorID   string   `ch:"investor_id" json:"investor_id"`
	FundID       string   `ch:"fund_id" json:"fund_id"`
	Investor     string   `ch:"investor" json:"investor"`
	IsManager    bool     `ch:"is_manager" json:"is_manager"`
	Share        string   `ch:"share" json:"share"` // empty when never set
	PrincipalUSD string   `ch:"principal_usd" json:"principal_usd"`
	AmountUSD    string   `ch:"amount_usd" json:"amount_usd"`
	ProfitUSD    string   `ch:"profit_usd" json:"profit_usd"`
	ProfitRatio  string   `ch:"profit_ratio" json:"profit_ratio"`
	Tokens       []string `ch:"tokens" json:"tokens"`
	TokenSymbols []string `ch:"token_symbols" json:"token_symbols"`
	TokenAmounts []string `ch:"token_amounts" json:"token_amounts"`

	UpdatedAt time.Time `ch:"updated_at" json:"updated_at"`
}

var InvestorSnapshotColumns = []ColumnDef{
	{Name: "entity_key", Type: "String", Codec: "ZSTD(1)"},
	{Name: "period", Type: "LowCardinality(String)"},
	{Name: "bucket_id", Type: "Int64", Codec: "Delta, ZSTD(1)"},
	{Name: "bucket_start", Type: "DateTime", Codec: "Delta, ZSTD(1)"},
	{Name: "investor_id", Type: "String"},
	{Name: "fund_id", Type: "String"},
	{Name: "investor", Type: "String", Codec: "ZSTD(1)"},
	{Name: "is_manager", Type: "Bool"},
	{Name: "share", Type: "String"},
	{Name: "principal_usd", Type: "String"},
	{Name: "amount_usd", Type: "String"},
	{Name: "profit_usd", Type: "String"},
	{Name: "profit_ratio", Type: "String"},
	{Name: "tokens", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_symbols", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_amounts", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "updated_at", Type: "DateTime64(3)"},
}
