package models

import (
	"time"
)

const EventsTableName = "events"

// EventRecord is the immutable mirror of one decoded log: common queryable
// fields as typed columns, the full decoded payload in the compressed msg
// column. ReplacingMergeTree on record_id makes replays idempotent.
type EventRecord struct {
	RecordID    string    `ch:"record_id" json:"record_id"` // "<txHash>-<logIndex>"
	BlockNumber uint64    `ch:"block_number" json:"block_number"`
	BlockTime   time.Time `ch:"block_time" json:"block_time"`
	TxHash      string    `ch:"tx_hash" json:"tx_hash"`
	LogIndex    uint32    `ch:"log_index" json:"log_index"`
	Address     string    `ch:"address" json:"address"`
	EventType   string    `ch:"event_type" json:"event_type"`

	// Extracted queryable fields, NULL when the event carries none.
	FundID   *string `ch:"fund_id" json:"fund_id,omitempty"`
	Investor *string `ch:"investor" json:"investor,omitempty"`
	Token    *string `ch:"token" json:"token,omitempty"`
	Amount   *string `ch:"amount" json:"amount,omitempty"` // raw integer, decimal string

	// Full decoded payload as JSON.
	Msg string `ch:"msg" json:"msg"`
}

// EventColumns is the schema for the events table.
var EventColumns = []ColumnDef{
	{Name: "record_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_number", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "block_time", Type: "DateTime", Codec: "Delta, ZSTD(1)"},
	{Name: "tx_hash", Type: "String", Codec: "ZSTD(1)"},
	{Name: "log_index", Type: "UInt32"},
	{Name: "address", Type: "String", Codec: "ZSTD(1)"},
	{Name: "event_type", Type: "LowCardinality(String)"},
	{Name: "fund_id", Type: "Nullable(String)"},
	{Name: "investor", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "token", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "amount", Type: "Nullable(String)"},
	{Name: "msg", Type: "String", Codec: "ZSTD(3)"},
}
