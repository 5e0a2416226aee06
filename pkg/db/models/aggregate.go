package models

import (
	"time"
)

const (
	InfoTableName        = "info"
	FundsTableName       = "funds"
	InvestorsTableName   = "investors"
	ProposalsTableName   = "proposals"
	VoteResultsTableName = "vote_results"
	VotesTableName       = "votes"
)

// Aggregate tables hold the periodically flushed current state. All of them
// are ReplacingMergeTree versioned by flushed_at, so a flush is a plain
// insert and readers take the latest row per key with FINAL.

type InfoRow struct {
	Address        string    `ch:"address" json:"address"`
	Owner          string    `ch:"owner" json:"owner"`
	FundCount      uint64    `ch:"fund_count" json:"fund_count"`
	InvestorCount  uint64    `ch:"investor_count" json:"investor_count"`
	TotalAmountUSD string    `ch:"total_amount_usd" json:"total_amount_usd"`
	UpdatedAtBlock uint64    `ch:"updated_at_block" json:"updated_at_block"`
	FlushedAt      time.Time `ch:"flushed_at" json:"flushed_at"`
}

var InfoColumns = []ColumnDef{
	{Name: "address", Type: "String"},
	{Name: "owner", Type: "String"},
	{Name: "fund_count", Type: "UInt64"},
	{Name: "investor_count", Type: "UInt64"},
	{Name: "total_amount_usd", Type: "String"},
	{Name: "updated_at_block", Type: "UInt64"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}

type FundRow struct {
	FundID         string    `ch:"fund_id" json:"fund_id"`
	Manager        string    `ch:"manager" json:"manager"`
	InvestorCount  uint64    `ch:"investor_count" json:"investor_count"`
	Share          string    `ch:"share" json:"share"`
	AmountUSD      string    `ch:"amount_usd" json:"amount_usd"`
	ProfitUSD      string    `ch:"profit_usd" json:"profit_usd"`
	ProfitRatio    string    `ch:"profit_ratio" json:"profit_ratio"`
	Tokens         []string  `ch:"tokens" json:"tokens"`
	TokenSymbols   []string  `ch:"token_symbols" json:"token_symbols"`
	TokenAmounts   []string  `ch:"token_amounts" json:"token_amounts"`
	FeeTokens      []string  `ch:"fee_tokens" json:"fee_tokens"`
	FeeTokenAmts   []string  `ch:"fee_token_amounts" json:"fee_token_amounts"`
	CreatedAt      time.Time `ch:"created_at" json:"created_at"`
	UpdatedAtBlock uint64    `ch:"updated_at_block" json:"updated_at_block"`
	FlushedAt      time.Time `ch:"flushed_at" json:"flushed_at"`
}

var FundColumns = []ColumnDef{
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
	{Name: "fee_tokens", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "fee_token_amounts", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "created_at", Type: "DateTime"},
	{Name: "updated_at_block", Type: "UInt64"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}

type InvestorRow struct {
	InvestorID     string    `ch:"investor_id" json:"investor_id"`
	FundID         string    `ch:"fund_id" json:"fund_id"`
	Address        string    `ch:"address" json:"address"`
	IsManager      bool      `ch:"is_manager" json:"is_manager"`
	Share          string    `ch:"share" json:"share"`
	PrincipalUSD   string    `ch:"principal_usd" json:"principal_usd"`
	AmountUSD      string    `ch:"amount_usd" json:"amount_usd"`
	ProfitUSD      string    `ch:"profit_usd" json:"profit_usd"`
	ProfitRatio    string    `ch:"profit_ratio" json:"profit_ratio"`
	Tokens         []string  `ch:"tokens" json:"tokens"`
	TokenSymbols   []string  `ch:"token_symbols" json:"token_symbols"`
	TokenAmounts   []string  `ch:"token_amounts" json:"token_amounts"`
	CreatedAt      time.Time `ch:"created_at" json:"created_at"`
	UpdatedAtBlock uint64    `ch:"updated_at_block" json:"updated_at_block"`
	FlushedAt      time.Time `ch:"flushed_at" json:"flushed_at"`
}

var InvestorColumns = []ColumnDef{
	{Name: "investor_id", Type: "String"},
	{Name: "fund_id", Type: "String"},
	{Name: "address", Type: "String", Codec: "ZSTD(1)"},
	{Name: "is_manager", Type: "Bool"},
	{Name: "share", Type: "String"},
	{Name: "principal_usd", Type: "String"},
	{Name: "amount_usd", Type: "String"},
	{Name: "profit_usd", Type: "String"},
	{Name: "profit_ratio", Type: "String"},
	{Name: "tokens", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_symbols", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "token_amounts", Type: "Array(String)", Codec: "ZSTD(1)"},
	{Name: "created_at", Type: "DateTime"},
	{Name: "updated_at_block", Type: "UInt64"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}

type ProposalRow struct {
	ProposalID       string    `ch:"proposal_id" json:"proposal_id"`
	Proposer         string    `ch:"proposer" json:"proposer"`
	Status           string    `ch:"status" json:"status"`
	VoteStart        string    `ch:"vote_start" json:"vote_start"`
	VoteEnd          string    `ch:"vote_end" json:"vote_end"`
	Description      string    `ch:"description" json:"description"`
	CreatedAt        time.Time `ch:"created_at" json:"created_at"`
	LastUpdatedBlock uint64    `ch:"last_updated_block" json:"last_updated_block"`
	FlushedAt        time.Time `ch:"flushed_at" json:"flushed_at"`
}

var ProposalColumns = []ColumnDef{
	{Name: "proposal_id", Type: "String"},
	{Name: "proposer", Type: "String", Codec: "ZSTD(1)"},
	{Name: "status", Type: "LowCardinality(String)"},
	{Name: "vote_start", Type: "String"},
	{Name: "vote_end", Type: "String"},
	{Name: "description", Type: "String", Codec: "ZSTD(3)"},
	{Name: "created_at", Type: "DateTime"},
	{Name: "last_updated_block", Type: "UInt64"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}

type VoteResultRow struct {
	ProposalID        string    `ch:"proposal_id" json:"proposal_id"`
	ForVotes          string    `ch:"for_votes" json:"for_votes"`
	AgainstVotes      string    `ch:"against_votes" json:"against_votes"`
	AbstainVotes      string    `ch:"abstain_votes" json:"abstain_votes"`
	TotalVotes        string    `ch:"total_votes" json:"total_votes"`
	ForPercentage     string    `ch:"for_percentage" json:"for_percentage"`
	AgainstPercentage string    `ch:"against_percentage" json:"against_percentage"`
	AbstainPercentage string    `ch:"abstain_percentage" json:"abstain_percentage"`
	VoterCount        uint64    `ch:"voter_count" json:"voter_count"`
	IsFinalized       bool      `ch:"is_finalized" json:"is_finalized"`
	FlushedAt         time.Time `ch:"flushed_at" json:"flushed_at"`
}

var VoteResultColumns = []ColumnDef{
	{Name: "proposal_id", Type: "String"},
	{Name: "for_votes", Type: "String"},
	{Name: "against_votes", Type: "String"},
	{Name: "abstain_votes", Type: "String"},
	{Name: "total_votes", Type: "String"},
	{Name: "for_percentage", Type: "String"},
	{Name: "against_percentage", Type: "String"},
	{Name: "abstain_percentage", Type: "String"},
	{Name: "voter_count", Type: "UInt64"},
	{Name: "is_finalized", Type: "Bool"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}

type VoteRow struct {
	VoteID     string    `ch:"vote_id" json:"vote_id"`
	ProposalID string    `ch:"proposal_id" json:"proposal_id"`
	Voter      string    `ch:"voter" json:"voter"`
	Support    uint8     `ch:"support" json:"support"`
	Weight     string    `ch:"weight" json:"weight"`
	Reason     string    `ch:"reason" json:"reason"`
	Block      uint64    `ch:"block" json:"block"`
	Timestamp  time.Time `ch:"timestamp" json:"timestamp"`
	TxHash     string    `ch:"tx_hash" json:"tx_hash"`
	FlushedAt  time.Time `ch:"flushed_at" json:"flushed_at"`
}

var VoteColumns = []ColumnDef{
	{Name: "vote_id", Type: "String"},
	{Name: "proposal_id", Type: "String"},
	{Name: "voter", Type: "String", Codec: "ZSTD(1)"},
	{Name: "support", Type: "UInt8"},
	{Name: "weight", Type: "String"},
	{Name: "reason", Type: "String", Codec: "ZSTD(3)"},
	{Name: "block", Type: "UInt64"},
	{Name: "timestamp", Type: "DateTime"},
	{Name: "tx_hash", Type: "String"},
	{Name: "flushed_at", Type: "DateTime64(3)"},
}
