package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FundShare mirrors a fund's total share as reported by the contract. It is
// kept apart from Fund so that valuation recomputation can never contaminate
// the share ledger.
type FundShare struct {
	FundID     string      `json:"fund_id"`
	TotalShare *big.Int    `json:"total_share"`
	Block      uint64      `json:"block"`
	TxHash     common.Hash `json:"tx_hash"`
	Timestamp  int64       `json:"timestamp"`
}

// InvestorShare mirrors one investor's share, keyed like Investor.
type InvestorShare struct {
	ID        string      `json:"id"` // "<fundId>-<lowercase hex address>"
	FundID    string      `json:"fund_id"`
	Share     *big.Int    `json:"share"`
	Block     uint64      `json:"block"`
	TxHash    common.Hash `json:"tx_hash"`
	Timestamp int64       `json:"timestamp"`
}
