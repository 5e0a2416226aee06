package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/stelelabs/fundx/pkg/numeric"
)

// Fund is the per-fund aggregate. Share is the raw integer principal ledger
// (reference-currency units); the USD fields are derived valuations and are
// recomputed, never trusted across events.
type Fund struct {
	ID            string         `json:"id"` // decimal fund id
	Manager       common.Address `json:"manager"`
	InvestorCount uint64         `json:"investor_count"`

	Share *big.Int `json:"share"`

	AmountUSD   decimal.Decimal `json:"amount_usd"`
	ProfitUSD   decimal.Decimal `json:"profit_usd"`
	ProfitRatio decimal.Decimal `json:"profit_ratio"`

	Tokens    *TokenLedger `json:"tokens"`
	FeeTokens *TokenLedger `json:"fee_tokens"`

	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtBlock     uint64 `json:"updated_at_block"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

func NewFund(id string, manager common.Address, block uint64, ts int64) *Fund {
	return &Fund{
		ID:                 id,
		Manager:            manager,
		Share:              new(big.Int),
		AmountUSD:          decimal.Zero,
		ProfitUSD:          decimal.Zero,
		ProfitRatio:        decimal.Zero,
		Tokens:             NewTokenLedger(),
		FeeTokens:          NewTokenLedger(),
		CreatedAtTimestamp: ts,
		UpdatedAtBlock:     block,
		UpdatedAtTimestamp: ts,
	}
}

// Principal returns the fund's pooled principal as a decimal in reference
// currency units.
func (f *Fund) Principal() decimal.Decimal {
	return numeric.FromShare(f.Share)
}
