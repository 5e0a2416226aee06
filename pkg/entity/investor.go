package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/stelelabs/fundx/pkg/numeric"
)

// Investor is the per-(fund, address) aggregate. Share is nil until the first
// share-bearing event touches the row; nil is distinct from an explicit zero
// (an investor who fully withdrew holds a zero share, one who never deposited
// holds none).
type Investor struct {
	ID        string         `json:"id"` // "<fundId>-<lowercase hex address>"
	FundID    string         `json:"fund_id"`
	Address   common.Address `json:"address"`
	IsManager bool           `json:"is_manager"`

	Share *big.Int `json:"share,omitempty"`

	Tokens *TokenLedger `json:"tokens"`

	PrincipalUSD decimal.Decimal `json:"principal_usd"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	ProfitUSD    decimal.Decimal `json:"profit_usd"`
	ProfitRatio  decimal.Decimal `json:"profit_ratio"`

	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtBlock     uint64 `json:"updated_at_block"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

func NewInvestor(fundID *big.Int, address common.Address, isManager bool, block uint64, ts int64) *Investor {
	return &Investor{
		ID:                 InvestorKey(fundID, address),
		FundID:             fundID.String(),
		Address:            address,
		IsManager:          isManager,
		Tokens:             NewTokenLedger(),
		PrincipalUSD:       decimal.Zero,
		AmountUSD:          decimal.Zero,
		ProfitUSD:          decimal.Zero,
		ProfitRatio:        decimal.Zero,
		CreatedAtTimestamp: ts,
		UpdatedAtBlock:     block,
		UpdatedAtTimestamp: ts,
	}
}

// ShareOrZero returns the investor's share, treating an unset share as zero.
func (inv *Investor) ShareOrZero() *big.Int {
	if inv.Share == nil {
		return new(big.Int)
	}
	return inv.Share
}

// ShareFraction returns the investor's fraction of totalShare, zero when the
// denominator is zero.
func (inv *Investor) ShareFraction(totalShare *big.Int) decimal.Decimal {
	return numeric.SafeDiv(
		numeric.BigIntToDecimal(inv.ShareOrZero()),
		numeric.BigIntToDecimal(totalShare),
	)
}
