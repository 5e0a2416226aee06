package entity

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Info is the protocol-wide singleton aggregate, keyed by the info contract
// address. It is created once by the InfoCreated event and only ever mutated
// afterwards.
type Info struct {
	Address       common.Address  `json:"address"`
	Owner         common.Address  `json:"owner"`
	FundCount     uint64          `json:"fund_count"`
	InvestorCount uint64          `json:"investor_count"`
	TotalAmountUSD decimal.Decimal `json:"total_amount_usd"`

	UpdatedAtBlock     uint64 `json:"updated_at_block"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

func NewInfo(address, owner common.Address, block uint64, ts int64) *Info {
	return &Info{
		Address:            address,
		Owner:              owner,
		TotalAmountUSD:     decimal.Zero,
		UpdatedAtBlock:     block,
		UpdatedAtTimestamp: ts,
	}
}
