package entity

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress renders an address as lowercase hex. This is the single
// canonical form for every composite key in the store; the writer and reader
// paths must both go through it or fund-investor lookups silently miss.
func NormalizeAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// InvestorKey derives the composite key for an investor row:
// "<fundId>-<lowercase hex address>". Distinct (fund, address) pairs never
// collide because the fund id is decimal and the address segment is fixed
// width.
func InvestorKey(fundID *big.Int, investor common.Address) string {
	return fundID.String() + "-" + NormalizeAddress(investor)
}

// VoteKey derives the composite key for a vote row:
// "<proposalId>-<lowercase hex voter>".
func VoteKey(proposalID *big.Int, voter common.Address) string {
	return proposalID.String() + "-" + NormalizeAddress(voter)
}

// FundKey renders a fund id as its store key.
func FundKey(fundID *big.Int) string {
	return fundID.String()
}
