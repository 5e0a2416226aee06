package entity

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// VotingPower is one delegate's voting power at one block, folded from
// DelegateVotesChanged events. Keyed "<lowercase hex delegate>-<block>".
type VotingPower struct {
	ID        string         `json:"id"`
	Voter     common.Address `json:"voter"`
	Block     uint64         `json:"block"`
	Power     *big.Int       `json:"power"`
	Timestamp int64          `json:"timestamp"`
	TxHash    common.Hash    `json:"tx_hash"`
}

func VotingPowerKey(delegate common.Address, block uint64) string {
	return NormalizeAddress(delegate) + "-" + strconv.FormatUint(block, 10)
}
