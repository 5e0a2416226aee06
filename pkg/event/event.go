// Package event defines the decoded on-chain event records consumed by the
// engine. Events arrive in canonical (block number, log index) order,
// at-most-once each; the envelope carries provenance, the payload carries the
// contract-specific parameters.
package event

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Type identifies the contract event a record was decoded from.
type Type string

const (
	// Info contract
	TypeInfoCreated  Type = "InfoCreated"
	TypeOwnerChanged Type = "OwnerChanged"
	TypeFundCreated  Type = "FundCreated"
	TypeSubscribe    Type = "Subscribe"

	// Fund contract
	TypeDeposit     Type = "Deposit"
	TypeDepositFee  Type = "DepositFee"
	TypeWithdraw    Type = "Withdraw"
	TypeWithdrawFee Type = "WithdrawFee"
	TypeSwap        Type = "Swap"

	// Setting contract
	TypeSettingCreated        Type = "SettingCreated"
	TypeManagerFeeChanged     Type = "ManagerFeeChanged"
	TypeWhiteListTokenAdded   Type = "WhiteListTokenAdded"
	TypeWhiteListTokenRemoved Type = "WhiteListTokenRemoved"

	// Manager NFT contract
	TypeManagerNFTMinted Type = "ManagerNFTMinted"

	// Governance token contract
	TypeTokenTransfer        Type = "TokenTransfer"
	TypeDelegateChanged      Type = "DelegateChanged"
	TypeDelegateVotesChanged Type = "DelegateVotesChanged"

	// Governor contract
	TypeProposalCreated        Type = "ProposalCreated"
	TypeVoteCast               Type = "VoteCast"
	TypeVoteCastWithParams     Type = "VoteCastWithParams"
	TypeProposalQueued         Type = "ProposalQueued"
	TypeProposalExecuted       Type = "ProposalExecuted"
	TypeProposalCanceled       Type = "ProposalCanceled"
	TypeProposalThresholdSet   Type = "ProposalThresholdSet"
	TypeQuorumNumeratorUpdated Type = "QuorumNumeratorUpdated"
	TypeVotingDelaySet         Type = "VotingDelaySet"
	TypeVotingPeriodSet        Type = "VotingPeriodSet"
	TypeTimelockChange         Type = "TimelockChange"
)

// Event is one decoded log with its chain provenance.
type Event struct {
	Type        Type           `json:"type"`
	Address     common.Address `json:"address"` // emitting contract
	BlockNumber uint64         `json:"block_number"`
	BlockTime   int64          `json:"block_time"` // unix seconds
	TxHash      common.Hash    `json:"tx_hash"`
	LogIndex    uint32         `json:"log_index"`
	Payload     any            `json:"payload"`
}

// Time returns the block timestamp.
func (e *Event) Time() time.Time {
	return time.Unix(e.BlockTime, 0).UTC()
}

// RecordID derives the immutable-record id "<txHash>-<logIndex>", unique per
// log under the at-most-once delivery contract.
func (e *Event) RecordID() string {
	return e.TxHash.Hex() + "-" + strconv.FormatUint(uint64(e.LogIndex), 10)
}

func (e *Event) String() string {
	return fmt.Sprintf("%s@%d/%d", e.Type, e.BlockNumber, e.LogIndex)
}

// FundID returns the decimal fund id the payload refers to, or "" for events
// that are not scoped to a fund.
func (e *Event) FundID() string {
	var id *big.Int
	switch p := e.Payload.(type) {
	case *FundCreated:
		id = p.FundID
	case *Subscribe:
		id = p.FundID
	case *Deposit:
		id = p.FundID
	case *DepositFee:
		id = p.FundID
	case *Withdraw:
		id = p.FundID
	case *WithdrawFee:
		id = p.FundID
	case *Swap:
		id = p.FundID
	case *ManagerNFTMinted:
		id = p.FundID
	}
	if id == nil {
		return ""
	}
	return id.String()
}
