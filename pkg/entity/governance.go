package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ProposalStatus is the governance lifecycle state machine:
// PENDING -> ACTIVE -> QUEUED -> EXECUTED, with CANCELED reachable from any
// non-terminal state.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalActive   ProposalStatus = "ACTIVE"
	ProposalQueued   ProposalStatus = "QUEUED"
	ProposalExecuted ProposalStatus = "EXECUTED"
	ProposalCanceled ProposalStatus = "CANCELED"
)

// Vote support values, per the governor ABI.
const (
	SupportAgainst uint8 = 0
	SupportFor     uint8 = 1
	SupportAbstain uint8 = 2
)

// Proposal is the mutable governance proposal aggregate, keyed by the decimal
// proposal id. The call payload (targets/values/signatures/calldatas) is
// opaque to the engine.
type Proposal struct {
	ID       string         `json:"id"`
	Proposer common.Address `json:"proposer"`

	Targets    []common.Address `json:"targets"`
	Values     []*big.Int       `json:"values"`
	Signatures []string         `json:"signatures"`
	Calldatas  [][]byte         `json:"calldatas"`

	VoteStart   *big.Int `json:"vote_start"`
	VoteEnd     *big.Int `json:"vote_end"`
	Description string   `json:"description"`

	Status ProposalStatus `json:"status"`

	CreatedAt  int64  `json:"created_at"`
	QueuedAt   *int64 `json:"queued_at,omitempty"`
	ExecutedAt *int64 `json:"executed_at,omitempty"`
	CanceledAt *int64 `json:"canceled_at,omitempty"`
	ETA        *int64 `json:"eta,omitempty"`

	CreatedAtBlock   uint64 `json:"created_at_block"`
	LastUpdatedBlock uint64 `json:"last_updated_block"`
}

// ProposalVoteResult carries the running weight tallies for one proposal.
// Once IsFinalized is set the engine refuses further tally mutation.
type ProposalVoteResult struct {
	ProposalID string `json:"proposal_id"`

	ForVotes     *big.Int `json:"for_votes"`
	AgainstVotes *big.Int `json:"against_votes"`
	AbstainVotes *big.Int `json:"abstain_votes"`
	TotalVotes   *big.Int `json:"total_votes"`

	ForPercentage     decimal.Decimal `json:"for_percentage"`
	AgainstPercentage decimal.Decimal `json:"against_percentage"`
	AbstainPercentage decimal.Decimal `json:"abstain_percentage"`

	VoterCount  uint64 `json:"voter_count"`
	IsFinalized bool   `json:"is_finalized"`

	LastUpdatedBlock     uint64 `json:"last_updated_block"`
	LastUpdatedTimestamp int64  `json:"last_updated_timestamp"`
}

func NewProposalVoteResult(proposalID string, block uint64, ts int64) *ProposalVoteResult {
	return &ProposalVoteResult{
		ProposalID:           proposalID,
		ForVotes:             new(big.Int),
		AgainstVotes:         new(big.Int),
		AbstainVotes:         new(big.Int),
		TotalVotes:           new(big.Int),
		ForPercentage:        decimal.Zero,
		AgainstPercentage:    decimal.Zero,
		AbstainPercentage:    decimal.Zero,
		LastUpdatedBlock:     block,
		LastUpdatedTimestamp: ts,
	}
}

// Vote is one distinct voter's row per proposal. Its existence is the
// deduplication key for voterCount; re-votes update the row but do not create
// a second one.
type Vote struct {
	ID         string         `json:"id"` // "<proposalId>-<lowercase hex voter>"
	ProposalID string         `json:"proposal_id"`
	Voter      common.Address `json:"voter"`
	Support    uint8          `json:"support"`
	Weight     *big.Int       `json:"weight"`
	Reason     string         `json:"reason"`

	Block     uint64      `json:"block"`
	Timestamp int64       `json:"timestamp"`
	TxHash    common.Hash `json:"tx_hash"`
}
