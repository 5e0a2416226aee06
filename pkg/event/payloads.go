package event

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// InfoCreated announces the info contract deployment; the emitting address
// becomes the Info singleton key.
type InfoCreated struct{}

type OwnerChanged struct {
	OldOwner common.Address `json:"old_owner"`
	NewOwner common.Address `json:"new_owner"`
}

type FundCreated struct {
	FundID  *big.Int       `json:"fund_id"`
	Manager common.Address `json:"manager"`
}

type Subscribe struct {
	FundID   *big.Int       `json:"fund_id"`
	Investor common.Address `json:"investor"`
}

// Deposit carries the post-deposit share figures reported by the contract
// alongside the deposited token amount.
type Deposit struct {
	FundID     *big.Int       `json:"fund_id"`
	Investor   common.Address `json:"investor"`
	Token      common.Address `json:"token"`
	Amount     *big.Int       `json:"amount"`
	Share      *big.Int       `json:"share"`
	TotalShare *big.Int       `json:"total_share"`
}

type DepositFee struct {
	FundID   *big.Int       `json:"fund_id"`
	Investor common.Address `json:"investor"`
	Token    common.Address `json:"token"`
	Amount   *big.Int       `json:"amount"`
}

// Withdraw communicates a relative withdrawal: Percentage is in basis points
// (0-10000). Share and TotalShare are the post-withdrawal ledger values.
type Withdraw struct {
	FundID     *big.Int       `json:"fund_id"`
	Investor   common.Address `json:"investor"`
	Percentage uint32         `json:"percentage"`
	Share      *big.Int       `json:"share"`
	TotalShare *big.Int       `json:"total_share"`
}

type WithdrawFee struct {
	FundID  *big.Int       `json:"fund_id"`
	Manager common.Address `json:"manager"`
	Token   common.Address `json:"token"`
	Amount  *big.Int       `json:"amount"`
}

type Swap struct {
	FundID    *big.Int       `json:"fund_id"`
	Investor  common.Address `json:"investor"`
	TokenIn   common.Address `json:"token_in"`
	TokenOut  common.Address `json:"token_out"`
	AmountIn  *big.Int       `json:"amount_in"`
	AmountOut *big.Int       `json:"amount_out"`
}

type SettingCreated struct {
	Owner common.Address `json:"owner"`
}

type ManagerFeeChanged struct {
	ManagerFee *big.Int `json:"manager_fee"`
}

type WhiteListTokenAdded struct {
	Token common.Address `json:"token"`
}

type WhiteListTokenRemoved struct {
	Token common.Address `json:"token"`
}

type ManagerNFTMinted struct {
	TokenID     *big.Int       `json:"token_id"`
	FundID      *big.Int       `json:"fund_id"`
	Manager     common.Address `json:"manager"`
	Investment  *big.Int       `json:"investment"`
	CurrentTVL  *big.Int       `json:"current_tvl"`
	ReturnRate  *big.Int       `json:"return_rate"`
	FundCreated *big.Int       `json:"fund_created"`
}

type TokenTransfer struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
}

type DelegateChanged struct {
	Delegator    common.Address `json:"delegator"`
	FromDelegate common.Address `json:"from_delegate"`
	ToDelegate   common.Address `json:"to_delegate"`
}

type DelegateVotesChanged struct {
	Delegate        common.Address `json:"delegate"`
	PreviousBalance *big.Int       `json:"previous_balance"`
	NewBalance      *big.Int       `json:"new_balance"`
}

type ProposalCreated struct {
	ProposalID  *big.Int         `json:"proposal_id"`
	Proposer    common.Address   `json:"proposer"`
	Targets     []common.Address `json:"targets"`
	Values      []*big.Int       `json:"values"`
	Signatures  []string         `json:"signatures"`
	Calldatas   []hexutil.Bytes  `json:"calldatas"`
	VoteStart   *big.Int         `json:"vote_start"`
	VoteEnd     *big.Int         `json:"vote_end"`
	Description string           `json:"description"`
}

type VoteCast struct {
	ProposalID *big.Int       `json:"proposal_id"`
	Voter      common.Address `json:"voter"`
	Support    uint8          `json:"support"`
	Weight     *big.Int       `json:"weight"`
	Reason     string         `json:"reason"`
}

type VoteCastWithParams struct {
	VoteCast
	Params hexutil.Bytes `json:"params"`
}

type ProposalQueued struct {
	ProposalID *big.Int `json:"proposal_id"`
	ETASeconds int64    `json:"eta_seconds"`
}

type ProposalExecuted struct {
	ProposalID *big.Int `json:"proposal_id"`
}

type ProposalCanceled struct {
	ProposalID *big.Int `json:"proposal_id"`
}

type ProposalThresholdSet struct {
	OldProposalThreshold *big.Int `json:"old_proposal_threshold"`
	NewProposalThreshold *big.Int `json:"new_proposal_threshold"`
}

type QuorumNumeratorUpdated struct {
	OldQuorumNumerator *big.Int `json:"old_quorum_numerator"`
	NewQuorumNumerator *big.Int `json:"new_quorum_numerator"`
}

type VotingDelaySet struct {
	OldVotingDelay *big.Int `json:"old_voting_delay"`
	NewVotingDelay *big.Int `json:"new_voting_delay"`
}

type VotingPeriodSet struct {
	OldVotingPeriod *big.Int `json:"old_voting_period"`
	NewVotingPeriod *big.Int `json:"new_voting_period"`
}

type TimelockChange struct {
	OldTimelock common.Address `json:"old_timelock"`
	NewTimelock common.Address `json:"new_timelock"`
}
