// Package store holds the mutable aggregate entity graph. The engine is the
// only writer (events are applied strictly one at a time); readers such as the
// query API and the flush job may load concurrently.
package store

import (
	"github.com/stelelabs/fundx/pkg/entity"
)

// Store is the aggregate state store: typed load/save per entity kind with
// upsert semantics. Loads return nil when the entity does not exist; nothing
// is ever deleted.
type Store interface {
	Info() *entity.Info
	SaveInfo(info *entity.Info)

	Setting() *entity.Setting
	SaveSetting(setting *entity.Setting)

	Fund(id string) *entity.Fund
	SaveFund(fund *entity.Fund)
	Funds() []*entity.Fund

	Investor(id string) *entity.Investor
	SaveInvestor(investor *entity.Investor)
	Investors() []*entity.Investor
	FundInvestors(fundID string) []*entity.Investor

	FundShare(fundID string) *entity.FundShare
	SaveFundShare(share *entity.FundShare)

	InvestorShare(id string) *entity.InvestorShare
	SaveInvestorShare(share *entity.InvestorShare)

	Proposal(id string) *entity.Proposal
	SaveProposal(proposal *entity.Proposal)
	Proposals() []*entity.Proposal

	VoteResult(proposalID string) *entity.ProposalVoteResult
	SaveVoteResult(result *entity.ProposalVoteResult)

	Vote(id string) *entity.Vote
	SaveVote(vote *entity.Vote)
	ProposalVotes(proposalID string) []*entity.Vote

	ManagerNFT(tokenID string) *entity.ManagerNFT
	SaveManagerNFT(nft *entity.ManagerNFT)

	VotingPower(id string) *entity.VotingPower
	SaveVotingPower(power *entity.VotingPower)
}
