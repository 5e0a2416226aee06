package store

import (
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/stelelabs/fundx/pkg/entity"
)

// Memory is the in-process Store implementation backing the engine. The maps
// are concurrent-read safe so API handlers and the flush job can load while
// the single writer applies events.
type Memory struct {
	info    atomic.Pointer[entity.Info]
	setting atomic.Pointer[entity.Setting]

	funds          *xsync.Map[string, *entity.Fund]
	investors      *xsync.Map[string, *entity.Investor]
	fundShares     *xsync.Map[string, *entity.FundShare]
	investorShares *xsync.Map[string, *entity.InvestorShare]
	proposals      *xsync.Map[string, *entity.Proposal]
	voteResults    *xsync.Map[string, *entity.ProposalVoteResult]
	votes          *xsync.Map[string, *entity.Vote]
	managerNFTs    *xsync.Map[string, *entity.ManagerNFT]
	votingPowers   *xsync.Map[string, *entity.VotingPower]
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		funds:          xsync.NewMap[string, *entity.Fund](),
		investors:      xsync.NewMap[string, *entity.Investor](),
		fundShares:     xsync.NewMap[string, *entity.FundShare](),
		investorShares: xsync.NewMap[string, *entity.InvestorShare](),
		proposals:      xsync.NewMap[string, *entity.Proposal](),
		voteResults:    xsync.NewMap[string, *entity.ProposalVoteResult](),
		votes:          xsync.NewMap[string, *entity.Vote](),
		managerNFTs:    xsync.NewMap[string, *entity.ManagerNFT](),
		votingPowers:   xsync.NewMap[string, *entity.VotingPower](),
	}
}

func (m *Memory) Info() *entity.Info          { return m.info.Load() }
func (m *Memory) SaveInfo(info *entity.Info)  { m.info.Store(info) }
func (m *Memory) Setting() *entity.Setting    { return m.setting.Load() }
func (m *Memory) SaveSetting(s *entity.Setting) { m.setting.Store(s) }

func (m *Memory) Fund(id string) *entity.Fund {
	f, _ := m.funds.Load(id)
	return f
}

func (m *Memory) SaveFund(fund *entity.Fund) { m.funds.Store(fund.ID, fund) }

// Funds returns every fund ordered by numeric id for deterministic iteration.
func (m *Memory) Funds() []*entity.Fund {
	out := make([]*entity.Fund, 0, m.funds.Size())
	m.funds.Range(func(_ string, f *entity.Fund) bool {
		out = append(out, f)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseUint(out[i].ID, 10, 64)
		b, _ := strconv.ParseUint(out[j].ID, 10, 64)
		return a < b
	})
	return out
}

func (m *Memory) Investor(id string) *entity.Investor {
	inv, _ := m.investors.Load(id)
	return inv
}

func (m *Memory) SaveInvestor(inv *entity.Investor) { m.investors.Store(inv.ID, inv) }

func (m *Memory) Investors() []*entity.Investor {
	out := make([]*entity.Investor, 0, m.investors.Size())
	m.investors.Range(func(_ string, inv *entity.Investor) bool {
		out = append(out, inv)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FundInvestors returns the investors of one fund, ordered by key.
func (m *Memory) FundInvestors(fundID string) []*entity.Investor {
	out := make([]*entity.Investor, 0)
	m.investors.Range(func(_ string, inv *entity.Investor) bool {
		if inv.FundID == fundID {
			out = append(out, inv)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) FundShare(fundID string) *entity.FundShare {
	s, _ := m.fundShares.Load(fundID)
	return s
}

func (m *Memory) SaveFundShare(s *entity.FundShare) { m.fundShares.Store(s.FundID, s) }

func (m *Memory) InvestorShare(id string) *entity.InvestorShare {
	s, _ := m.investorShares.Load(id)
	return s
}

func (m *Memory) SaveInvestorShare(s *entity.InvestorShare) { m.investorShares.Store(s.ID, s) }

func (m *Memory) Proposal(id string) *entity.Proposal {
	p, _ := m.proposals.Load(id)
	return p
}

func (m *Memory) SaveProposal(p *entity.Proposal) { m.proposals.Store(p.ID, p) }

func (m *Memory) Proposals() []*entity.Proposal {
	out := make([]*entity.Proposal, 0, m.proposals.Size())
	m.proposals.Range(func(_ string, p *entity.Proposal) bool {
		out = append(out, p)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) VoteResult(proposalID string) *entity.ProposalVoteResult {
	r, _ := m.voteResults.Load(proposalID)
	return r
}

func (m *Memory) SaveVoteResult(r *entity.ProposalVoteResult) { m.voteResults.Store(r.ProposalID, r) }

func (m *Memory) Vote(id string) *entity.Vote {
	v, _ := m.votes.Load(id)
	return v
}

func (m *Memory) SaveVote(v *entity.Vote) { m.votes.Store(v.ID, v) }

func (m *Memory) ProposalVotes(proposalID string) []*entity.Vote {
	out := make([]*entity.Vote, 0)
	m.votes.Range(func(_ string, v *entity.Vote) bool {
		if v.ProposalID == proposalID {
			out = append(out, v)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ManagerNFT(tokenID string) *entity.ManagerNFT {
	n, _ := m.managerNFTs.Load(tokenID)
	return n
}

func (m *Memory) SaveManagerNFT(n *entity.ManagerNFT) { m.managerNFTs.Store(n.TokenID, n) }

func (m *Memory) VotingPower(id string) *entity.VotingPower {
	p, _ := m.votingPowers.Load(id)
	return p
}

func (m *Memory) SaveVotingPower(p *entity.VotingPower) { m.votingPowers.Store(p.ID, p) }
