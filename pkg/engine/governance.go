package engine

import (
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/numeric"
)

func (e *Engine) applyProposalCreated(ev *event.Event, p *event.ProposalCreated) {
	id := p.ProposalID.String()
	if e.store.Proposal(id) != nil {
		e.logger.Warn("duplicate ProposalCreated ignored", zap.String("proposal", id))
		return
	}

	calldatas := make([][]byte, len(p.Calldatas))
	for i, c := range p.Calldatas {
		calldatas[i] = c
	}
	e.store.SaveProposal(&entity.Proposal{
		ID:               id,
		Proposer:         p.Proposer,
		Targets:          p.Targets,
		Values:           p.Values,
		Signatures:       p.Signatures,
		Calldatas:        calldatas,
		VoteStart:        p.VoteStart,
		VoteEnd:          p.VoteEnd,
		Description:      p.Description,
		Status:           entity.ProposalPending,
		CreatedAt:        ev.BlockTime,
		CreatedAtBlock:   ev.BlockNumber,
		LastUpdatedBlock: ev.BlockNumber,
	})
	e.store.SaveVoteResult(entity.NewProposalVoteResult(id, ev.BlockNumber, ev.BlockTime))
}

func (e *Engine) applyVoteCast(ev *event.Event, p *event.VoteCast) {
	id := p.ProposalID.String()

	res := e.store.VoteResult(id)
	if res == nil {
		e.logger.Warn("vote for unknown proposal, tallying anyway",
			zap.String("proposal", id),
			zap.String("voter", p.Voter.Hex()))
		res = entity.NewProposalVoteResult(id, ev.BlockNumber, ev.BlockTime)
	}
	if res.IsFinalized {
		e.logger.Warn("vote after proposal finalization refused",
			zap.String("proposal", id),
			zap.String("voter", p.Voter.Hex()))
		return
	}

	// A pending proposal activates on the first vote cast at or after its
	// voting window opens; earlier votes still tally but do not activate.
	prop := e.store.Proposal(id)
	if prop != nil && prop.Status == entity.ProposalPending && voteWindowOpen(prop, ev.BlockTime) {
		prop.Status = entity.ProposalActive
		prop.LastUpdatedBlock = ev.BlockNumber
		e.store.SaveProposal(prop)
	}

	switch p.Support {
	case entity.SupportAgainst:
		res.AgainstVotes.Add(res.AgainstVotes, p.Weight)
	case entity.SupportFor:
		res.ForVotes.Add(res.ForVotes, p.Weight)
	case entity.SupportAbstain:
		res.AbstainVotes.Add(res.AbstainVotes, p.Weight)
	default:
		e.logger.Warn("unknown vote support value, weight not tallied",
			zap.String("proposal", id),
			zap.Uint8("support", p.Support))
		return
	}
	res.TotalVotes.Add(res.TotalVotes, p.Weight)

	total := numeric.BigIntToDecimal(res.TotalVotes)
	res.ForPercentage = numeric.SafeDiv(numeric.BigIntToDecimal(res.ForVotes), total).Mul(numeric.Hundred)
	res.AgainstPercentage = numeric.SafeDiv(numeric.BigIntToDecimal(res.AgainstVotes), total).Mul(numeric.Hundred)
	res.AbstainPercentage = numeric.SafeDiv(numeric.BigIntToDecimal(res.AbstainVotes), total).Mul(numeric.Hundred)

	// A distinct voter is counted once; a re-vote moves tallies but reuses
	// the voter's row.
	key := entity.VoteKey(p.ProposalID, p.Voter)
	if e.store.Vote(key) == nil {
		res.VoterCount++
	}
	e.store.SaveVote(&entity.Vote{
		ID:         key,
		ProposalID: id,
		Voter:      p.Voter,
		Support:    p.Support,
		Weight:     p.Weight,
		Reason:     p.Reason,
		Block:      ev.BlockNumber,
		Timestamp:  ev.BlockTime,
		TxHash:     ev.TxHash,
	})

	res.LastUpdatedBlock = ev.BlockNumber
	res.LastUpdatedTimestamp = ev.BlockTime
	e.store.SaveVoteResult(res)
}

func (e *Engine) applyProposalQueued(ev *event.Event, p *event.ProposalQueued) {
	prop := e.store.Proposal(p.ProposalID.String())
	if prop == nil {
		e.logger.Warn("ProposalQueued for unknown proposal, dropped",
			zap.String("proposal", p.ProposalID.String()))
		return
	}
	prop.Status = entity.ProposalQueued
	queuedAt := ev.BlockTime
	prop.QueuedAt = &queuedAt
	eta := p.ETASeconds
	prop.ETA = &eta
	prop.LastUpdatedBlock = ev.BlockNumber
	e.store.SaveProposal(prop)
}

func (e *Engine) applyProposalExecuted(ev *event.Event, p *event.ProposalExecuted) {
	prop := e.store.Proposal(p.ProposalID.String())
	if prop == nil {
		e.logger.Warn("ProposalExecuted for unknown proposal, dropped",
			zap.String("proposal", p.ProposalID.String()))
		return
	}
	prop.Status = entity.ProposalExecuted
	executedAt := ev.BlockTime
	prop.ExecutedAt = &executedAt
	prop.LastUpdatedBlock = ev.BlockNumber
	e.store.SaveProposal(prop)
	e.finalizeVotes(ev, prop.ID)
}

func (e *Engine) applyProposalCanceled(ev *event.Event, p *event.ProposalCanceled) {
	prop := e.store.Proposal(p.ProposalID.String())
	if prop == nil {
		e.logger.Warn("ProposalCanceled for unknown proposal, dropped",
			zap.String("proposal", p.ProposalID.String()))
		return
	}
	prop.Status = entity.ProposalCanceled
	canceledAt := ev.BlockTime
	prop.CanceledAt = &canceledAt
	prop.LastUpdatedBlock = ev.BlockNumber
	e.store.SaveProposal(prop)
	e.finalizeVotes(ev, prop.ID)
}

func voteWindowOpen(prop *entity.Proposal, blockTime int64) bool {
	return prop.VoteStart == nil || blockTime >= prop.VoteStart.Int64()
}

// finalizeVotes freezes the tally; any later VoteCast is refused.
func (e *Engine) finalizeVotes(ev *event.Event, proposalID string) {
	res := e.store.VoteResult(proposalID)
	if res == nil || res.IsFinalized {
		return
	}
	res.IsFinalized = true
	res.LastUpdatedBlock = ev.BlockNumber
	res.LastUpdatedTimestamp = ev.BlockTime
	e.store.SaveVoteResult(res)
}
