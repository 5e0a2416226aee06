package engine

import (
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
)

func (e *Engine) applySettingCreated(ev *event.Event, p *event.SettingCreated) {
	if e.store.Setting() != nil {
		e.logger.Warn("duplicate SettingCreated ignored",
			zap.String("owner", p.Owner.Hex()))
		return
	}
	e.store.SaveSetting(entity.NewSetting(p.Owner, ev.BlockNumber, ev.BlockTime))
}

func (e *Engine) applyManagerFeeChanged(ev *event.Event, p *event.ManagerFeeChanged) {
	s := e.store.Setting()
	if s == nil {
		e.logger.Warn("ManagerFeeChanged before SettingCreated, dropped")
		return
	}
	s.ManagerFee = p.ManagerFee
	s.UpdatedAtBlock = ev.BlockNumber
	s.UpdatedAtTimestamp = ev.BlockTime
	e.store.SaveSetting(s)
}

func (e *Engine) applyWhiteListTokenAdded(ev *event.Event, p *event.WhiteListTokenAdded) {
	s := e.store.Setting()
	if s == nil {
		e.logger.Warn("WhiteListTokenAdded before SettingCreated, dropped",
			zap.String("token", p.Token.Hex()))
		return
	}
	s.AddWhitelistToken(p.Token)
	s.UpdatedAtBlock = ev.BlockNumber
	s.UpdatedAtTimestamp = ev.BlockTime
	e.store.SaveSetting(s)
}

func (e *Engine) applyWhiteListTokenRemoved(ev *event.Event, p *event.WhiteListTokenRemoved) {
	s := e.store.Setting()
	if s == nil {
		e.logger.Warn("WhiteListTokenRemoved before SettingCreated, dropped",
			zap.String("token", p.Token.Hex()))
		return
	}
	if !s.RemoveWhitelistToken(p.Token) {
		e.logger.Warn("removal of token that was never whitelisted",
			zap.String("token", p.Token.Hex()))
	}
	s.UpdatedAtBlock = ev.BlockNumber
	s.UpdatedAtTimestamp = ev.BlockTime
	e.store.SaveSetting(s)
}

func (e *Engine) applyManagerNFTMinted(ev *event.Event, p *event.ManagerNFTMinted) {
	tokenID := p.TokenID.String()
	if e.store.ManagerNFT(tokenID) != nil {
		e.logger.Warn("duplicate ManagerNFTMinted ignored",
			zap.String("token_id", tokenID))
		return
	}
	e.store.SaveManagerNFT(&entity.ManagerNFT{
		TokenID:       tokenID,
		FundID:        p.FundID.String(),
		Manager:       p.Manager,
		Owner:         p.Manager,
		Investment:    p.Investment,
		CurrentTVL:    p.CurrentTVL,
		ReturnRate:    p.ReturnRate,
		FundCreated:   p.FundCreated,
		MintedAt:      ev.BlockTime,
		LastUpdatedAt: ev.BlockTime,
	})
}

func (e *Engine) applyDelegateVotesChanged(ev *event.Event, p *event.DelegateVotesChanged) {
	e.store.SaveVotingPower(&entity.VotingPower{
		ID:        entity.VotingPowerKey(p.Delegate, ev.BlockNumber),
		Voter:     p.Delegate,
		Block:     ev.BlockNumber,
		Power:     p.NewBalance,
		Timestamp: ev.BlockTime,
		TxHash:    ev.TxHash,
	})
}
