package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Setting is the protocol configuration aggregate folded from the setting
// contract's events: manager fee plus the whitelist of investable tokens.
type Setting struct {
	Owner      common.Address `json:"owner"`
	ManagerFee *big.Int       `json:"manager_fee"`

	// whitelist keeps insertion order for deterministic iteration.
	whitelist []common.Address
	allowed   map[common.Address]bool

	UpdatedAtBlock     uint64 `json:"updated_at_block"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

func NewSetting(owner common.Address, block uint64, ts int64) *Setting {
	return &Setting{
		Owner:              owner,
		ManagerFee:         new(big.Int),
		allowed:            make(map[common.Address]bool),
		UpdatedAtBlock:     block,
		UpdatedAtTimestamp: ts,
	}
}

// AddWhitelistToken whitelists a token; re-adding an already allowed token is
// a no-op.
func (s *Setting) AddWhitelistToken(token common.Address) {
	if s.allowed[token] {
		return
	}
	s.allowed[token] = true
	s.whitelist = append(s.whitelist, token)
}

// RemoveWhitelistToken drops a token from the whitelist, preserving the
// relative order of the rest.
func (s *Setting) RemoveWhitelistToken(token common.Address) bool {
	if !s.allowed[token] {
		return false
	}
	delete(s.allowed, token)
	for i, t := range s.whitelist {
		if t == token {
			s.whitelist = append(s.whitelist[:i], s.whitelist[i+1:]...)
			break
		}
	}
	return true
}

// IsWhitelisted reports whether the token is currently allowed.
func (s *Setting) IsWhitelisted(token common.Address) bool {
	return s.allowed[token]
}

// WhitelistTokens returns the allowed tokens in insertion order.
func (s *Setting) WhitelistTokens() []common.Address {
	out := make([]common.Address, len(s.whitelist))
	copy(out, s.whitelist)
	return out
}
