package entity

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// UnknownSymbol marks a position whose token symbol could not be resolved.
const UnknownSymbol = "Unknown"

// TokenPosition is one token holding inside a fund or investor portfolio.
type TokenPosition struct {
	Token    common.Address  `json:"token"`
	Symbol   string          `json:"symbol"`
	Decimals uint8           `json:"decimals"`
	Amount   decimal.Decimal `json:"amount"`
}

// TokenLedger is an insertion-ordered map from token address to its position.
// It replaces the four parallel arrays (tokens / symbols / decimals / amounts)
// of the source schema with a single relation, so symbol, decimals and amount
// can never desynchronize. A token address appears at most once; removal
// preserves the relative order of the remaining entries.
type TokenLedger struct {
	positions []TokenPosition
	index     map[common.Address]int
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{index: make(map[common.Address]int)}
}

func (l *TokenLedger) Len() int {
	return len(l.positions)
}

// Get returns the position for token, if held.
func (l *TokenLedger) Get(token common.Address) (TokenPosition, bool) {
	i, ok := l.index[token]
	if !ok {
		return TokenPosition{}, false
	}
	return l.positions[i], true
}

// Amount returns the held amount for token, zero if absent.
func (l *TokenLedger) Amount(token common.Address) decimal.Decimal {
	if p, ok := l.Get(token); ok {
		return p.Amount
	}
	return decimal.Zero
}

// Add folds delta into the token's position, inserting a new entry at the end
// when the token is not yet held. Metadata on a held position is repaired,
// never degraded: a late-resolved symbol replaces an earlier UnknownSymbol,
// but an unresolved symbol or zero decimals cannot overwrite previously
// resolved values.
func (l *TokenLedger) Add(token common.Address, symbol string, decimals uint8, delta decimal.Decimal) {
	if i, ok := l.index[token]; ok {
		l.positions[i].Amount = l.positions[i].Amount.Add(delta)
		l.refreshMeta(i, symbol, decimals)
		return
	}
	l.index[token] = len(l.positions)
	l.positions = append(l.positions, TokenPosition{
		Token:    token,
		Symbol:   symbol,
		Decimals: decimals,
		Amount:   delta,
	})
}

// Set overwrites the token's amount, inserting the entry if absent. Metadata
// follows the same repair-only rule as Add.
func (l *TokenLedger) Set(token common.Address, symbol string, decimals uint8, amount decimal.Decimal) {
	if i, ok := l.index[token]; ok {
		l.positions[i].Amount = amount
		l.refreshMeta(i, symbol, decimals)
		return
	}
	l.Add(token, symbol, decimals, amount)
}

func (l *TokenLedger) refreshMeta(i int, symbol string, decimals uint8) {
	if symbol != UnknownSymbol && symbol != "" {
		l.positions[i].Symbol = symbol
	}
	if decimals != 0 {
		l.positions[i].Decimals = decimals
	}
}

// Sub subtracts delta from the token's position and reports the remaining
// amount. The second return is false when the token is not held at all.
func (l *TokenLedger) Sub(token common.Address, delta decimal.Decimal) (decimal.Decimal, bool) {
	i, ok := l.index[token]
	if !ok {
		return decimal.Zero, false
	}
	l.positions[i].Amount = l.positions[i].Amount.Sub(delta)
	return l.positions[i].Amount, true
}

// Remove drops the token from the ledger. Remaining entries keep their
// relative order.
func (l *TokenLedger) Remove(token common.Address) bool {
	i, ok := l.index[token]
	if !ok {
		return false
	}
	l.positions = append(l.positions[:i], l.positions[i+1:]...)
	delete(l.index, token)
	for j := i; j < len(l.positions); j++ {
		l.index[l.positions[j].Token] = j
	}
	return true
}

// Positions returns a copy of the ledger entries in insertion order.
func (l *TokenLedger) Positions() []TokenPosition {
	out := make([]TokenPosition, len(l.positions))
	copy(out, l.positions)
	return out
}

// Clone returns a deep copy of the ledger.
func (l *TokenLedger) Clone() *TokenLedger {
	c := NewTokenLedger()
	for _, p := range l.positions {
		c.Add(p.Token, p.Symbol, p.Decimals, p.Amount)
	}
	return c
}

// Scaled returns a new ledger with every amount multiplied by ratio. Used to
// derive an investor's proportional slice of the fund portfolio.
func (l *TokenLedger) Scaled(ratio decimal.Decimal) *TokenLedger {
	c := NewTokenLedger()
	for _, p := range l.positions {
		c.Add(p.Token, p.Symbol, p.Decimals, p.Amount.Mul(ratio))
	}
	return c
}

// Tokens returns the held token addresses in insertion order.
func (l *TokenLedger) Tokens() []common.Address {
	out := make([]common.Address, len(l.positions))
	for i, p := range l.positions {
		out[i] = p.Token
	}
	return out
}
