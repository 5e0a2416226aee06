package entity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestInvestorKey(t *testing.T) {
	fundID := big.NewInt(1)
	addr := common.HexToAddress("0xAbCdEf0123456789abcdef0123456789ABCDEF01")

	key := InvestorKey(fundID, addr)
	assert.Equal(t, "1-0xabcdef0123456789abcdef0123456789abcdef01", key)

	// The same logical address in any input casing must produce the same key.
	upper := common.HexToAddress("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
	assert.Equal(t, key, InvestorKey(fundID, upper),
		"key derivation must be case-insensitive on input")
}

func TestInvestorKeyInjective(t *testing.T) {
	a := common.HexToAddress("0x0000000000000000000000000000000000000001")
	b := common.HexToAddress("0x0000000000000000000000000000000000000002")

	seen := map[string]bool{}
	for _, fundID := range []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(12)} {
		for _, addr := range []common.Address{a, b} {
			key := InvestorKey(fundID, addr)
			assert.False(t, seen[key], "key %q collided", key)
			seen[key] = true
		}
	}
}

func TestVoteKey(t *testing.T) {
	proposalID, _ := new(big.Int).SetString("43587623897562389", 10)
	voter := common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")
	assert.Equal(t, "43587623897562389-0x00000000000000000000000000000000deadbeef",
		VoteKey(proposalID, voter))
}

func TestNormalizeAddress(t *testing.T) {
	addr := common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	norm := NormalizeAddress(addr)
	assert.Equal(t, "0x82af49447d8a07e3bd95bd0d56f35241523fbab1", norm)
}
