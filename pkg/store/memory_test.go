package store

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stelelabs/fundx/pkg/entity"
)

func TestMemoryLoadAbsent(t *testing.T) {
	m := NewMemory()

	assert.Nil(t, m.Info())
	assert.Nil(t, m.Setting())
	assert.Nil(t, m.Fund("1"))
	assert.Nil(t, m.Investor("1-0xabc"))
	assert.Nil(t, m.FundShare("1"))
	assert.Nil(t, m.Proposal("9"))
	assert.Nil(t, m.Vote("9-0xabc"))
}

func TestMemorySaveIsUpsert(t *testing.T) {
	m := NewMemory()
	manager := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	f := entity.NewFund("1", manager, 100, 1700000000)
	m.SaveFund(f)

	f.InvestorCount = 3
	m.SaveFund(f)

	got := m.Fund("1")
	require.NotNil(t, got)
	assert.Equal(t, uint64(3), got.InvestorCount)
}

func TestMemoryFundsOrderedNumerically(t *testing.T) {
	m := NewMemory()
	manager := common.Address{}
	for _, id := range []string{"10", "2", "1"} {
		m.SaveFund(entity.NewFund(id, manager, 1, 1))
	}

	funds := m.Funds()
	require.Len(t, funds, 3)
	assert.Equal(t, "1", funds[0].ID)
	assert.Equal(t, "2", funds[1].ID)
	assert.Equal(t, "10", funds[2].ID)
}

func TestMemoryFundInvestors(t *testing.T) {
	m := NewMemory()
	a := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	b := common.HexToAddress("0x00000000000000000000000000000000000000b2")

	m.SaveInvestor(entity.NewInvestor(big.NewInt(1), a, true, 1, 1))
	m.SaveInvestor(entity.NewInvestor(big.NewInt(1), b, false, 1, 1))
	m.SaveInvestor(entity.NewInvestor(big.NewInt(2), a, true, 1, 1))

	require.Len(t, m.FundInvestors("1"), 2)
	require.Len(t, m.FundInvestors("2"), 1)
	require.Empty(t, m.FundInvestors("3"))
}

func TestMemoryInfoSingleton(t *testing.T) {
	m := NewMemory()
	addr := common.HexToAddress("0xe71a6E1B4516756716dd00DBa33D29eAEDc116Bc")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	m.SaveInfo(entity.NewInfo(addr, owner, 5, 1700000000))
	got := m.Info()
	require.NotNil(t, got)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, uint64(0), got.FundCount)
}
