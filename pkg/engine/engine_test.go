package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/metadata"
	"github.com/stelelabs/fundx/pkg/store"
)

var (
	infoAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	managerA = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	walletB  = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
	weth     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdt     = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
)

type harness struct {
	engine   *Engine
	store    *store.Memory
	meta     *metadata.Static
	recorder *MemoryRecorder
	snaps    *MemorySnapshotSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:    store.NewMemory(),
		meta:     metadata.NewStatic(),
		recorder: NewMemoryRecorder(),
		snaps:    NewMemorySnapshotSink(),
	}
	h.meta.
		SetToken(weth, "WETH", 18).
		SetPriceUSDC(weth, decimal.NewFromInt(2000)).
		SetToken(usdt, "USDT", 6).
		SetPriceUSDC(usdt, decimal.NewFromInt(1))
	h.engine = New(zap.NewNop(), h.store, h.meta, h.recorder, h.snaps, nil)
	return h
}

var seq uint32

func newEvent(typ event.Type, ts int64, payload any) *event.Event {
	seq++
	return &event.Event{
		Type:        typ,
		Address:     infoAddr,
		BlockNumber: uint64(100 + seq),
		BlockTime:   ts,
		TxHash:      common.BigToHash(big.NewInt(int64(seq))),
		LogIndex:    seq,
		Payload:     payload,
	}
}

func (h *harness) apply(t *testing.T, typ event.Type, ts int64, payload any) {
	t.Helper()
	require.NoError(t, h.engine.Apply(context.Background(), newEvent(typ, ts, payload)))
}

// bootstrapFund applies InfoCreated + FundCreated(1, managerA).
func (h *harness) bootstrapFund(t *testing.T, ts int64) {
	t.Helper()
	h.apply(t, event.TypeInfoCreated, ts, &event.InfoCreated{})
	h.apply(t, event.TypeFundCreated, ts, &event.FundCreated{
		FundID:  big.NewInt(1),
		Manager: managerA,
	})
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer literal: " + s)
	}
	return v
}

func TestFundCreatedThenDeposit(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	fund := h.store.Fund("1")
	require.NotNil(t, fund)
	assert.Equal(t, uint64(1), fund.InvestorCount)
	assert.Equal(t, managerA, fund.Manager)

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	require.NotNil(t, inv)
	assert.True(t, inv.IsManager)
	assert.Nil(t, inv.Share)

	info := h.store.Info()
	require.NotNil(t, info)
	assert.Equal(t, uint64(1), info.FundCount)
	assert.Equal(t, uint64(1), info.InvestorCount)

	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("1000000000000000000"),
		Share:      big.NewInt(1_000_000),
		TotalShare: big.NewInt(1_000_000),
	})

	fund = h.store.Fund("1")
	require.Equal(t, 1, fund.Tokens.Len())
	pos, ok := fund.Tokens.Get(weth)
	require.True(t, ok)
	assert.Equal(t, "WETH", pos.Symbol)
	assert.Equal(t, uint8(18), pos.Decimals)
	assert.Equal(t, "1", pos.Amount.String())
	assert.Equal(t, "1000000", fund.Share.String())
	assert.Equal(t, "2000", fund.AmountUSD.String())

	inv = h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	require.NotNil(t, inv.Share)
	assert.Equal(t, "1000000", inv.Share.String())
	assert.Equal(t, "2000", inv.PrincipalUSD.String())
	assert.Equal(t, "2000", inv.AmountUSD.String())

	assert.Equal(t, "2000", h.store.Info().TotalAmountUSD.String())
}

func TestLedgerHoldsEachTokenOnce(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	for i := 0; i < 2; i++ {
		h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
			FundID:     big.NewInt(1),
			Investor:   managerA,
			Token:      weth,
			Amount:     wei("1000000000000000000"),
			Share:      big.NewInt(int64(i+1) * 1_000_000),
			TotalShare: big.NewInt(int64(i+1) * 1_000_000),
		})
	}

	fund := h.store.Fund("1")
	assert.Equal(t, 1, fund.Tokens.Len())
	assert.Equal(t, "2", fund.Tokens.Amount(weth).String())
}

func TestDepositThenFullWithdraw(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)
	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("1000000000000000000"),
		Share:      big.NewInt(1_000_000),
		TotalShare: big.NewInt(1_000_000),
	})
	h.apply(t, event.TypeWithdraw, 1_700_000_200, &event.Withdraw{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Percentage: 10_000,
		Share:      big.NewInt(0),
		TotalShare: big.NewInt(0),
	})

	fund := h.store.Fund("1")
	assert.Equal(t, 0, fund.Share.Sign())
	assert.Equal(t, 0, fund.Tokens.Len())
	assert.Equal(t, "0", fund.AmountUSD.String())
	assert.Equal(t, "0", fund.ProfitRatio.String())

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	require.NotNil(t, inv.Share)
	assert.Equal(t, 0, inv.Share.Sign())
	assert.Equal(t, 0, inv.Tokens.Len())
	assert.True(t, inv.PrincipalUSD.IsZero())
	assert.True(t, inv.ProfitRatio.IsZero())

	assert.True(t, h.store.Info().TotalAmountUSD.IsZero())
}

func TestPartialWithdrawScalesPrincipal(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)
	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      usdt,
		Amount:     big.NewInt(1_000_000_000), // 1000 USDT
		Share:      big.NewInt(1_000_000_000),
		TotalShare: big.NewInt(1_000_000_000),
	})
	h.apply(t, event.TypeWithdraw, 1_700_000_200, &event.Withdraw{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Percentage: 5_000, // 50%
		Share:      big.NewInt(500_000_000),
		TotalShare: big.NewInt(500_000_000),
	})

	fund := h.store.Fund("1")
	assert.Equal(t, "500", fund.Tokens.Amount(usdt).String())
	assert.Equal(t, "500", fund.AmountUSD.String())

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	assert.Equal(t, "500", inv.PrincipalUSD.String())
	assert.Equal(t, "500", inv.Tokens.Amount(usdt).String())
	assert.Equal(t, "500", inv.AmountUSD.String())
}

func TestUnpricedDepositKeepsShareLedger(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)
	h.meta.DropPrice(weth)

	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("1000000000000000000"),
		Share:      big.NewInt(1_000_000),
		TotalShare: big.NewInt(1_000_000),
	})

	fund := h.store.Fund("1")
	// Share accounting and the token ledger hold even with no price feed.
	assert.Equal(t, "1000000", fund.Share.String())
	assert.Equal(t, "1", fund.Tokens.Amount(weth).String())
	assert.True(t, fund.AmountUSD.IsZero())

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	assert.True(t, inv.PrincipalUSD.IsZero())
	assert.True(t, inv.ProfitRatio.IsZero())
}

func TestSwapConsumingWholePositionRemovesToken(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)
	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      usdt,
		Amount:     big.NewInt(100_000_000), // 100 USDT
		Share:      big.NewInt(100_000_000),
		TotalShare: big.NewInt(100_000_000),
	})
	h.apply(t, event.TypeSwap, 1_700_000_200, &event.Swap{
		FundID:    big.NewInt(1),
		Investor:  managerA,
		TokenIn:   usdt,
		TokenOut:  weth,
		AmountIn:  big.NewInt(100_000_000),
		AmountOut: wei("50000000000000000"), // 0.05 WETH
	})

	fund := h.store.Fund("1")
	require.Equal(t, 1, fund.Tokens.Len())
	_, ok := fund.Tokens.Get(usdt)
	assert.False(t, ok)
	assert.Equal(t, "0.05", fund.Tokens.Amount(weth).String())
	assert.Equal(t, "100", fund.AmountUSD.String()) // 0.05 * 2000

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), managerA))
	assert.Equal(t, "0.05", inv.Tokens.Amount(weth).String())
	assert.Equal(t, "100", inv.AmountUSD.String())
}

func TestSnapshotUpsertsWithinBucket(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	// Two deposits inside the same daily/weekly/monthly buckets.
	for i, share := range []int64{1_000_000, 2_000_000} {
		h.apply(t, event.TypeDeposit, 1_700_000_000+int64(i)*60, &event.Deposit{
			FundID:     big.NewInt(1),
			Investor:   managerA,
			Token:      usdt,
			Amount:     big.NewInt(1_000_000),
			Share:      big.NewInt(share),
			TotalShare: big.NewInt(share),
		})
	}

	snaps := h.snaps.FundSnapshots()
	perPeriod := map[entity.SnapshotPeriod]int{}
	for _, s := range snaps {
		if s.FundID != "1" {
			continue
		}
		perPeriod[s.Period]++
		assert.Equal(t, "2000000", s.Share.String(), "bucket keeps the latest write")
	}
	for _, p := range entity.Periods {
		assert.Equal(t, 1, perPeriod[p], "one row per %s bucket", p)
	}
}

func TestDepositToUnknownFundIsMirrorOnly(t *testing.T) {
	h := newHarness(t)
	h.apply(t, event.TypeDeposit, 1_700_000_000, &event.Deposit{
		FundID:     big.NewInt(42),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("1000000000000000000"),
		Share:      big.NewInt(1),
		TotalShare: big.NewInt(1),
	})

	assert.Nil(t, h.store.Fund("42"))
	assert.Len(t, h.recorder.Events(), 1)
}

type failingRecorder struct{ err error }

func (r failingRecorder) Record(context.Context, *event.Event) error { return r.err }

func TestRecorderFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.engine = New(zap.NewNop(), h.store, h.meta, failingRecorder{err: errors.New("sink down")}, h.snaps, nil)

	err := h.engine.Apply(context.Background(), newEvent(event.TypeInfoCreated, 1_700_000_000, &event.InfoCreated{}))
	require.Error(t, err)
	assert.Nil(t, h.store.Info(), "fold must not run when the mirror write fails")
}

func TestDepositAndWithdrawFees(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	h.apply(t, event.TypeDepositFee, 1_700_000_100, &event.DepositFee{
		FundID:   big.NewInt(1),
		Investor: managerA,
		Token:    usdt,
		Amount:   big.NewInt(5_000_000), // 5 USDT
	})
	fund := h.store.Fund("1")
	assert.Equal(t, "5", fund.FeeTokens.Amount(usdt).String())

	h.apply(t, event.TypeWithdrawFee, 1_700_000_200, &event.WithdrawFee{
		FundID:  big.NewInt(1),
		Manager: managerA,
		Token:   usdt,
		Amount:  big.NewInt(5_000_000),
	})
	fund = h.store.Fund("1")
	assert.Equal(t, 0, fund.FeeTokens.Len())

	// Withdrawing a fee token that was never collected must not mutate.
	h.apply(t, event.TypeWithdrawFee, 1_700_000_300, &event.WithdrawFee{
		FundID:  big.NewInt(1),
		Manager: managerA,
		Token:   weth,
		Amount:  big.NewInt(1),
	})
	assert.Equal(t, 0, h.store.Fund("1").FeeTokens.Len())
}

func TestSubscribeCountsInvestorsOnce(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	sub := &event.Subscribe{FundID: big.NewInt(1), Investor: walletB}
	h.apply(t, event.TypeSubscribe, 1_700_000_100, sub)
	h.apply(t, event.TypeSubscribe, 1_700_000_200, sub)

	assert.Equal(t, uint64(2), h.store.Fund("1").InvestorCount)
	assert.Equal(t, uint64(2), h.store.Info().InvestorCount)

	inv := h.store.Investor(entity.InvestorKey(big.NewInt(1), walletB))
	require.NotNil(t, inv)
	assert.False(t, inv.IsManager)
}

func TestDistinctVoterCounting(t *testing.T) {
	h := newHarness(t)
	proposalID := big.NewInt(7)
	h.apply(t, event.TypeProposalCreated, 1_700_000_000, &event.ProposalCreated{
		ProposalID:  proposalID,
		Proposer:    managerA,
		VoteStart:   big.NewInt(100),
		VoteEnd:     big.NewInt(200),
		Description: "raise the manager fee",
	})

	for _, weight := range []int64{100, 50} {
		h.apply(t, event.TypeVoteCast, 1_700_000_100, &event.VoteCast{
			ProposalID: proposalID,
			Voter:      walletB,
			Support:    entity.SupportFor,
			Weight:     big.NewInt(weight),
		})
	}

	res := h.store.VoteResult("7")
	require.NotNil(t, res)
	assert.Equal(t, "150", res.ForVotes.String())
	assert.Equal(t, "150", res.TotalVotes.String())
	assert.Equal(t, uint64(1), res.VoterCount)
	assert.Equal(t, "100", res.ForPercentage.String())

	prop := h.store.Proposal("7")
	assert.Equal(t, entity.ProposalActive, prop.Status)
}

func TestProposalLifecycleFreezesTallies(t *testing.T) {
	h := newHarness(t)
	proposalID := big.NewInt(9)
	h.apply(t, event.TypeProposalCreated, 1_700_000_000, &event.ProposalCreated{
		ProposalID: proposalID,
		Proposer:   managerA,
		VoteStart:  big.NewInt(100),
		VoteEnd:    big.NewInt(200),
	})
	assert.Equal(t, entity.ProposalPending, h.store.Proposal("9").Status)

	h.apply(t, event.TypeVoteCast, 1_700_000_100, &event.VoteCast{
		ProposalID: proposalID,
		Voter:      walletB,
		Support:    entity.SupportAgainst,
		Weight:     big.NewInt(10),
	})
	h.apply(t, event.TypeProposalQueued, 1_700_000_200, &event.ProposalQueued{
		ProposalID: proposalID,
		ETASeconds: 1_700_100_000,
	})
	prop := h.store.Proposal("9")
	assert.Equal(t, entity.ProposalQueued, prop.Status)
	require.NotNil(t, prop.ETA)
	assert.Equal(t, int64(1_700_100_000), *prop.ETA)

	h.apply(t, event.TypeProposalExecuted, 1_700_000_300, &event.ProposalExecuted{ProposalID: proposalID})
	prop = h.store.Proposal("9")
	assert.Equal(t, entity.ProposalExecuted, prop.Status)

	res := h.store.VoteResult("9")
	assert.True(t, res.IsFinalized)

	// A straggler vote after execution must not move the tally.
	h.apply(t, event.TypeVoteCast, 1_700_000_400, &event.VoteCast{
		ProposalID: proposalID,
		Voter:      managerA,
		Support:    entity.SupportFor,
		Weight:     big.NewInt(1_000),
	})
	res = h.store.VoteResult("9")
	assert.Equal(t, "0", res.ForVotes.String())
	assert.Equal(t, uint64(1), res.VoterCount)
}

func TestSettingFold(t *testing.T) {
	h := newHarness(t)
	h.apply(t, event.TypeSettingCreated, 1_700_000_000, &event.SettingCreated{Owner: managerA})
	h.apply(t, event.TypeManagerFeeChanged, 1_700_000_100, &event.ManagerFeeChanged{ManagerFee: big.NewInt(10_000)})
	h.apply(t, event.TypeWhiteListTokenAdded, 1_700_000_200, &event.WhiteListTokenAdded{Token: weth})
	h.apply(t, event.TypeWhiteListTokenAdded, 1_700_000_300, &event.WhiteListTokenAdded{Token: usdt})
	h.apply(t, event.TypeWhiteListTokenRemoved, 1_700_000_400, &event.WhiteListTokenRemoved{Token: weth})

	s := h.store.Setting()
	require.NotNil(t, s)
	assert.Equal(t, "10000", s.ManagerFee.String())
	assert.False(t, s.IsWhitelisted(weth))
	assert.Equal(t, []common.Address{usdt}, s.WhitelistTokens())
}

func TestDelegateVotesChangedKeepsPowerHistory(t *testing.T) {
	h := newHarness(t)
	ev := newEvent(event.TypeDelegateVotesChanged, 1_700_000_000, &event.DelegateVotesChanged{
		Delegate:        walletB,
		PreviousBalance: big.NewInt(0),
		NewBalance:      big.NewInt(500),
	})
	require.NoError(t, h.engine.Apply(context.Background(), ev))

	vp := h.store.VotingPower(entity.VotingPowerKey(walletB, ev.BlockNumber))
	require.NotNil(t, vp)
	assert.Equal(t, "500", vp.Power.String())
}

func TestManagerNFTMinted(t *testing.T) {
	h := newHarness(t)
	h.apply(t, event.TypeManagerNFTMinted, 1_700_000_000, &event.ManagerNFTMinted{
		TokenID:     big.NewInt(3),
		FundID:      big.NewInt(1),
		Manager:     managerA,
		Investment:  big.NewInt(1_000_000),
		CurrentTVL:  big.NewInt(2_000_000),
		ReturnRate:  big.NewInt(100),
		FundCreated: big.NewInt(1_699_000_000),
	})

	nft := h.store.ManagerNFT("3")
	require.NotNil(t, nft)
	assert.Equal(t, "1", nft.FundID)
	assert.Equal(t, managerA, nft.Owner)
}

func TestMetadataOutageKeepsLedgerDecimals(t *testing.T) {
	h := newHarness(t)
	h.bootstrapFund(t, 1_700_000_000)

	h.apply(t, event.TypeDeposit, 1_700_000_100, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("2000000000000000000"),
		Share:      big.NewInt(2_000_000),
		TotalShare: big.NewInt(2_000_000),
	})

	// Resolver outage: symbol, decimals and price all miss. The deposit must
	// fall back to the decimals already recorded on the held position instead
	// of corrupting them.
	h.meta.DropToken(weth).DropPrice(weth)
	h.apply(t, event.TypeDeposit, 1_700_000_200, &event.Deposit{
		FundID:     big.NewInt(1),
		Investor:   managerA,
		Token:      weth,
		Amount:     wei("1000000000000000000"),
		Share:      big.NewInt(3_000_000),
		TotalShare: big.NewInt(3_000_000),
	})

	fund := h.store.Fund("1")
	pos, ok := fund.Tokens.Get(weth)
	require.True(t, ok)
	assert.Equal(t, uint8(18), pos.Decimals, "outage must not degrade recorded decimals")
	assert.Equal(t, "WETH", pos.Symbol, "outage must not degrade recorded symbol")
	assert.Equal(t, "3", pos.Amount.String())

	// Metadata heals; a swap scaled by the recorded decimals must leave the
	// remainder in place rather than wiping the position.
	h.meta.SetToken(weth, "WETH", 18).SetPriceUSDC(weth, decimal.NewFromInt(2000))
	h.apply(t, event.TypeSwap, 1_700_000_300, &event.Swap{
		FundID:    big.NewInt(1),
		Investor:  managerA,
		TokenIn:   weth,
		TokenOut:  usdt,
		AmountIn:  wei("500000000000000000"),
		AmountOut: big.NewInt(1_000_000),
	})

	fund = h.store.Fund("1")
	pos, ok = fund.Tokens.Get(weth)
	require.True(t, ok, "swap must not remove a position that still has balance")
	assert.Equal(t, "2.5", pos.Amount.String())
	assert.Equal(t, uint8(18), pos.Decimals)
	assert.Equal(t, "1", fund.Tokens.Amount(usdt).String())
}

func TestVoteBeforeVoteStartKeepsPending(t *testing.T) {
	h := newHarness(t)
	proposalID := big.NewInt(11)
	h.apply(t, event.TypeProposalCreated, 1_700_000_000, &event.ProposalCreated{
		ProposalID: proposalID,
		Proposer:   managerA,
		VoteStart:  big.NewInt(1_800_000_000),
		VoteEnd:    big.NewInt(1_900_000_000),
	})

	h.apply(t, event.TypeVoteCast, 1_700_000_100, &event.VoteCast{
		ProposalID: proposalID,
		Voter:      walletB,
		Support:    entity.SupportFor,
		Weight:     big.NewInt(100),
	})

	prop := h.store.Proposal("11")
	assert.Equal(t, entity.ProposalPending, prop.Status,
		"a vote before the window opens must not activate the proposal")
	// The tally still moves, only the status transition waits.
	assert.Equal(t, "100", h.store.VoteResult("11").ForVotes.String())

	h.apply(t, event.TypeVoteCast, 1_800_000_050, &event.VoteCast{
		ProposalID: proposalID,
		Voter:      managerA,
		Support:    entity.SupportFor,
		Weight:     big.NewInt(50),
	})
	assert.Equal(t, entity.ProposalActive, h.store.Proposal("11").Status)
}
