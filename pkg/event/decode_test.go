package event

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDeposit(t *testing.T) {
	data := []byte(`{
		"type": "Deposit",
		"address": "0x16774b77de5B970B4B6cE57C1Fcd5383759145D4",
		"block_number": 1234,
		"block_time": 1700000000,
		"tx_hash": "0x00000000000000000000000000000000000000000000000000000000000000aa",
		"log_index": 3,
		"payload": {
			"fund_id": 1,
			"investor": "0x00000000000000000000000000000000000000a1",
			"token": "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
			"amount": 1000000000000000000,
			"share": 1000000,
			"total_share": 1000000
		}
	}`)

	ev, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeDeposit, ev.Type)
	assert.Equal(t, uint64(1234), ev.BlockNumber)
	assert.Equal(t, uint32(3), ev.LogIndex)

	deposit, ok := ev.Payload.(*Deposit)
	require.True(t, ok)
	assert.Equal(t, "1", deposit.FundID.String())
	assert.Equal(t, "1000000000000000000", deposit.Amount.String())
	assert.Equal(t, "1000000", deposit.TotalShare.String())
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type": "SomethingElse", "payload": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := &Event{
		Type:        TypeVoteCast,
		Address:     common.HexToAddress("0x00000000000000000000000000000000000000cc"),
		BlockNumber: 99,
		BlockTime:   1700000100,
		TxHash:      common.HexToHash("0xbb"),
		LogIndex:    1,
		Payload: &VoteCast{
			ProposalID: big.NewInt(7),
			Voter:      common.HexToAddress("0x00000000000000000000000000000000000000dd"),
			Support:    1,
			Weight:     big.NewInt(500),
			Reason:     "supports treasury move",
		},
	}

	data, err := Encode(orig)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, orig.Type, got.Type)

	vote, ok := got.Payload.(*VoteCast)
	require.True(t, ok)
	assert.Equal(t, "7", vote.ProposalID.String())
	assert.Equal(t, uint8(1), vote.Support)
	assert.Equal(t, "500", vote.Weight.String())
	assert.Equal(t, "supports treasury move", vote.Reason)
}

func TestRecordID(t *testing.T) {
	ev := &Event{
		TxHash:   common.HexToHash("0x01"),
		LogIndex: 5,
	}
	assert.Equal(t,
		"0x0000000000000000000000000000000000000000000000000000000000000001-5",
		ev.RecordID())
}
