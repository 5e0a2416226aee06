package event

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// envelope is the wire shape of one event entry: provenance fields plus a raw
// payload decoded per event type.
type envelope struct {
	Type        Type            `json:"type"`
	Address     common.Address  `json:"address"`
	BlockNumber uint64          `json:"block_number"`
	BlockTime   int64           `json:"block_time"`
	TxHash      common.Hash     `json:"tx_hash"`
	LogIndex    uint32          `json:"log_index"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode parses one JSON-encoded event record into its typed form.
func Decode(data []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	payload, err := payloadFor(env.Type)
	if err != nil {
		return nil, err
	}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}

	return &Event{
		Type:        env.Type,
		Address:     env.Address,
		BlockNumber: env.BlockNumber,
		BlockTime:   env.BlockTime,
		TxHash:      env.TxHash,
		LogIndex:    env.LogIndex,
		Payload:     payload,
	}, nil
}

// Encode renders an event into its wire form.
func Encode(e *Event) ([]byte, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", e.Type, err)
	}
	return json.Marshal(envelope{
		Type:        e.Type,
		Address:     e.Address,
		BlockNumber: e.BlockNumber,
		BlockTime:   e.BlockTime,
		TxHash:      e.TxHash,
		LogIndex:    e.LogIndex,
		Payload:     payload,
	})
}

func payloadFor(t Type) (any, error) {
	switch t {
	case TypeInfoCreated:
		return &InfoCreated{}, nil
	case TypeOwnerChanged:
		return &OwnerChanged{}, nil
	case TypeFundCreated:
		return &FundCreated{}, nil
	case TypeSubscribe:
		return &Subscribe{}, nil
	case TypeDeposit:
		return &Deposit{}, nil
	case TypeDepositFee:
		return &DepositFee{}, nil
	case TypeWithdraw:
		return &Withdraw{}, nil
	case TypeWithdrawFee:
		return &WithdrawFee{}, nil
	case TypeSwap:
		return &Swap{}, nil
	case TypeSettingCreated:
		return &SettingCreated{}, nil
	case TypeManagerFeeChanged:
		return &ManagerFeeChanged{}, nil
	case TypeWhiteListTokenAdded:
		return &WhiteListTokenAdded{}, nil
	case TypeWhiteListTokenRemoved:
		return &WhiteListTokenRemoved{}, nil
	case TypeManagerNFTMinted:
		return &ManagerNFTMinted{}, nil
	case TypeTokenTransfer:
		return &TokenTransfer{}, nil
	case TypeDelegateChanged:
		return &DelegateChanged{}, nil
	case TypeDelegateVotesChanged:
		return &DelegateVotesChanged{}, nil
	case TypeProposalCreated:
		return &ProposalCreated{}, nil
	case TypeVoteCast:
		return &VoteCast{}, nil
	case TypeVoteCastWithParams:
		return &VoteCastWithParams{}, nil
	case TypeProposalQueued:
		return &ProposalQueued{}, nil
	case TypeProposalExecuted:
		return &ProposalExecuted{}, nil
	case TypeProposalCanceled:
		return &ProposalCanceled{}, nil
	case TypeProposalThresholdSet:
		return &ProposalThresholdSet{}, nil
	case TypeQuorumNumeratorUpdated:
		return &QuorumNumeratorUpdated{}, nil
	case TypeVotingDelaySet:
		return &VotingDelaySet{}, nil
	case TypeVotingPeriodSet:
		return &VotingPeriodSet{}, nil
	case TypeTimelockChange:
		return &TimelockChange{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
}
