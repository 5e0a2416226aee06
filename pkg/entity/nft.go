package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ManagerNFT is the aggregate for a minted fund-manager NFT. The investment
// and performance figures are raw contract-reported values captured at mint
// time and on later updates.
type ManagerNFT struct {
	TokenID string         `json:"token_id"`
	FundID  string         `json:"fund_id"`
	Manager common.Address `json:"manager"`
	Owner   common.Address `json:"owner"`

	Investment  *big.Int `json:"investment"`
	CurrentTVL  *big.Int `json:"current_tvl"`
	ReturnRate  *big.Int `json:"return_rate"`
	FundCreated *big.Int `json:"fund_created"`

	MintedAt      int64  `json:"minted_at"`
	LastUpdatedAt int64  `json:"last_updated_at"`
	TransferCount uint64 `json:"transfer_count"`
}
