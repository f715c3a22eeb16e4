// Copyright (c) 2025 The VeChainThor developers
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

// Types exchanged with the node read API and the extended API.

// CoreInfo is the subset of GET /v2/info the stacking client reads.
type CoreInfo struct {
	PeerVersion           uint32 `json:"peer_version"`
	BurnBlockHeight       uint64 `json:"burn_block_height"`
	StablePoxConsensus    string `json:"stable_pox_consensus"`
	StableBurnBlockHeight uint64 `json:"stable_burn_block_height"`
	StacksTipHeight       uint64 `json:"stacks_tip_height"`
	ServerVersion         string `json:"server_version"`
	NetworkID             uint32 `json:"network_id"`
}

// Account is GET /v2/accounts/{address}. Balances are 0x prefixed hex.
type Account struct {
	Balance      *math.HexOrDecimal256 `json:"balance"`
	Locked       *math.HexOrDecimal256 `json:"locked"`
	UnlockHeight uint64                `json:"unlock_height"`
	Nonce        uint64                `json:"nonce"`
}

// BalanceBig returns the spendable balance, zero when absent.
func (a *Account) BalanceBig() *big.Int {
	return bigOrZero(a.Balance)
}

// LockedBig returns the locked balance, zero when absent.
func (a *Account) LockedBig() *big.Int {
	return bigOrZero(a.Locked)
}

// STXBalance is the stx section of the extended balances endpoint.
type STXBalance struct {
	Balance               *math.HexOrDecimal256 `json:"balance"`
	TotalSent             *math.HexOrDecimal256 `json:"total_sent"`
	TotalReceived         *math.HexOrDecimal256 `json:"total_received"`
	Locked                *math.HexOrDecimal256 `json:"locked"`
	LockTxID              string                `json:"lock_tx_id"`
	LockHeight            uint64                `json:"lock_height"`
	BurnchainLockHeight   uint64                `json:"burnchain_lock_height"`
	BurnchainUnlockHeight uint64                `json:"burnchain_unlock_height"`
}

// ExtendedBalances is GET /extended/v1/address/{address}/balances. Token
// sections are kept raw.
type ExtendedBalances struct {
	STX               STXBalance      `json:"stx"`
	FungibleTokens    json.RawMessage `json:"fungible_tokens"`
	NonFungibleTokens json.RawMessage `json:"non_fungible_tokens"`
}

// TargetBlockTime is one network entry of the block time endpoint.
type TargetBlockTime struct {
	TargetBlockTime uint64 `json:"target_block_time"`
}

// NetworkBlockTimes is GET /extended/v1/info/network_block_times.
type NetworkBlockTimes struct {
	Mainnet TargetBlockTime `json:"mainnet"`
	Testnet TargetBlockTime `json:"testnet"`
}

// For picks the target block time in seconds of the given network.
func (n *NetworkBlockTimes) For(mainnet bool) uint64 {
	if mainnet {
		return n.Mainnet.TargetBlockTime
	}
	return n.Testnet.TargetBlockTime
}

// DataVar is GET /v2/data_var/{address}/{contract}/{var}.
type DataVar struct {
	Data  string `json:"data"`
	Proof string `json:"proof,omitempty"`
}

// ReadOnlyCall is the body of POST /v2/contracts/call-read/{address}/{contract}/{function}.
type ReadOnlyCall struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

// ReadOnlyResult is the response of a read-only call. Result is set when Okay.
type ReadOnlyResult struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result,omitempty"`
	Cause  string `json:"cause,omitempty"`
}

// BroadcastRejection is the body of a 400 from POST /v2/transactions.
type BroadcastRejection struct {
	Error      string          `json:"error"`
	Reason     string          `json:"reason"`
	ReasonData json.RawMessage `json:"reason_data,omitempty"`
	TxID       string          `json:"txid"`
}

// BroadcastResult identifies an accepted transaction.
type BroadcastResult struct {
	TxID string `json:"txid"`
}

// Pagination selects a page of a list endpoint.
type Pagination struct {
	Limit  uint64
	Offset uint64
}

// RewardsTotal is GET /extended/v1/burnchain/rewards/{address}/total.
type RewardsTotal struct {
	RewardRecipient string                `json:"reward_recipient"`
	RewardAmount    *math.HexOrDecimal256 `json:"reward_amount"`
}

// BurnchainReward is one payout to a reward address.
type BurnchainReward struct {
	Canonical       bool                  `json:"canonical"`
	BurnBlockHash   string                `json:"burn_block_hash"`
	BurnBlockHeight uint64                `json:"burn_block_height"`
	BurnAmount      *math.HexOrDecimal256 `json:"burn_amount"`
	RewardRecipient string                `json:"reward_recipient"`
	RewardAmount    *math.HexOrDecimal256 `json:"reward_amount"`
	RewardIndex     uint64                `json:"reward_index"`
}

// BurnchainRewardList is GET /extended/v1/burnchain/rewards/{address}.
type BurnchainRewardList struct {
	Limit   uint64            `json:"limit"`
	Offset  uint64            `json:"offset"`
	Results []BurnchainReward `json:"results"`
}

// RewardSlotHolder is one reward slot won by an address.
type RewardSlotHolder struct {
	Canonical       bool   `json:"canonical"`
	BurnBlockHash   string `json:"burn_block_hash"`
	BurnBlockHeight uint64 `json:"burn_block_height"`
	Address         string `json:"address"`
	SlotIndex       uint64 `json:"slot_index"`
}

// RewardSlotHolderList is GET /extended/v1/burnchain/reward_slot_holders/{address}.
type RewardSlotHolderList struct {
	Limit   uint64             `json:"limit"`
	Offset  uint64             `json:"offset"`
	Total   uint64             `json:"total"`
	Results []RewardSlotHolder `json:"results"`
}

// ErrorBody is the error document the extended API returns.
type ErrorBody struct {
	Error string `json:"error"`
}

func bigOrZero(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}
