// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pox

import (
	"sort"
)

// ContractVersion is one deployed PoX contract as reported by the node.
type ContractVersion struct {
	ContractID                     string `json:"contract_id"`
	ActivationBurnchainBlockHeight uint64 `json:"activation_burnchain_block_height"`
	FirstRewardCycleID             uint64 `json:"first_reward_cycle_id"`
}

// CycleInfo summarizes one reward cycle.
type CycleInfo struct {
	ID               uint64 `json:"id"`
	MinThresholdUstx uint64 `json:"min_threshold_ustx"`
	StackedUstx      uint64 `json:"stacked_ustx"`
	IsPoxActive      bool   `json:"is_pox_active"`
}

// NextCycleInfo is the upcoming cycle with its phase boundaries.
type NextCycleInfo struct {
	CycleInfo
	MinIncrementUstx             uint64 `json:"min_increment_ustx"`
	PreparePhaseStartBlockHeight uint64 `json:"prepare_phase_start_block_height"`
	BlocksUntilPreparePhase      int64  `json:"blocks_until_prepare_phase"`
	RewardPhaseStartBlockHeight  uint64 `json:"reward_phase_start_block_height"`
	BlocksUntilRewardPhase       uint64 `json:"blocks_until_reward_phase"`
	UstxUntilPoxRejection        uint64 `json:"ustx_until_pox_rejection"`
}

// Info is the node's view of the protocol at the queried height (GET /v2/pox).
// A missing CurrentBurnchainBlockHeight means the node cannot answer questions
// about contract eras yet.
type Info struct {
	ContractID                  string            `json:"contract_id"`
	ContractVersions            []ContractVersion `json:"contract_versions,omitempty"`
	CurrentBurnchainBlockHeight *uint64           `json:"current_burnchain_block_height,omitempty"`
	FirstBurnchainBlockHeight   uint64            `json:"first_burnchain_block_height"`
	PoxActivationThresholdUstx  uint64            `json:"pox_activation_threshold_ustx"`
	MinAmountUstx               uint64            `json:"min_amount_ustx"`
	NextRewardCycleIn           uint64            `json:"next_reward_cycle_in"`
	PrepareCycleLength          uint64            `json:"prepare_cycle_length"`
	PreparePhaseBlockLength     uint64            `json:"prepare_phase_block_length"`
	RewardPhaseBlockLength      uint64            `json:"reward_phase_block_length"`
	RejectionFraction           *uint64           `json:"rejection_fraction"`
	RejectionVotesLeftRequired  *uint64           `json:"rejection_votes_left_required"`
	RewardCycleID               uint64            `json:"reward_cycle_id"`
	RewardCycleLength           uint64            `json:"reward_cycle_length"`
	RewardSlots                 uint64            `json:"reward_slots"`
	TotalLiquidSupplyUstx       uint64            `json:"total_liquid_supply_ustx"`
	CurrentCycle                CycleInfo         `json:"current_cycle"`
	NextCycle                   NextCycleInfo     `json:"next_cycle"`
}

// SortedVersions returns the registry ordered by activation height.
func (i *Info) SortedVersions() []ContractVersion {
	versions := append([]ContractVersion(nil), i.ContractVersions...)
	sort.SliceStable(versions, func(a, b int) bool {
		return versions[a].ActivationBurnchainBlockHeight < versions[b].ActivationBurnchainBlockHeight
	})
	return versions
}

// StackingEnabledNextCycle reports whether enough rejection votes are still
// required for the next cycle to run.
func (i *Info) StackingEnabledNextCycle() bool {
	return i.RejectionVotesLeftRequired == nil || *i.RejectionVotesLeftRequired > 0
}

// BlocksUntilNextCycle counts burn blocks from height to the next cycle start.
func (i *Info) BlocksUntilNextCycle(burnHeight uint64) uint64 {
	if i.RewardCycleLength == 0 {
		return 0
	}
	var elapsed uint64
	if burnHeight > i.FirstBurnchainBlockHeight {
		elapsed = burnHeight - i.FirstBurnchainBlockHeight
	}
	return i.RewardCycleLength - elapsed%i.RewardCycleLength
}
