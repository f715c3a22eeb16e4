// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pox

import (
	"fmt"

	"github.com/stxkit/stacker/stx"
)

// Period classifies where the chain stands in a migration between two PoX contracts.
type Period string

const (
	// Period1 is before the fork: only the legacy contract governs.
	Period1 Period = "Period1"
	// Period2a is after the fork, while the node still reports the legacy contract as active.
	Period2a Period = "Period2a"
	// Period2b is after cutover, until the successor's first reward cycle starts.
	Period2b Period = "Period2b"
	// Period3 is when the successor fully governs reward sets and locks.
	Period3 Period = "Period3"
)

// Rank orders periods along the migration; an unknown period ranks 0.
func (p Period) Rank() int {
	switch p {
	case Period1:
		return 1
	case Period2a:
		return 2
	case Period2b:
		return 3
	case Period3:
		return 4
	}
	return 0
}

// OperationInfo is the resolved period together with the contracts it refers to.
// Current is nil only for Period1 when the node knows a single contract.
type OperationInfo struct {
	Period  Period
	Legacy  ContractVersion
	Current *ContractVersion
}

// StackingContract is the contract new stacking calls go to: the legacy one
// before the fork, the successor from Period2a on.
func (o *OperationInfo) StackingContract() string {
	switch o.Period {
	case Period1:
		return o.Legacy.ContractID
	case Period2a, Period2b, Period3:
		if o.Current != nil {
			return o.Current.ContractID
		}
	}
	return o.Legacy.ContractID
}

// Live reports whether the successor contract accepts calls.
func (o *OperationInfo) Live() bool {
	return o.Period != Period1 && o.Current != nil
}

// RequireLive fails with stx.ErrProtocolNotLive before the fork.
func (o *OperationInfo) RequireLive() error {
	if !o.Live() {
		return fmt.Errorf("%w: currently in %s", stx.ErrProtocolNotLive, o.Period)
	}
	return nil
}

func (o *OperationInfo) String() string {
	if o.Current == nil {
		return fmt.Sprintf("%s legacy=%s", o.Period, o.Legacy.ContractID)
	}
	return fmt.Sprintf("%s legacy=%s current=%s (first cycle %d)",
		o.Period, o.Legacy.ContractID, o.Current.ContractID, o.Current.FirstRewardCycleID)
}
