// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stacking

import (
	"math/big"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/poxaddr"
	"github.com/stxkit/stacker/stx"
)

// StackerInfo is the lock state of an account. Details is nil when not stacked.
type StackerInfo struct {
	Stacked bool            `json:"stacked"`
	Details *StackerDetails `json:"details,omitempty"`
}

type StackerDetails struct {
	FirstRewardCycle uint64          `json:"first_reward_cycle"`
	LockPeriod       uint64          `json:"lock_period"`
	UnlockHeight     uint64          `json:"unlock_height"`
	PoxAddress       poxaddr.Address `json:"pox_address"`

	// RewardSetIndexes is only reported by the pox-2 contract.
	RewardSetIndexes []uint64 `json:"reward_set_indexes,omitempty"`
}

// DelegationInfo is the delegation state of an account. Details is nil when
// not delegated.
type DelegationInfo struct {
	Delegated bool               `json:"delegated"`
	Details   *DelegationDetails `json:"details,omitempty"`
}

type DelegationDetails struct {
	AmountMicroStx       *big.Int         `json:"amount_micro_stx"`
	DelegatedTo          string           `json:"delegated_to"`
	PoxAddress           *poxaddr.Address `json:"pox_address,omitempty"`
	UntilBurnBlockHeight *uint64          `json:"until_burn_ht,omitempty"`
}

// Eligibility is the answer of can-stack-stx. Reason is empty when eligible.
type Eligibility struct {
	Eligible bool      `json:"eligible"`
	Code     ErrorCode `json:"code,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// RewardSetInfo is one entry of a cycle's reward set.
type RewardSetInfo struct {
	PoxAddress poxaddr.Address `json:"pox_address"`
	TotalUstx  *big.Int        `json:"total_ustx"`
}

// DecodeStackerInfo decodes the result of get-stacker-info. The unlock height
// is not part of the tuple; it comes from the account read.
func DecodeStackerInfo(v clarity.Value, unlockHeight uint64) (*StackerInfo, error) {
	inner, ok, err := clarity.Unwrap("stacker-info", v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &StackerInfo{}, nil
	}
	t, err := clarity.As[clarity.Tuple]("stacker-info", inner)
	if err != nil {
		return nil, err
	}

	details := &StackerDetails{UnlockHeight: unlockHeight}
	if details.FirstRewardCycle, err = clarity.Uint64Field(t, "first-reward-cycle"); err != nil {
		return nil, err
	}
	if details.LockPeriod, err = clarity.Uint64Field(t, "lock-period"); err != nil {
		return nil, err
	}
	addr, ok := t["pox-addr"]
	if !ok {
		return nil, stx.NewDecodeError("pox-addr", "missing tuple key")
	}
	if details.PoxAddress, err = poxaddr.FromTuple("pox-addr", addr); err != nil {
		return nil, err
	}
	if indexes, ok := t["reward-set-indexes"]; ok {
		if details.RewardSetIndexes, err = decodeUintList("reward-set-indexes", indexes); err != nil {
			return nil, err
		}
	}
	return &StackerInfo{Stacked: true, Details: details}, nil
}

// DecodeDelegationInfo decodes the result of get-delegation-info.
func DecodeDelegationInfo(v clarity.Value) (*DelegationInfo, error) {
	inner, ok, err := clarity.Unwrap("delegation-info", v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &DelegationInfo{}, nil
	}
	t, err := clarity.As[clarity.Tuple]("delegation-info", inner)
	if err != nil {
		return nil, err
	}

	details := &DelegationDetails{}
	if details.AmountMicroStx, err = clarity.BigField(t, "amount-ustx"); err != nil {
		return nil, err
	}
	delegatedTo, ok := t["delegated-to"]
	if !ok {
		return nil, stx.NewDecodeError("delegated-to", "missing tuple key")
	}
	if details.DelegatedTo, err = clarity.PrincipalString("delegated-to", delegatedTo); err != nil {
		return nil, err
	}

	addr, err := clarity.OptionalField(t, "pox-addr")
	if err != nil {
		return nil, err
	}
	if addr != nil {
		decoded, err := poxaddr.FromTuple("pox-addr", addr)
		if err != nil {
			return nil, err
		}
		details.PoxAddress = &decoded
	}

	until, err := clarity.OptionalField(t, "until-burn-ht")
	if err != nil {
		return nil, err
	}
	if until != nil {
		u, err := clarity.As[clarity.UInt]("until-burn-ht", until)
		if err != nil {
			return nil, err
		}
		if !u.V.IsUint64() {
			return nil, stx.NewDecodeError("until-burn-ht", "value %s overflows uint64", u.V.Dec())
		}
		height := u.V.Uint64()
		details.UntilBurnBlockHeight = &height
	}
	return &DelegationInfo{Delegated: true, Details: details}, nil
}

// DecodeEligibility decodes the response of can-stack-stx.
func DecodeEligibility(v clarity.Value) (*Eligibility, error) {
	switch r := v.(type) {
	case clarity.ResponseOk:
		return &Eligibility{Eligible: true}, nil
	case clarity.ResponseErr:
		code, err := errorCode(r.Value)
		if err != nil {
			return nil, err
		}
		return &Eligibility{Code: code, Reason: code.String()}, nil
	case nil:
		return nil, stx.NewDecodeError("can-stack-stx", "missing value")
	}
	return nil, stx.NewDecodeError("can-stack-stx", "expected response, got %s", v.Type())
}

// DecodeRewardSetInfo decodes the result of get-reward-set-pox-address; it
// returns nil when the index is past the end of the set.
func DecodeRewardSetInfo(v clarity.Value) (*RewardSetInfo, error) {
	inner, ok, err := clarity.Unwrap("reward-set", v)
	if err != nil || !ok {
		return nil, err
	}
	t, err := clarity.As[clarity.Tuple]("reward-set", inner)
	if err != nil {
		return nil, err
	}

	info := &RewardSetInfo{}
	addr, ok := t["pox-addr"]
	if !ok {
		return nil, stx.NewDecodeError("pox-addr", "missing tuple key")
	}
	if info.PoxAddress, err = poxaddr.FromTuple("pox-addr", addr); err != nil {
		return nil, err
	}
	if info.TotalUstx, err = clarity.BigField(t, "total-ustx"); err != nil {
		return nil, err
	}
	return info, nil
}

// errorCode reads the int or uint carried by an err response.
func errorCode(v clarity.Value) (ErrorCode, error) {
	switch n := v.(type) {
	case clarity.Int:
		if n.V.Sign() < 0 || !n.V.IsUint64() {
			return 0, stx.NewDecodeError("error-code", "code %s out of range", n.V)
		}
		return ErrorCode(n.V.Uint64()), nil
	case clarity.UInt:
		if !n.V.IsUint64() {
			return 0, stx.NewDecodeError("error-code", "code %s out of range", n.V.Dec())
		}
		return ErrorCode(n.V.Uint64()), nil
	case nil:
		return 0, stx.NewDecodeError("error-code", "missing value")
	}
	return 0, stx.NewDecodeError("error-code", "expected integer, got %s", v.Type())
}

func decodeUintList(field string, v clarity.Value) ([]uint64, error) {
	list, err := clarity.As[clarity.List](field, v)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, len(list))
	for _, item := range list {
		u, err := clarity.As[clarity.UInt](field, item)
		if err != nil {
			return nil, err
		}
		if !u.V.IsUint64() {
			return nil, stx.NewDecodeError(field, "value %s overflows uint64", u.V.Dec())
		}
		out = append(out, u.V.Uint64())
	}
	return out, nil
}
