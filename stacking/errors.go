// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stacking

import "fmt"

// ErrorCode is an error code returned by the stacking contracts.
type ErrorCode uint64

const (
	ErrStackingInsufficientFunds   ErrorCode = 1
	ErrStackingInvalidLockPeriod   ErrorCode = 2
	ErrStackingAlreadyStacked      ErrorCode = 3
	ErrStackingNoSuchPrincipal     ErrorCode = 4
	ErrStackingExpired             ErrorCode = 5
	ErrStackingStxLocked           ErrorCode = 6
	ErrStackingPermissionDenied    ErrorCode = 9
	ErrStackingThresholdNotMet     ErrorCode = 11
	ErrStackingPoxAddressInUse     ErrorCode = 12
	ErrStackingInvalidPoxAddress   ErrorCode = 13
	ErrStackingAlreadyRejected     ErrorCode = 17
	ErrStackingInvalidAmount       ErrorCode = 18
	ErrNotAllowed                  ErrorCode = 19
	ErrStackingAlreadyDelegated    ErrorCode = 20
	ErrDelegationExpiresDuringLock ErrorCode = 21
	ErrDelegationTooMuchLocked     ErrorCode = 22
	ErrDelegationPoxAddrRequired   ErrorCode = 23
	ErrInvalidStartBurnHeight      ErrorCode = 24
	ErrNotCurrentStacker           ErrorCode = 25
	ErrStackExtendNotLocked        ErrorCode = 26
	ErrStackIncreaseNotLocked      ErrorCode = 27
	ErrDelegationNoRewardSlot      ErrorCode = 28
	ErrDelegationWrongRewardSlot   ErrorCode = 29
	ErrStackingCorruptedState      ErrorCode = 254
	ErrStackingUnreachable         ErrorCode = 255
)

var errorNames = map[ErrorCode]string{
	ErrStackingInsufficientFunds:   "ERR_STACKING_INSUFFICIENT_FUNDS",
	ErrStackingInvalidLockPeriod:   "ERR_STACKING_INVALID_LOCK_PERIOD",
	ErrStackingAlreadyStacked:      "ERR_STACKING_ALREADY_STACKED",
	ErrStackingNoSuchPrincipal:     "ERR_STACKING_NO_SUCH_PRINCIPAL",
	ErrStackingExpired:             "ERR_STACKING_EXPIRED",
	ErrStackingStxLocked:           "ERR_STACKING_STX_LOCKED",
	ErrStackingPermissionDenied:    "ERR_STACKING_PERMISSION_DENIED",
	ErrStackingThresholdNotMet:     "ERR_STACKING_THRESHOLD_NOT_MET",
	ErrStackingPoxAddressInUse:     "ERR_STACKING_POX_ADDRESS_IN_USE",
	ErrStackingInvalidPoxAddress:   "ERR_STACKING_INVALID_POX_ADDRESS",
	ErrStackingAlreadyRejected:     "ERR_STACKING_ALREADY_REJECTED",
	ErrStackingInvalidAmount:       "ERR_STACKING_INVALID_AMOUNT",
	ErrNotAllowed:                  "ERR_NOT_ALLOWED",
	ErrStackingAlreadyDelegated:    "ERR_STACKING_ALREADY_DELEGATED",
	ErrDelegationExpiresDuringLock: "ERR_DELEGATION_EXPIRES_DURING_LOCK",
	ErrDelegationTooMuchLocked:     "ERR_DELEGATION_TOO_MUCH_LOCKED",
	ErrDelegationPoxAddrRequired:   "ERR_DELEGATION_POX_ADDR_REQUIRED",
	ErrInvalidStartBurnHeight:      "ERR_INVALID_START_BURN_HEIGHT",
	ErrNotCurrentStacker:           "ERR_NOT_CURRENT_STACKER",
	ErrStackExtendNotLocked:        "ERR_STACK_EXTEND_NOT_LOCKED",
	ErrStackIncreaseNotLocked:      "ERR_STACK_INCREASE_NOT_LOCKED",
	ErrDelegationNoRewardSlot:      "ERR_DELEGATION_NO_REWARD_SLOT",
	ErrDelegationWrongRewardSlot:   "ERR_DELEGATION_WRONG_REWARD_SLOT",
	ErrStackingCorruptedState:      "ERR_STACKING_CORRUPTED_STATE",
	ErrStackingUnreachable:         "ERR_STACKING_UNREACHABLE",
}

// Known reports whether c is in the contract's error table.
func (c ErrorCode) Known() bool {
	_, ok := errorNames[c]
	return ok
}

// String returns the contract's name for c, or a generic reason for codes
// outside the table.
func (c ErrorCode) String() string {
	if name, ok := errorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERR_UNKNOWN(%d)", uint64(c))
}
