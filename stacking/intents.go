// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stacking

import "math/big"

// Kind names a stacking intent.
type Kind string

const (
	KindLock                   Kind = "lock"
	KindExtendLock             Kind = "extend-lock"
	KindIncreaseLock           Kind = "increase-lock"
	KindDelegate               Kind = "delegate"
	KindDelegateStack          Kind = "delegate-stack"
	KindDelegateExtend         Kind = "delegate-extend"
	KindDelegateIncrease       Kind = "delegate-increase"
	KindAggregateCommit        Kind = "aggregate-commit"
	KindAggregateCommitIndexed Kind = "aggregate-commit-indexed"
	KindAggregateIncrease      Kind = "aggregate-increase"
	KindRevokeDelegation       Kind = "revoke-delegation"
)

// Intent is a stacking action to be turned into a contract call. The set of
// intents is closed; every implementation lives in this package.
type Intent interface {
	Kind() Kind
	txOptions() Options
}

// Options are the transaction settings shared by every intent.
type Options struct {
	// Nonce overrides the account nonce. Zero is a valid override.
	Nonce *uint64
}

func (o Options) txOptions() Options { return o }

// WithNonce returns options pinning the nonce to n.
func WithNonce(n uint64) Options {
	return Options{Nonce: &n}
}

// Lock locks Amount for Cycles reward cycles starting after BurnBlockHeight.
type Lock struct {
	Options
	Amount          *big.Int
	PoxAddress      string
	BurnBlockHeight uint64
	Cycles          uint64
}

// ExtendLock extends an active lock by ExtendCycles.
type ExtendLock struct {
	Options
	ExtendCycles uint64
	PoxAddress   string
}

// IncreaseLock adds IncreaseBy to an active lock.
type IncreaseLock struct {
	Options
	IncreaseBy *big.Int
}

// Delegate allows DelegateTo to stack up to Amount on the sender's behalf.
// A nil UntilBurnBlockHeight never expires; an empty PoxAddress lets the
// delegatee choose.
type Delegate struct {
	Options
	Amount               *big.Int
	DelegateTo           string
	UntilBurnBlockHeight *uint64
	PoxAddress           string
}

// DelegateStack locks a delegator's funds as the delegatee.
type DelegateStack struct {
	Options
	Stacker         string
	Amount          *big.Int
	PoxAddress      string
	BurnBlockHeight uint64
	Cycles          uint64
}

type DelegateExtend struct {
	Options
	Stacker     string
	PoxAddress  string
	ExtendCount uint64
}

type DelegateIncrease struct {
	Options
	Stacker    string
	PoxAddress string
	IncreaseBy *big.Int
}

// AggregateCommit commits the delegatee's partially stacked amount for RewardCycle.
type AggregateCommit struct {
	Options
	PoxAddress  string
	RewardCycle uint64
}

// AggregateCommitIndexed is AggregateCommit returning the reward set index.
type AggregateCommitIndexed struct {
	Options
	PoxAddress  string
	RewardCycle uint64
}

// AggregateIncrease adds to the reward set entry at RewardIndex.
type AggregateIncrease struct {
	Options
	PoxAddress  string
	RewardCycle uint64
	RewardIndex uint64
}

type RevokeDelegation struct {
	Options
}

func (Lock) Kind() Kind                   { return KindLock }
func (ExtendLock) Kind() Kind             { return KindExtendLock }
func (IncreaseLock) Kind() Kind           { return KindIncreaseLock }
func (Delegate) Kind() Kind               { return KindDelegate }
func (DelegateStack) Kind() Kind          { return KindDelegateStack }
func (DelegateExtend) Kind() Kind         { return KindDelegateExtend }
func (DelegateIncrease) Kind() Kind       { return KindDelegateIncrease }
func (AggregateCommit) Kind() Kind        { return KindAggregateCommit }
func (AggregateCommitIndexed) Kind() Kind { return KindAggregateCommitIndexed }
func (AggregateIncrease) Kind() Kind      { return KindAggregateIncrease }
func (RevokeDelegation) Kind() Kind       { return KindRevokeDelegation }
