// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stacking builds, signs and broadcasts stacking contract calls for one
// account, and decodes the account's stacking state.
package stacking

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/log"
	"github.com/stxkit/stacker/metrics"
	"github.com/stxkit/stacker/pox"
	"github.com/stxkit/stacker/poxaddr"
	"github.com/stxkit/stacker/stx"
)

var (
	logger = log.WithContext("pkg", "stacking")

	metricOperations = metrics.LazyLoadCounterVec("stacking_operations_count", []string{"intent", "outcome"})
)

// ErrNoSigner is returned by write operations on a client built without a signer.
var ErrNoSigner = errors.New("no transaction signer configured")

// Reader is the node read API the client depends on.
type Reader interface {
	PoxInfo(ctx context.Context) (*pox.Info, error)
	CoreInfo(ctx context.Context) (*api.CoreInfo, error)
	Account(ctx context.Context, addr stx.Address) (*api.Account, error)
	DataVar(ctx context.Context, contract stx.ContractID, name string) (clarity.Value, error)
	CallReadOnly(ctx context.Context, contract stx.ContractID, function string, sender stx.Address, args ...clarity.Value) (clarity.Value, error)
}

// Indexer is the extended API used for block times, balances and rewards.
type Indexer interface {
	NetworkBlockTimes(ctx context.Context) (*api.NetworkBlockTimes, error)
	ExtendedBalances(ctx context.Context, addr stx.Address) (*api.ExtendedBalances, error)
	RewardsTotal(ctx context.Context, btcAddr string) (*api.RewardsTotal, error)
	Rewards(ctx context.Context, btcAddr string, page *api.Pagination) (*api.BurnchainRewardList, error)
	RewardSlotHolders(ctx context.Context, btcAddr string, page *api.Pagination) (*api.RewardSlotHolderList, error)
}

// Broadcaster submits signed transactions.
type Broadcaster interface {
	Broadcast(ctx context.Context, raw []byte) (*api.BroadcastResult, error)
}

// Node is everything a full node API offers; *stxclient.Client implements it.
type Node interface {
	Reader
	Indexer
	Broadcaster
}

// Signer builds and signs the transaction for a contract call.
type Signer interface {
	SignContractCall(ctx context.Context, call *ContractCallSpec, privateKey string) ([]byte, error)
}

// Client runs stacking operations for a single account.
type Client struct {
	address stx.Address
	network stx.Network
	node    Node
	signer  Signer
}

type Option func(*Client)

// WithSigner enables the write operations.
func WithSigner(s Signer) Option {
	return func(c *Client) {
		c.signer = s
	}
}

func New(address stx.Address, network stx.Network, node Node, opts ...Option) *Client {
	c := &Client{
		address: address,
		network: network,
		node:    node,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Address() stx.Address { return c.address }

func (c *Client) Network() stx.Network { return c.network }

// contractSelector picks the contract an intent is sent to.
type contractSelector func(info *pox.Info, op *pox.OperationInfo) (string, error)

// resolved sends to the legacy contract before the fork and the successor after.
func resolved(_ *pox.Info, op *pox.OperationInfo) (string, error) {
	return op.StackingContract(), nil
}

// successorOnly is resolved, failing before the fork.
func successorOnly(_ *pox.Info, op *pox.OperationInfo) (string, error) {
	if err := op.RequireLive(); err != nil {
		return "", err
	}
	return op.StackingContract(), nil
}

// active sends to whatever contract the node reports active.
func active(info *pox.Info, _ *pox.OperationInfo) (string, error) {
	return info.ContractID, nil
}

func selectorFor(kind Kind) contractSelector {
	switch kind {
	case KindExtendLock, KindIncreaseLock, KindDelegateExtend, KindDelegateIncrease:
		return successorOnly
	case KindRevokeDelegation:
		return active
	}
	return resolved
}

// Stack locks the account's funds.
func (c *Client) Stack(ctx context.Context, in Lock, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

// StackExtend extends an active lock. It needs the successor contract.
func (c *Client) StackExtend(ctx context.Context, in ExtendLock, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

// StackIncrease adds to an active lock. It needs the successor contract.
func (c *Client) StackIncrease(ctx context.Context, in IncreaseLock, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) DelegateStx(ctx context.Context, in Delegate, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) DelegateStackStx(ctx context.Context, in DelegateStack, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) DelegateStackExtend(ctx context.Context, in DelegateExtend, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) DelegateStackIncrease(ctx context.Context, in DelegateIncrease, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) StackAggregationCommit(ctx context.Context, in AggregateCommit, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) StackAggregationCommitIndexed(ctx context.Context, in AggregateCommitIndexed, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

func (c *Client) StackAggregationIncrease(ctx context.Context, in AggregateIncrease, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

// RevokeDelegateStx revokes the delegation on the active contract.
func (c *Client) RevokeDelegateStx(ctx context.Context, in RevokeDelegation, privateKey string) (*api.BroadcastResult, error) {
	return c.execute(ctx, in, privateKey)
}

// Prepare resolves the contract for intent and builds the call without
// signing it.
func (c *Client) Prepare(ctx context.Context, intent Intent) (*ContractCallSpec, error) {
	if intent == nil {
		return nil, errors.New("nil stacking intent")
	}
	info, err := c.node.PoxInfo(ctx)
	if err != nil {
		return nil, err
	}
	op, err := pox.Resolve(ctx, info, c.node)
	if err != nil {
		return nil, err
	}
	contract, err := selectorFor(intent.Kind())(info, op)
	if err != nil {
		return nil, err
	}
	logger.Debug("selected stacking contract", "intent", intent.Kind(), "period", op.Period, "contract", contract)
	return Build(intent, contract)
}

func (c *Client) execute(ctx context.Context, intent Intent, privateKey string) (*api.BroadcastResult, error) {
	label := string(intent.Kind())
	if c.signer == nil {
		recordOperation(label, ErrNoSigner)
		return nil, ErrNoSigner
	}
	call, err := c.Prepare(ctx, intent)
	if err != nil {
		recordOperation(label, err)
		return nil, err
	}
	return c.submit(ctx, label, call, privateKey)
}

// Submit signs and broadcasts a call built by Prepare, possibly adjusted with
// DeductFee in between.
func (c *Client) Submit(ctx context.Context, call *ContractCallSpec, privateKey string) (*api.BroadcastResult, error) {
	if call == nil {
		return nil, errors.New("nil contract call")
	}
	label := call.FunctionName
	if kind, ok := functionKinds[call.FunctionName]; ok {
		label = string(kind)
	}
	if c.signer == nil {
		recordOperation(label, ErrNoSigner)
		return nil, ErrNoSigner
	}
	return c.submit(ctx, label, call, privateKey)
}

func (c *Client) submit(ctx context.Context, label string, call *ContractCallSpec, privateKey string) (result *api.BroadcastResult, err error) {
	defer func() { recordOperation(label, err) }()

	raw, err := c.signer.SignContractCall(ctx, call, privateKey)
	if err != nil {
		return nil, fmt.Errorf("unable to sign %s - %w", call.FunctionName, err)
	}
	result, err = c.node.Broadcast(ctx, raw)
	if err != nil {
		if errors.Is(err, stx.ErrBroadcastRejected) {
			logger.Warn("transaction rejected", "function", call.FunctionName, "contract", call.ContractID(), "err", err)
		}
		return nil, err
	}
	logger.Info("transaction broadcast", "function", call.FunctionName, "contract", call.ContractID(), "txid", result.TxID)
	return result, nil
}

func recordOperation(label string, err error) {
	outcome := "broadcast"
	switch {
	case errors.Is(err, stx.ErrBroadcastRejected):
		outcome = "rejected"
	case err != nil:
		outcome = "failed"
	}
	metricOperations().AddWithLabel(1, map[string]string{"intent": label, "outcome": outcome})
}

func (c *Client) PoxInfo(ctx context.Context) (*pox.Info, error) {
	return c.node.PoxInfo(ctx)
}

func (c *Client) CoreInfo(ctx context.Context) (*api.CoreInfo, error) {
	return c.node.CoreInfo(ctx)
}

// PoxOperationInfo resolves the current period. A nil info is fetched first.
func (c *Client) PoxOperationInfo(ctx context.Context, info *pox.Info) (*pox.OperationInfo, error) {
	if info == nil {
		var err error
		if info, err = c.node.PoxInfo(ctx); err != nil {
			return nil, err
		}
	}
	return pox.Resolve(ctx, info, c.node)
}

// TargetBlockTime returns the expected burn block interval of the client's network.
func (c *Client) TargetBlockTime(ctx context.Context) (time.Duration, error) {
	times, err := c.node.NetworkBlockTimes(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(times.For(c.network.Mainnet)) * time.Second, nil
}

func (c *Client) AccountStatus(ctx context.Context) (*api.Account, error) {
	return c.node.Account(ctx, c.address)
}

// AccountBalance returns the unlocked balance in micro-STX.
func (c *Client) AccountBalance(ctx context.Context) (*big.Int, error) {
	account, err := c.node.Account(ctx, c.address)
	if err != nil {
		return nil, err
	}
	return account.BalanceBig(), nil
}

// AccountBalanceLocked returns the locked balance in micro-STX.
func (c *Client) AccountBalanceLocked(ctx context.Context) (*big.Int, error) {
	account, err := c.node.Account(ctx, c.address)
	if err != nil {
		return nil, err
	}
	return account.LockedBig(), nil
}

func (c *Client) AccountExtendedBalances(ctx context.Context) (*api.ExtendedBalances, error) {
	return c.node.ExtendedBalances(ctx, c.address)
}

// CycleDuration is the expected wall time of one reward cycle.
func (c *Client) CycleDuration(ctx context.Context) (time.Duration, error) {
	var (
		info      *pox.Info
		blockTime time.Duration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.node.PoxInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		blockTime, err = c.TargetBlockTime(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return time.Duration(info.RewardCycleLength) * blockTime, nil
}

// SecondsUntilNextCycle estimates the time until the next reward cycle starts.
func (c *Client) SecondsUntilNextCycle(ctx context.Context) (time.Duration, error) {
	var (
		info      *pox.Info
		core      *api.CoreInfo
		blockTime time.Duration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.node.PoxInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		core, err = c.node.CoreInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		blockTime, err = c.TargetBlockTime(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return time.Duration(info.BlocksUntilNextCycle(core.BurnBlockHeight)) * blockTime, nil
}

func (c *Client) IsStackingEnabledNextCycle(ctx context.Context) (bool, error) {
	info, err := c.node.PoxInfo(ctx)
	if err != nil {
		return false, err
	}
	return info.StackingEnabledNextCycle(), nil
}

// HasMinimumStx reports whether the balance reaches the minimum stacking amount.
func (c *Client) HasMinimumStx(ctx context.Context) (bool, error) {
	var (
		info    *pox.Info
		balance *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.node.PoxInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		balance, err = c.AccountBalance(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return balance.Cmp(new(big.Int).SetUint64(info.MinAmountUstx)) >= 0, nil
}

// CanStack asks the active contract whether the whole balance could be locked
// to poxAddress for cycles.
func (c *Client) CanStack(ctx context.Context, poxAddress string, cycles uint64) (*Eligibility, error) {
	addr, err := poxaddr.Decode(poxAddress)
	if err != nil {
		return nil, err
	}

	var (
		info    *pox.Info
		balance *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.node.PoxInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		balance, err = c.AccountBalance(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contract, err := stx.ParseContractID(info.ContractID)
	if err != nil {
		return nil, err
	}
	amount, err := clarity.UIntFromBig(balance)
	if err != nil {
		return nil, err
	}
	v, err := c.node.CallReadOnly(ctx, contract, "can-stack-stx", c.address,
		addr.Tuple(), amount, clarity.NewUInt(info.RewardCycleID), clarity.NewUInt(cycles))
	if err != nil {
		return nil, err
	}
	return DecodeEligibility(v)
}

// Status reads the account's lock from the active contract, joined with the
// unlock height of the account read.
func (c *Client) Status(ctx context.Context) (*StackerInfo, error) {
	contract, err := c.activeContract(ctx)
	if err != nil {
		return nil, err
	}

	var (
		value   clarity.Value
		account *api.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		value, err = c.node.CallReadOnly(gctx, contract, "get-stacker-info", c.address, clarity.StandardPrincipal{Address: c.address})
		return err
	})
	g.Go(func() (err error) {
		account, err = c.node.Account(gctx, c.address)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return DecodeStackerInfo(value, account.UnlockHeight)
}

// DelegationStatus reads the account's delegation from the active contract.
func (c *Client) DelegationStatus(ctx context.Context) (*DelegationInfo, error) {
	contract, err := c.activeContract(ctx)
	if err != nil {
		return nil, err
	}
	v, err := c.node.CallReadOnly(ctx, contract, "get-delegation-info", c.address, clarity.StandardPrincipal{Address: c.address})
	if err != nil {
		return nil, err
	}
	return DecodeDelegationInfo(v)
}

// RewardSet reads entry index of the reward set of cycle from contractID. It
// returns nil past the end of the set.
func (c *Client) RewardSet(ctx context.Context, contractID string, cycle, index uint64) (*RewardSetInfo, error) {
	contract, err := stx.ParseContractID(contractID)
	if err != nil {
		return nil, err
	}
	v, err := c.node.CallReadOnly(ctx, contract, "get-reward-set-pox-address", c.address, clarity.NewUInt(cycle), clarity.NewUInt(index))
	if err != nil {
		return nil, err
	}
	return DecodeRewardSetInfo(v)
}

func (c *Client) RewardsTotal(ctx context.Context, btcAddr string) (*api.RewardsTotal, error) {
	return c.node.RewardsTotal(ctx, btcAddr)
}

func (c *Client) Rewards(ctx context.Context, btcAddr string, page *api.Pagination) (*api.BurnchainRewardList, error) {
	return c.node.Rewards(ctx, btcAddr, page)
}

func (c *Client) RewardHolders(ctx context.Context, btcAddr string, page *api.Pagination) (*api.RewardSlotHolderList, error) {
	return c.node.RewardSlotHolders(ctx, btcAddr, page)
}

func (c *Client) activeContract(ctx context.Context) (stx.ContractID, error) {
	info, err := c.node.PoxInfo(ctx)
	if err != nil {
		return stx.ContractID{}, err
	}
	return stx.ParseContractID(info.ContractID)
}
