package testnode

import (
	"net/http"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/pox"
)

// DefaultTxID is what the default broadcast handler answers with.
const DefaultTxID = "0x0000000000000000000000000000000000000000000000000000000000000001"

// NodeBuilder implements the builder pattern for creating a test node instance
type NodeBuilder struct {
	node *node
}

// NewNodeBuilder creates a new NodeBuilder with an empty node that accepts
// every transaction.
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{node: &node{
		coreInfo:     &api.CoreInfo{},
		dataVars:     make(map[string]clarity.Value),
		accounts:     make(map[string]*api.Account),
		balances:     make(map[string]*api.ExtendedBalances),
		blockTimes:   &api.NetworkBlockTimes{Mainnet: api.TargetBlockTime{TargetBlockTime: 600}, Testnet: api.TargetBlockTime{TargetBlockTime: 120}},
		readOnly:     make(map[string]ReadOnlyHandler),
		rewardsTotal: make(map[string]*api.RewardsTotal),
		rewards:      make(map[string]*api.BurnchainRewardList),
		slotHolders:  make(map[string]*api.RewardSlotHolderList),
		broadcast: func([]byte) (int, any) {
			return http.StatusOK, DefaultTxID
		},
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}}
}

func (b *NodeBuilder) WithPoxInfo(info *pox.Info) *NodeBuilder {
	b.node.poxInfo = info
	return b
}

func (b *NodeBuilder) WithCoreInfo(info *api.CoreInfo) *NodeBuilder {
	b.node.coreInfo = info
	return b
}

// WithDataVar sets a data var of contract, given as "address.name".
func (b *NodeBuilder) WithDataVar(contract, name string, value clarity.Value) *NodeBuilder {
	b.node.dataVars[contract+"/"+name] = value
	return b
}

func (b *NodeBuilder) WithAccount(addr string, account *api.Account) *NodeBuilder {
	b.node.accounts[addr] = account
	return b
}

func (b *NodeBuilder) WithBalances(addr string, balances *api.ExtendedBalances) *NodeBuilder {
	b.node.balances[addr] = balances
	return b
}

func (b *NodeBuilder) WithBlockTimes(times *api.NetworkBlockTimes) *NodeBuilder {
	b.node.blockTimes = times
	return b
}

// WithReadOnly answers calls to function on any contract.
func (b *NodeBuilder) WithReadOnly(function string, handler ReadOnlyHandler) *NodeBuilder {
	b.node.readOnly[function] = handler
	return b
}

// WithReadOnlyResult answers calls to function with a fixed value.
func (b *NodeBuilder) WithReadOnlyResult(function string, value clarity.Value) *NodeBuilder {
	encoded := clarity.MustEncodeHex(value)
	return b.WithReadOnly(function, func(string, []string) api.ReadOnlyResult {
		return api.ReadOnlyResult{Okay: true, Result: encoded}
	})
}

func (b *NodeBuilder) WithBroadcast(handler BroadcastHandler) *NodeBuilder {
	if handler == nil {
		panic("broadcast handler cannot be nil")
	}
	b.node.broadcast = handler
	return b
}

func (b *NodeBuilder) WithRewards(btcAddr string, total *api.RewardsTotal, list *api.BurnchainRewardList) *NodeBuilder {
	b.node.rewardsTotal[btcAddr] = total
	b.node.rewards[btcAddr] = list
	return b
}

func (b *NodeBuilder) WithRewardSlotHolders(btcAddr string, holders *api.RewardSlotHolderList) *NodeBuilder {
	b.node.slotHolders[btcAddr] = holders
	return b
}

// WithRouteFailure answers every request to the named route with status.
// Route names are the keys reported by Calls.
func (b *NodeBuilder) WithRouteFailure(route string, status int) *NodeBuilder {
	b.node.failures[route] = status
	return b
}

// Build returns the configured node, not yet started.
func (b *NodeBuilder) Build() (Node, error) {
	return b.node, nil
}

// Convenience constructors

// NewDefaultNode creates a node with no pox snapshot
func NewDefaultNode() (Node, error) {
	return NewNodeBuilder().Build()
}
