// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stxclient is the typed node client used by the stacking package. It
// wraps httpclient and turns hex encoded values into clarity values.
package stxclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/pox"
	"github.com/stxkit/stacker/stx"
	"github.com/stxkit/stacker/stxclient/httpclient"
)

type Client struct {
	httpConn *httpclient.Client
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient routes requests through c instead of http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func New(url string, opts ...Option) *Client {
	o := &options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		httpConn: httpclient.NewWithHTTP(url, o.httpClient),
	}
}

// NewForNetwork creates a client against the network's API URL.
func NewForNetwork(n stx.Network, opts ...Option) *Client {
	return New(n.APIURL, opts...)
}

// RawHTTPClient exposes the underlying connection for arbitrary API paths.
func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) PoxInfo(ctx context.Context) (*pox.Info, error) {
	return c.httpConn.GetPoxInfo(ctx)
}

func (c *Client) CoreInfo(ctx context.Context) (*api.CoreInfo, error) {
	return c.httpConn.GetCoreInfo(ctx)
}

func (c *Client) Account(ctx context.Context, addr stx.Address) (*api.Account, error) {
	return c.httpConn.GetAccount(ctx, addr)
}

// DataVar reads and decodes a contract data var.
func (c *Client) DataVar(ctx context.Context, contract stx.ContractID, name string) (clarity.Value, error) {
	dataVar, err := c.httpConn.GetDataVar(ctx, contract, name)
	if err != nil {
		return nil, err
	}
	v, err := clarity.DecodeHex(dataVar.Data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s.%s - %w", contract, name, err)
	}
	return v, nil
}

// CallReadOnly evaluates function on contract as sender and decodes the
// result. A call the node reports as failed is a *stx.RemoteReadError
// carrying the node's cause.
func (c *Client) CallReadOnly(ctx context.Context, contract stx.ContractID, function string, sender stx.Address, args ...clarity.Value) (clarity.Value, error) {
	call := &api.ReadOnlyCall{
		Sender:    sender.String(),
		Arguments: make([]string, 0, len(args)),
	}
	for i, arg := range args {
		encoded, err := clarity.EncodeHex(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to encode argument %d of %s - %w", i, function, err)
		}
		call.Arguments = append(call.Arguments, encoded)
	}

	result, err := c.httpConn.CallReadOnly(ctx, contract, function, call)
	if err != nil {
		return nil, err
	}
	if !result.Okay {
		return nil, &stx.RemoteReadError{
			URL:        fmt.Sprintf("%s/v2/contracts/call-read/%s/%s/%s", c.httpConn.URL(), contract.Address, contract.Name, function),
			StatusCode: http.StatusOK,
			Body:       result.Cause,
		}
	}

	v, err := clarity.DecodeHex(result.Result)
	if err != nil {
		return nil, fmt.Errorf("unable to decode result of %s - %w", function, err)
	}
	return v, nil
}

// Broadcast submits a signed transaction.
func (c *Client) Broadcast(ctx context.Context, raw []byte) (*api.BroadcastResult, error) {
	return c.httpConn.SendTransaction(ctx, raw)
}

func (c *Client) NetworkBlockTimes(ctx context.Context) (*api.NetworkBlockTimes, error) {
	return c.httpConn.GetNetworkBlockTimes(ctx)
}

func (c *Client) ExtendedBalances(ctx context.Context, addr stx.Address) (*api.ExtendedBalances, error) {
	return c.httpConn.GetExtendedBalances(ctx, addr)
}

func (c *Client) RewardsTotal(ctx context.Context, btcAddr string) (*api.RewardsTotal, error) {
	return c.httpConn.GetRewardsTotal(ctx, btcAddr)
}

func (c *Client) Rewards(ctx context.Context, btcAddr string, page *api.Pagination) (*api.BurnchainRewardList, error) {
	return c.httpConn.GetRewards(ctx, btcAddr, page)
}

func (c *Client) RewardSlotHolders(ctx context.Context, btcAddr string, page *api.Pagination) (*api.RewardSlotHolderList, error) {
	return c.httpConn.GetRewardSlotHolders(ctx, btcAddr, page)
}
