// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client for the node read API and the
// extended API. Every method maps to one endpoint and returns its decoded JSON
// body; responses other than 200 surface as *stx.RemoteReadError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/pox"
	"github.com/stxkit/stacker/stx"
)

// Client is the HTTP client implementation for the node API.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimRight(url, "/"),
		c:   c,
	}
}

// URL returns the base URL the client talks to.
func (c *Client) URL() string {
	return c.url
}

// GetPoxInfo retrieves the protocol snapshot at the node's current height.
func (c *Client) GetPoxInfo(ctx context.Context) (*pox.Info, error) {
	body, err := c.httpGET(ctx, "pox", c.url+"/v2/pox")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pox info - %w", err)
	}

	var info pox.Info
	if err = json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unable to unmarshal pox info - %w", err)
	}
	return &info, nil
}

// GetCoreInfo retrieves the node's chain tip information.
func (c *Client) GetCoreInfo(ctx context.Context) (*api.CoreInfo, error) {
	body, err := c.httpGET(ctx, "info", c.url+"/v2/info")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve core info - %w", err)
	}

	var info api.CoreInfo
	if err = json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unable to unmarshal core info - %w", err)
	}
	return &info, nil
}

// GetAccount retrieves the balance, lock and nonce of addr.
func (c *Client) GetAccount(ctx context.Context, addr stx.Address) (*api.Account, error) {
	body, err := c.httpGET(ctx, "accounts", c.url+"/v2/accounts/"+addr.String()+"?proof=0")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}

	var account api.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// GetDataVar retrieves a contract data var. A var that does not exist is a
// 404 and matches stx.ErrNotFound.
func (c *Client) GetDataVar(ctx context.Context, contract stx.ContractID, name string) (*api.DataVar, error) {
	path := fmt.Sprintf("/v2/data_var/%s/%s/%s?proof=0", contract.Address, contract.Name, url.PathEscape(name))
	body, err := c.httpGET(ctx, "data_var", c.url+path)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data var - %w", err)
	}

	var dataVar api.DataVar
	if err = json.Unmarshal(body, &dataVar); err != nil {
		return nil, fmt.Errorf("unable to unmarshal data var - %w", err)
	}
	return &dataVar, nil
}

// CallReadOnly evaluates a read-only contract function. The result is returned
// as reported; callers check Okay.
func (c *Client) CallReadOnly(ctx context.Context, contract stx.ContractID, function string, call *api.ReadOnlyCall) (*api.ReadOnlyResult, error) {
	path := fmt.Sprintf("/v2/contracts/call-read/%s/%s/%s", contract.Address, contract.Name, url.PathEscape(function))
	body, err := c.httpPOST(ctx, "call_read", c.url+path, call)
	if err != nil {
		return nil, fmt.Errorf("unable to call %s - %w", function, err)
	}

	var result api.ReadOnlyResult
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unable to unmarshal read-only result - %w", err)
	}
	return &result, nil
}

// SendTransaction submits a serialized signed transaction. A 400 answer is
// decoded into *stx.BroadcastRejectedError.
func (c *Client) SendTransaction(ctx context.Context, raw []byte) (*api.BroadcastResult, error) {
	target := c.url + "/v2/transactions"
	resp, err := c.rawRequest(ctx, "transactions", http.MethodPost, target, contentTypeOctet, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unable to send transaction - %w", &stx.RemoteReadError{URL: target, Body: err.Error()})
	}

	switch resp.status {
	case http.StatusOK:
		var txID string
		if err = json.Unmarshal(resp.body, &txID); err != nil {
			return nil, fmt.Errorf("unable to unmarshal transaction id - %w", err)
		}
		return &api.BroadcastResult{TxID: txID}, nil
	case http.StatusBadRequest:
		var rejection api.BroadcastRejection
		if err = json.Unmarshal(resp.body, &rejection); err != nil || rejection.Reason == "" {
			return nil, fmt.Errorf("unable to send transaction - %w", newRemoteReadError(target, resp))
		}
		return nil, &stx.BroadcastRejectedError{
			TxID:       rejection.TxID,
			Reason:     rejection.Reason,
			ReasonData: string(rejection.ReasonData),
		}
	default:
		return nil, fmt.Errorf("unable to send transaction - %w", newRemoteReadError(target, resp))
	}
}

// GetNetworkBlockTimes retrieves the target block time of each network.
func (c *Client) GetNetworkBlockTimes(ctx context.Context) (*api.NetworkBlockTimes, error) {
	body, err := c.httpGET(ctx, "network_block_times", c.url+"/extended/v1/info/network_block_times")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve network block times - %w", err)
	}

	var times api.NetworkBlockTimes
	if err = json.Unmarshal(body, &times); err != nil {
		return nil, fmt.Errorf("unable to unmarshal network block times - %w", err)
	}
	return &times, nil
}

// GetExtendedBalances retrieves the indexer view of addr's balances.
func (c *Client) GetExtendedBalances(ctx context.Context, addr stx.Address) (*api.ExtendedBalances, error) {
	body, err := c.httpGET(ctx, "balances", c.url+"/extended/v1/address/"+addr.String()+"/balances")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve balances - %w", err)
	}

	var balances api.ExtendedBalances
	if err = json.Unmarshal(body, &balances); err != nil {
		return nil, fmt.Errorf("unable to unmarshal balances - %w", err)
	}
	return &balances, nil
}

// GetRewardsTotal retrieves the sum of burnchain rewards paid to btcAddr.
func (c *Client) GetRewardsTotal(ctx context.Context, btcAddr string) (*api.RewardsTotal, error) {
	target := c.url + "/extended/v1/burnchain/rewards/" + url.PathEscape(btcAddr) + "/total"
	body, err := c.httpGET(ctx, "rewards_total", target)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve rewards total - %w", err)
	}

	var total api.RewardsTotal
	if err = json.Unmarshal(body, &total); err != nil {
		return nil, fmt.Errorf("unable to unmarshal rewards total - %w", err)
	}
	return &total, nil
}

// GetRewards retrieves one page of burnchain rewards paid to btcAddr.
func (c *Client) GetRewards(ctx context.Context, btcAddr string, page *api.Pagination) (*api.BurnchainRewardList, error) {
	target := c.url + "/extended/v1/burnchain/rewards/" + url.PathEscape(btcAddr) + paginationQuery(page)
	body, err := c.httpGET(ctx, "rewards", target)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve rewards - %w", err)
	}

	var rewards api.BurnchainRewardList
	if err = json.Unmarshal(body, &rewards); err != nil {
		return nil, fmt.Errorf("unable to unmarshal rewards - %w", err)
	}
	return &rewards, nil
}

// GetRewardSlotHolders retrieves one page of reward slots won by btcAddr.
func (c *Client) GetRewardSlotHolders(ctx context.Context, btcAddr string, page *api.Pagination) (*api.RewardSlotHolderList, error) {
	target := c.url + "/extended/v1/burnchain/reward_slot_holders/" + url.PathEscape(btcAddr) + paginationQuery(page)
	body, err := c.httpGET(ctx, "reward_slot_holders", target)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward slot holders - %w", err)
	}

	var holders api.RewardSlotHolderList
	if err = json.Unmarshal(body, &holders); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward slot holders - %w", err)
	}
	return &holders, nil
}

// RawHTTPGet sends a GET to path and returns the body and status code unchecked.
func (c *Client) RawHTTPGet(ctx context.Context, path string) ([]byte, int, error) {
	resp, err := c.rawRequest(ctx, "raw", http.MethodGet, c.url+path, "", nil)
	if err != nil {
		return nil, 0, err
	}
	return resp.body, resp.status, nil
}

// RawHTTPPost sends calldata as JSON to path and returns the body and status code unchecked.
func (c *Client) RawHTTPPost(ctx context.Context, path string, calldata any) ([]byte, int, error) {
	var payload io.Reader
	if calldata != nil {
		data, err := json.Marshal(calldata)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
		payload = bytes.NewReader(data)
	}
	resp, err := c.rawRequest(ctx, "raw", http.MethodPost, c.url+path, contentTypeJSON, payload)
	if err != nil {
		return nil, 0, err
	}
	return resp.body, resp.status, nil
}

func paginationQuery(page *api.Pagination) string {
	if page == nil {
		return ""
	}
	q := url.Values{}
	if page.Limit > 0 {
		q.Set("limit", strconv.FormatUint(page.Limit, 10))
	}
	if page.Offset > 0 {
		q.Set("offset", strconv.FormatUint(page.Offset, 10))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
