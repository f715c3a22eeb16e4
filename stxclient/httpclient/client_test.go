// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/stx"
)

const testAddress = "STB44HYPYAT2BB2QE513NSP81HTMYWBJP02HPGK6"

func TestClient_GetPoxInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/pox", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"contract_id":"ST000000000000000000002AMW42H.pox-2","current_burnchain_block_height":130,"reward_cycle_length":5,"contract_versions":[{"contract_id":"ST000000000000000000002AMW42H.pox","activation_burnchain_block_height":0,"first_reward_cycle_id":0}]}`))
	}))
	defer ts.Close()

	info, err := New(ts.URL).GetPoxInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ST000000000000000000002AMW42H.pox-2", info.ContractID)
	assert.Equal(t, uint64(130), *info.CurrentBurnchainBlockHeight)
	assert.Len(t, info.ContractVersions, 1)
}

func TestClient_GetAccount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/accounts/"+testAddress, r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("proof"))
		w.Write([]byte(`{"balance":"0x0000000000000000001cdd7b11f6a0f0","locked":"0x00000000000000000006a9775dca3800","unlock_height":170,"nonce":1}`))
	}))
	defer ts.Close()

	account, err := New(ts.URL).GetAccount(context.Background(), stx.MustParseAddress(testAddress))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(8124819999990000), account.BalanceBig())
	assert.Equal(t, big.NewInt(1875180000000000), account.LockedBig())
	assert.Equal(t, uint64(170), account.UnlockHeight)
	assert.Equal(t, uint64(1), account.Nonce)
}

func TestClient_GetDataVar(t *testing.T) {
	contract := stx.MustParseContractID("ST000000000000000000002AMW42H.pox-2")

	t.Run("found", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/data_var/ST000000000000000000002AMW42H/pox-2/configured", r.URL.Path)
			w.Write([]byte(`{"data":"0x03"}`))
		}))
		defer ts.Close()

		dataVar, err := New(ts.URL).GetDataVar(context.Background(), contract, "configured")
		require.NoError(t, err)
		assert.Equal(t, "0x03", dataVar.Data)
	})

	t.Run("missing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Data var not found"))
		}))
		defer ts.Close()

		_, err := New(ts.URL).GetDataVar(context.Background(), contract, "configured")
		assert.ErrorIs(t, err, stx.ErrNotFound)
		assert.ErrorIs(t, err, stx.ErrRemoteRead)

		var remote *stx.RemoteReadError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusNotFound, remote.StatusCode)
		assert.Equal(t, "Data var not found", remote.Body)
	})
}

func TestClient_CallReadOnly(t *testing.T) {
	contract := stx.MustParseContractID("ST000000000000000000002AMW42H.pox")
	call := &api.ReadOnlyCall{Sender: testAddress, Arguments: []string{"0x051a" + "00"}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/contracts/call-read/ST000000000000000000002AMW42H/pox/get-stacker-info", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got api.ReadOnlyCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, *call, got)

		w.Write([]byte(`{"okay":true,"result":"0x09"}`))
	}))
	defer ts.Close()

	result, err := New(ts.URL).CallReadOnly(context.Background(), contract, "get-stacker-info", call)
	require.NoError(t, err)
	assert.True(t, result.Okay)
	assert.Equal(t, "0x09", result.Result)
}

func TestClient_SendTransaction(t *testing.T) {
	raw := []byte{0x80, 0x80, 0x00}

	t.Run("accepted", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/transactions", r.URL.Path)
			assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, raw, body)
			w.Write([]byte(`"0xabcdef"`))
		}))
		defer ts.Close()

		result, err := New(ts.URL).SendTransaction(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef", result.TxID)
	})

	t.Run("rejected", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"transaction rejected","reason":"BadNonce","reason_data":{"expected":3,"actual":1},"txid":"0x01"}`))
		}))
		defer ts.Close()

		_, err := New(ts.URL).SendTransaction(context.Background(), raw)
		assert.ErrorIs(t, err, stx.ErrBroadcastRejected)

		var rejected *stx.BroadcastRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "BadNonce", rejected.Reason)
		assert.Equal(t, "0x01", rejected.TxID)
		assert.JSONEq(t, `{"expected":3,"actual":1}`, rejected.ReasonData)
	})

	t.Run("server error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := New(ts.URL).SendTransaction(context.Background(), raw)
		assert.ErrorIs(t, err, stx.ErrRemoteRead)
		assert.NotErrorIs(t, err, stx.ErrBroadcastRejected)
	})
}

func TestClient_ExtendedEndpoints(t *testing.T) {
	const btc = "1Xik14zRm29UsyS6DjhYg4iZeZqsDa8D3"

	mux := http.NewServeMux()
	mux.HandleFunc("/extended/v1/info/network_block_times", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"mainnet":{"target_block_time":600},"testnet":{"target_block_time":120}}`))
	})
	mux.HandleFunc("/extended/v1/address/"+testAddress+"/balances", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stx":{"balance":"1000","locked":"500","burnchain_unlock_height":170},"fungible_tokens":{},"non_fungible_tokens":{}}`))
	})
	mux.HandleFunc("/extended/v1/burnchain/rewards/"+btc+"/total", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reward_recipient":"` + btc + `","reward_amount":"20000"}`))
	})
	mux.HandleFunc("/extended/v1/burnchain/rewards/"+btc, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"limit":5,"offset":10,"results":[{"canonical":true,"burn_block_height":130,"reward_amount":"10000","reward_index":1}]}`))
	})
	mux.HandleFunc("/extended/v1/burnchain/reward_slot_holders/"+btc, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"limit":20,"offset":0,"total":1,"results":[{"canonical":true,"address":"` + btc + `","slot_index":3}]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := New(ts.URL + "/")
	ctx := context.Background()

	times, err := client.GetNetworkBlockTimes(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), times.For(true))
	assert.Equal(t, uint64(120), times.For(false))

	balances, err := client.GetExtendedBalances(ctx, stx.MustParseAddress(testAddress))
	require.NoError(t, err)
	assert.Equal(t, uint64(170), balances.STX.BurnchainUnlockHeight)

	total, err := client.GetRewardsTotal(ctx, btc)
	require.NoError(t, err)
	assert.Equal(t, btc, total.RewardRecipient)

	rewards, err := client.GetRewards(ctx, btc, &api.Pagination{Limit: 5, Offset: 10})
	require.NoError(t, err)
	require.Len(t, rewards.Results, 1)
	assert.Equal(t, uint64(1), rewards.Results[0].RewardIndex)

	holders, err := client.GetRewardSlotHolders(ctx, btc, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), holders.Total)
	assert.Equal(t, uint64(3), holders.Results[0].SlotIndex)
}

func TestClient_RawHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusAccepted)
			w.Write(body)
			return
		}
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("raw"))
	}))
	defer ts.Close()

	client := New(ts.URL)

	body, status, err := client.RawHTTPGet(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, []byte("raw"), body)

	body, status, err = client.RawHTTPPost(context.Background(), "/anything", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func TestClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/info":
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}
	}))
	defer ts.Close()

	client := New(ts.URL)

	_, err := client.GetCoreInfo(context.Background())
	assert.ErrorContains(t, err, "unable to unmarshal core info")

	_, err = client.GetPoxInfo(context.Background())
	assert.ErrorIs(t, err, stx.ErrRemoteRead)
	assert.ErrorContains(t, err, "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.GetPoxInfo(ctx)
	assert.ErrorIs(t, err, stx.ErrRemoteRead)
}
