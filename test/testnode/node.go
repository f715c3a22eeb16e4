package testnode

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/pox"
)

// ReadOnlyHandler answers a read-only contract call. Arguments are the hex
// encoded values sent by the client.
type ReadOnlyHandler func(contract string, args []string) api.ReadOnlyResult

// BroadcastHandler answers a transaction submission with a status and body.
type BroadcastHandler func(raw []byte) (int, any)

// Node is an in-process fake of the node read API and the extended API.
type Node interface {
	// Start serves the API on a local httptest server
	Start() error

	// Stop shuts the server down
	Stop() error

	// APIServer returns the running server
	APIServer() *httptest.Server

	// SetPoxInfo replaces the snapshot returned by /v2/pox
	SetPoxInfo(info *pox.Info)

	// SetDataVar replaces a data var; a nil value removes it
	SetDataVar(contract, name string, value clarity.Value)

	// SetAccount replaces an account
	SetAccount(addr string, account *api.Account)

	// Transactions returns every raw transaction received so far
	Transactions() [][]byte

	// Calls returns how many times each route was requested
	Calls() map[string]int
}

type node struct {
	mu sync.Mutex

	poxInfo      *pox.Info
	coreInfo     *api.CoreInfo
	dataVars     map[string]clarity.Value
	accounts     map[string]*api.Account
	balances     map[string]*api.ExtendedBalances
	blockTimes   *api.NetworkBlockTimes
	readOnly     map[string]ReadOnlyHandler
	broadcast    BroadcastHandler
	rewardsTotal map[string]*api.RewardsTotal
	rewards      map[string]*api.BurnchainRewardList
	slotHolders  map[string]*api.RewardSlotHolderList
	failures     map[string]int

	transactions [][]byte
	calls        map[string]int
	apiServer    *httptest.Server
}

func (n *node) Start() error {
	if n.apiServer != nil {
		return errors.New("node is already running")
	}
	n.apiServer = httptest.NewServer(n.router())
	return nil
}

func (n *node) Stop() error {
	if n.apiServer == nil {
		return errors.New("node is not running")
	}
	n.apiServer.Close()
	n.apiServer = nil
	return nil
}

func (n *node) APIServer() *httptest.Server {
	return n.apiServer
}

func (n *node) SetPoxInfo(info *pox.Info) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.poxInfo = info
}

func (n *node) SetDataVar(contract, name string, value clarity.Value) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if value == nil {
		delete(n.dataVars, contract+"/"+name)
		return
	}
	n.dataVars[contract+"/"+name] = value
}

func (n *node) SetAccount(addr string, account *api.Account) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts[addr] = account
}

func (n *node) Transactions() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.transactions...)
}

func (n *node) Calls() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	calls := make(map[string]int, len(n.calls))
	for k, v := range n.calls {
		calls[k] = v
	}
	return calls
}

func (n *node) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(n.count)

	r.Path("/v2/pox").Methods(http.MethodGet).Name("pox").HandlerFunc(n.handlePox)
	r.Path("/v2/info").Methods(http.MethodGet).Name("info").HandlerFunc(n.handleInfo)
	r.Path("/v2/accounts/{address}").Methods(http.MethodGet).Name("accounts").HandlerFunc(n.handleAccount)
	r.Path("/v2/data_var/{address}/{contract}/{var}").Methods(http.MethodGet).Name("data_var").HandlerFunc(n.handleDataVar)
	r.Path("/v2/contracts/call-read/{address}/{contract}/{function}").Methods(http.MethodPost).Name("call_read").HandlerFunc(n.handleCallRead)
	r.Path("/v2/transactions").Methods(http.MethodPost).Name("transactions").HandlerFunc(n.handleTransaction)

	r.Path("/extended/v1/info/network_block_times").Methods(http.MethodGet).Name("network_block_times").HandlerFunc(n.handleBlockTimes)
	r.Path("/extended/v1/address/{address}/balances").Methods(http.MethodGet).Name("balances").HandlerFunc(n.handleBalances)
	r.Path("/extended/v1/burnchain/rewards/{address}/total").Methods(http.MethodGet).Name("rewards_total").HandlerFunc(n.handleRewardsTotal)
	r.Path("/extended/v1/burnchain/rewards/{address}").Methods(http.MethodGet).Name("rewards").HandlerFunc(n.handleRewards)
	r.Path("/extended/v1/burnchain/reward_slot_holders/{address}").Methods(http.MethodGet).Name("reward_slot_holders").HandlerFunc(n.handleSlotHolders)
	return r
}

func (n *node) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			n.mu.Lock()
			n.calls[route.GetName()]++
			status, fail := n.failures[route.GetName()]
			n.mu.Unlock()
			if fail {
				writeJSON(w, status, &api.ErrorBody{Error: http.StatusText(status)})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (n *node) handlePox(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	info := n.poxInfo
	n.mu.Unlock()
	writeJSONOrNotFound(w, info, info == nil)
}

func (n *node) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSONOrNotFound(w, n.coreInfo, n.coreInfo == nil)
}

func (n *node) handleAccount(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	account, ok := n.accounts[mux.Vars(r)["address"]]
	n.mu.Unlock()
	if !ok {
		// the node reports unknown accounts as empty
		account = &api.Account{}
	}
	writeJSON(w, http.StatusOK, account)
}

func (n *node) handleDataVar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n.mu.Lock()
	value, ok := n.dataVars[vars["address"]+"."+vars["contract"]+"/"+vars["var"]]
	n.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Data var not found"))
		return
	}
	writeJSON(w, http.StatusOK, &api.DataVar{Data: clarity.MustEncodeHex(value)})
}

func (n *node) handleCallRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	handler, ok := n.readOnly[vars["function"]]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("No contract analysis found or trait definition not found"))
		return
	}
	var call api.ReadOnlyCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	result := handler(vars["address"]+"."+vars["contract"], call.Arguments)
	writeJSON(w, http.StatusOK, &result)
}

func (n *node) handleTransaction(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.transactions = append(n.transactions, raw)
	n.mu.Unlock()

	status, body := n.broadcast(raw)
	writeJSON(w, status, body)
}

func (n *node) handleBlockTimes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, n.blockTimes)
}

func (n *node) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, ok := n.balances[mux.Vars(r)["address"]]
	writeJSONOrNotFound(w, balances, !ok)
}

func (n *node) handleRewardsTotal(w http.ResponseWriter, r *http.Request) {
	total, ok := n.rewardsTotal[mux.Vars(r)["address"]]
	writeJSONOrNotFound(w, total, !ok)
}

func (n *node) handleRewards(w http.ResponseWriter, r *http.Request) {
	rewards, ok := n.rewards[mux.Vars(r)["address"]]
	writeJSONOrNotFound(w, rewards, !ok)
}

func (n *node) handleSlotHolders(w http.ResponseWriter, r *http.Request) {
	holders, ok := n.slotHolders[mux.Vars(r)["address"]]
	writeJSONOrNotFound(w, holders, !ok)
}

func writeJSONOrNotFound(w http.ResponseWriter, v any, missing bool) {
	if missing {
		writeJSON(w, http.StatusNotFound, &api.ErrorBody{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
