// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stxkit/stacker/api"
	"github.com/stxkit/stacker/pox"
)

// periodView is the printable form of a resolved period.
type periodView struct {
	Period           pox.Period           `json:"period"`
	StackingContract string               `json:"stackingContract"`
	Live             bool                 `json:"live"`
	Legacy           pox.ContractVersion  `json:"legacy"`
	Current          *pox.ContractVersion `json:"current,omitempty"`
}

func newPeriodView(op *pox.OperationInfo) *periodView {
	return &periodView{
		Period:           op.Period,
		StackingContract: op.StackingContract(),
		Live:             op.Live(),
		Legacy:           op.Legacy,
		Current:          op.Current,
	}
}

type cycleView struct {
	TargetBlockTime   string `json:"targetBlockTime"`
	CycleDuration     string `json:"cycleDuration"`
	UntilNextCycle    string `json:"untilNextCycle"`
	EnabledNextCycle  bool   `json:"enabledNextCycle"`
	MinimumAmountUstx uint64 `json:"minimumAmountUstx"`
}

type balanceView struct {
	Address       string                `json:"address"`
	Balance       *big.Int              `json:"balance"`
	Locked        *big.Int              `json:"locked"`
	UnlockHeight  uint64                `json:"unlockHeight"`
	Nonce         uint64                `json:"nonce"`
	HasMinimumStx bool                  `json:"hasMinimumStx"`
	Extended      *api.ExtendedBalances `json:"extended,omitempty"`
}

type rewardsView struct {
	Total   *api.RewardsTotal        `json:"total"`
	Rewards *api.BurnchainRewardList `json:"rewards"`
}

func readCommands() []cli.Command {
	return []cli.Command{
		{
			Name:   "info",
			Usage:  "show the node's PoX and chain info with the resolved period",
			Action: action(runInfo),
		},
		{
			Name:   "period",
			Usage:  "show the PoX period and the contract new calls go to",
			Action: action(runPeriod),
		},
		{
			Name:   "cycle",
			Usage:  "show reward cycle timing",
			Action: action(runCycle),
		},
		{
			Name:   "balance",
			Usage:  "show the account balances",
			Flags:  []cli.Flag{extendedFlag},
			Action: action(runBalance),
		},
		{
			Name:   "status",
			Usage:  "show the account's stacking state",
			Action: action(runStatus),
		},
		{
			Name:   "delegation",
			Usage:  "show the account's delegation",
			Action: action(runDelegation),
		},
		{
			Name:   "can-stack",
			Usage:  "check whether the account can stack its balance",
			Flags:  []cli.Flag{poxAddressFlag, cyclesFlag},
			Action: action(runCanStack),
		},
		{
			Name:   "reward-set",
			Usage:  "look up a reward set entry",
			Flags:  []cli.Flag{contractFlag, rewardCycleFlag, rewardIndexFlag},
			Action: action(runRewardSet),
		},
		{
			Name:   "rewards",
			Usage:  "list burnchain rewards paid to a bitcoin address",
			Flags:  []cli.Flag{btcAddressFlag, limitFlag, offsetFlag},
			Action: action(runRewards),
		},
		{
			Name:   "reward-holders",
			Usage:  "list reward slots won by a bitcoin address",
			Flags:  []cli.Flag{btcAddressFlag, limitFlag, offsetFlag},
			Action: action(runRewardHolders),
		},
		{
			Name:      "broadcast",
			Usage:     "broadcast a signed transaction",
			ArgsUsage: "<hex>",
			Action:    action(runBroadcast),
		},
		{
			Name:      "raw",
			Usage:     "send a request to a node API path and print the response body",
			ArgsUsage: "<path>",
			Flags:     []cli.Flag{dataFlag},
			Action:    action(runRaw),
		},
	}
}

func runInfo(ctx context.Context, c *cli.Context, s *session) error {
	var (
		info *pox.Info
		core *api.CoreInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = s.client.PoxInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		core, err = s.client.CoreInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	op, err := s.client.PoxOperationInfo(ctx, info)
	if err != nil {
		return err
	}
	return printJSON(c, struct {
		Network string        `json:"network"`
		Core    *api.CoreInfo `json:"core"`
		Pox     *pox.Info     `json:"pox"`
		Period  *periodView   `json:"period"`
	}{s.network.Name, core, info, newPeriodView(op)})
}

func runPeriod(ctx context.Context, c *cli.Context, s *session) error {
	op, err := s.client.PoxOperationInfo(ctx, nil)
	if err != nil {
		return err
	}
	return printJSON(c, newPeriodView(op))
}

func runCycle(ctx context.Context, c *cli.Context, s *session) error {
	var (
		view      cycleView
		blockTime time.Duration
		cycle     time.Duration
		next      time.Duration
		info      *pox.Info
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		blockTime, err = s.client.TargetBlockTime(gctx)
		return err
	})
	g.Go(func() (err error) {
		cycle, err = s.client.CycleDuration(gctx)
		return err
	})
	g.Go(func() (err error) {
		next, err = s.client.SecondsUntilNextCycle(gctx)
		return err
	})
	g.Go(func() (err error) {
		info, err = s.client.PoxInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	view.TargetBlockTime = blockTime.String()
	view.CycleDuration = cycle.String()
	view.UntilNextCycle = next.String()
	view.EnabledNextCycle = info.StackingEnabledNextCycle()
	view.MinimumAmountUstx = info.MinAmountUstx
	return printJSON(c, &view)
}

func runBalance(ctx context.Context, c *cli.Context, s *session) error {
	if err := s.requireAddress(); err != nil {
		return err
	}
	account, err := s.client.AccountStatus(ctx)
	if err != nil {
		return err
	}
	enough, err := s.client.HasMinimumStx(ctx)
	if err != nil {
		return err
	}
	view := balanceView{
		Address:       s.client.Address().String(),
		Balance:       account.BalanceBig(),
		Locked:        account.LockedBig(),
		UnlockHeight:  account.UnlockHeight,
		Nonce:         account.Nonce,
		HasMinimumStx: enough,
	}
	if c.Bool(extendedFlag.Name) {
		if view.Extended, err = s.client.AccountExtendedBalances(ctx); err != nil {
			return err
		}
	}
	return printJSON(c, &view)
}

func runStatus(ctx context.Context, c *cli.Context, s *session) error {
	if err := s.requireAddress(); err != nil {
		return err
	}
	status, err := s.client.Status(ctx)
	if err != nil {
		return err
	}
	return printJSON(c, status)
}

func runDelegation(ctx context.Context, c *cli.Context, s *session) error {
	if err := s.requireAddress(); err != nil {
		return err
	}
	status, err := s.client.DelegationStatus(ctx)
	if err != nil {
		return err
	}
	return printJSON(c, status)
}

func runCanStack(ctx context.Context, c *cli.Context, s *session) error {
	if err := s.requireAddress(); err != nil {
		return err
	}
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return err
	}
	eligibility, err := s.client.CanStack(ctx, addr, c.Uint64(cyclesFlag.Name))
	if err != nil {
		return err
	}
	return printJSON(c, eligibility)
}

func runRewardSet(ctx context.Context, c *cli.Context, s *session) error {
	contract := c.String(contractFlag.Name)
	if contract == "" {
		info, err := s.client.PoxInfo(ctx)
		if err != nil {
			return err
		}
		contract = info.ContractID
	}
	entry, err := s.client.RewardSet(ctx, contract, c.Uint64(rewardCycleFlag.Name), c.Uint64(rewardIndexFlag.Name))
	if err != nil {
		return err
	}
	return printJSON(c, entry)
}

func runRewards(ctx context.Context, c *cli.Context, s *session) error {
	btc, err := requiredString(c, btcAddressFlag)
	if err != nil {
		return err
	}
	var view rewardsView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Total, err = s.client.RewardsTotal(gctx, btc)
		return err
	})
	g.Go(func() (err error) {
		view.Rewards, err = s.client.Rewards(gctx, btc, pagination(c))
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return printJSON(c, &view)
}

func runRewardHolders(ctx context.Context, c *cli.Context, s *session) error {
	btc, err := requiredString(c, btcAddressFlag)
	if err != nil {
		return err
	}
	holders, err := s.client.RewardHolders(ctx, btc, pagination(c))
	if err != nil {
		return err
	}
	return printJSON(c, holders)
}

func runBroadcast(ctx context.Context, c *cli.Context, s *session) error {
	arg := strings.TrimSpace(c.Args().First())
	if arg == "" {
		return errors.New("a signed transaction is required")
	}
	if !strings.HasPrefix(arg, "0x") {
		arg = "0x" + arg
	}
	raw, err := hexutil.Decode(arg)
	if err != nil {
		return errors.Wrap(err, "decode transaction")
	}
	result, err := s.node.Broadcast(ctx, raw)
	if err != nil {
		return err
	}
	return printJSON(c, result)
}

// runRaw GETs the path, or POSTs --data to it, and prints the body as is.
func runRaw(ctx context.Context, c *cli.Context, s *session) error {
	path := strings.TrimSpace(c.Args().First())
	if path == "" {
		return errors.New("a node API path is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	conn := s.node.RawHTTPClient()
	var (
		body   []byte
		status int
		err    error
	)
	if data := c.String(dataFlag.Name); data != "" {
		if !json.Valid([]byte(data)) {
			return errors.Errorf("--%s is not valid JSON", dataFlag.Name)
		}
		body, status, err = conn.RawHTTPPost(ctx, path, json.RawMessage(data))
	} else {
		body, status, err = conn.RawHTTPGet(ctx, path)
	}
	if err != nil {
		return err
	}
	body = bytes.TrimSpace(body)
	if status < 200 || status > 299 {
		return errors.Errorf("%s: node returned status %d: %s", path, status, body)
	}
	_, err = c.App.Writer.Write(append(body, '\n'))
	return err
}

func pagination(c *cli.Context) *api.Pagination {
	return &api.Pagination{Limit: c.Uint64(limitFlag.Name), Offset: c.Uint64(offsetFlag.Name)}
}

func requiredString(c *cli.Context, f cli.StringFlag) (string, error) {
	v := strings.TrimSpace(c.String(f.Name))
	if v == "" {
		return "", errors.Errorf("--%s is required", f.Name)
	}
	return v, nil
}
