// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stxkit/stacker/stacking"
)

// txFlags are accepted by every write command.
var txFlags = []cli.Flag{nonceFlag, dryRunFlag}

// intentFunc turns the command's flags into an intent.
type intentFunc func(ctx context.Context, c *cli.Context, s *session) (stacking.Intent, error)

func writeCommand(name, usage string, flags []cli.Flag, build intentFunc) cli.Command {
	return cli.Command{
		Name:   name,
		Usage:  usage,
		Flags:  append(flags, txFlags...),
		Action: action(submitter(build)),
	}
}

func writeCommands() []cli.Command {
	return []cli.Command{
		writeCommand("stack", "lock STX for a number of reward cycles",
			[]cli.Flag{amountFlag, poxAddressFlag, burnHeightFlag, cyclesFlag, feeFlag}, lockIntent),
		writeCommand("extend", "extend the active lock",
			[]cli.Flag{cyclesFlag, poxAddressFlag}, extendIntent),
		writeCommand("increase", "add STX to the active lock",
			[]cli.Flag{increaseByFlag}, increaseIntent),
		writeCommand("delegate", "allow a pool operator to stack on the account's behalf",
			[]cli.Flag{amountFlag, delegateToFlag, untilBurnHeightFlag, poxAddressFlag}, delegateIntent),
		writeCommand("delegate-stack", "lock a delegator's STX as the pool operator",
			[]cli.Flag{stackerFlag, amountFlag, poxAddressFlag, burnHeightFlag, cyclesFlag}, delegateStackIntent),
		writeCommand("delegate-extend", "extend a delegator's lock as the pool operator",
			[]cli.Flag{stackerFlag, poxAddressFlag, cyclesFlag}, delegateExtendIntent),
		writeCommand("delegate-increase", "add to a delegator's lock as the pool operator",
			[]cli.Flag{stackerFlag, poxAddressFlag, increaseByFlag}, delegateIncreaseIntent),
		writeCommand("aggregate-commit", "commit the pool's partially stacked STX for a reward cycle",
			[]cli.Flag{poxAddressFlag, rewardCycleFlag, indexedFlag}, aggregateCommitIntent),
		writeCommand("aggregate-increase", "add the pool's partially stacked STX to a committed entry",
			[]cli.Flag{poxAddressFlag, rewardCycleFlag, rewardIndexFlag}, aggregateIncreaseIntent),
		writeCommand("revoke", "revoke the account's delegation",
			nil, revokeIntent),
	}
}

// submitter builds the intent, then prints the prepared call on --dry-run or
// signs and broadcasts it.
func submitter(build intentFunc) func(ctx context.Context, c *cli.Context, s *session) error {
	return func(ctx context.Context, c *cli.Context, s *session) error {
		intent, err := build(ctx, c, s)
		if err != nil {
			return err
		}
		call, err := s.client.Prepare(ctx, intent)
		if err != nil {
			return err
		}
		if c.IsSet(feeFlag.Name) {
			fee, err := amount(c, feeFlag)
			if err != nil {
				return err
			}
			if err := call.DeductFee(fee); err != nil {
				return err
			}
		}
		if c.Bool(dryRunFlag.Name) {
			return printJSON(c, call)
		}

		if s.cfg.Signer == "" {
			return errors.New("no signer configured, set --signer or use --dry-run")
		}
		key, err := requirePrivateKey(s.cfg)
		if err != nil {
			return err
		}
		result, err := s.client.Submit(ctx, call, key)
		if err != nil {
			return err
		}
		return printJSON(c, result)
	}
}

func txOptions(c *cli.Context) stacking.Options {
	if c.IsSet(nonceFlag.Name) {
		return stacking.WithNonce(c.Uint64(nonceFlag.Name))
	}
	return stacking.Options{}
}

// amount parses a non-negative decimal micro-STX amount.
func amount(c *cli.Context, f cli.StringFlag) (*big.Int, error) {
	s, err := requiredString(c, f)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("--%s: invalid amount %q", f.Name, s)
	}
	return v, nil
}

// burnHeight returns --burn-height or the node's current burn height.
func burnHeight(ctx context.Context, c *cli.Context, s *session) (uint64, error) {
	if c.IsSet(burnHeightFlag.Name) {
		return c.Uint64(burnHeightFlag.Name), nil
	}
	core, err := s.client.CoreInfo(ctx)
	if err != nil {
		return 0, err
	}
	return core.BurnBlockHeight, nil
}

func lockIntent(ctx context.Context, c *cli.Context, s *session) (stacking.Intent, error) {
	amt, err := amount(c, amountFlag)
	if err != nil {
		return nil, err
	}
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	height, err := burnHeight(ctx, c, s)
	if err != nil {
		return nil, err
	}
	return stacking.Lock{
		Options:         txOptions(c),
		Amount:          amt,
		PoxAddress:      addr,
		BurnBlockHeight: height,
		Cycles:          c.Uint64(cyclesFlag.Name),
	}, nil
}

func extendIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	return stacking.ExtendLock{
		Options:      txOptions(c),
		ExtendCycles: c.Uint64(cyclesFlag.Name),
		PoxAddress:   addr,
	}, nil
}

func increaseIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	by, err := amount(c, increaseByFlag)
	if err != nil {
		return nil, err
	}
	return stacking.IncreaseLock{Options: txOptions(c), IncreaseBy: by}, nil
}

func delegateIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	amt, err := amount(c, amountFlag)
	if err != nil {
		return nil, err
	}
	to, err := requiredString(c, delegateToFlag)
	if err != nil {
		return nil, err
	}
	in := stacking.Delegate{
		Options:    txOptions(c),
		Amount:     amt,
		DelegateTo: to,
		PoxAddress: strings.TrimSpace(c.String(poxAddressFlag.Name)),
	}
	if c.IsSet(untilBurnHeightFlag.Name) {
		until := c.Uint64(untilBurnHeightFlag.Name)
		in.UntilBurnBlockHeight = &until
	}
	return in, nil
}

func delegateStackIntent(ctx context.Context, c *cli.Context, s *session) (stacking.Intent, error) {
	stacker, err := requiredString(c, stackerFlag)
	if err != nil {
		return nil, err
	}
	amt, err := amount(c, amountFlag)
	if err != nil {
		return nil, err
	}
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	height, err := burnHeight(ctx, c, s)
	if err != nil {
		return nil, err
	}
	return stacking.DelegateStack{
		Options:         txOptions(c),
		Stacker:         stacker,
		Amount:          amt,
		PoxAddress:      addr,
		BurnBlockHeight: height,
		Cycles:          c.Uint64(cyclesFlag.Name),
	}, nil
}

func delegateExtendIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	stacker, err := requiredString(c, stackerFlag)
	if err != nil {
		return nil, err
	}
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	return stacking.DelegateExtend{
		Options:     txOptions(c),
		Stacker:     stacker,
		PoxAddress:  addr,
		ExtendCount: c.Uint64(cyclesFlag.Name),
	}, nil
}

func delegateIncreaseIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	stacker, err := requiredString(c, stackerFlag)
	if err != nil {
		return nil, err
	}
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	by, err := amount(c, increaseByFlag)
	if err != nil {
		return nil, err
	}
	return stacking.DelegateIncrease{
		Options:    txOptions(c),
		Stacker:    stacker,
		PoxAddress: addr,
		IncreaseBy: by,
	}, nil
}

func aggregateCommitIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	cycle := c.Uint64(rewardCycleFlag.Name)
	if c.Bool(indexedFlag.Name) {
		return stacking.AggregateCommitIndexed{Options: txOptions(c), PoxAddress: addr, RewardCycle: cycle}, nil
	}
	return stacking.AggregateCommit{Options: txOptions(c), PoxAddress: addr, RewardCycle: cycle}, nil
}

func aggregateIncreaseIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	addr, err := requiredString(c, poxAddressFlag)
	if err != nil {
		return nil, err
	}
	return stacking.AggregateIncrease{
		Options:     txOptions(c),
		PoxAddress:  addr,
		RewardCycle: c.Uint64(rewardCycleFlag.Name),
		RewardIndex: c.Uint64(rewardIndexFlag.Name),
	}, nil
}

func revokeIntent(_ context.Context, c *cli.Context, _ *session) (stacking.Intent, error) {
	return stacking.RevokeDelegation{Options: txOptions(c)}, nil
}
