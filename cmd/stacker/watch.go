// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stxkit/stacker/cmd/stacker/httpserver"
	"github.com/stxkit/stacker/co"
	"github.com/stxkit/stacker/log"
	"github.com/stxkit/stacker/metrics"
	"github.com/stxkit/stacker/pox"
	"github.com/stxkit/stacker/stacking"
)

var (
	metricBurnHeight  = metrics.LazyLoadGauge("burn_block_height")
	metricRewardCycle = metrics.LazyLoadGauge("reward_cycle")
	metricPoxPeriod   = metrics.LazyLoadGaugeVec("pox_period", []string{"period"})
	metricLockedUstx  = metrics.LazyLoadGauge("locked_ustx")
)

var periods = []pox.Period{pox.Period1, pox.Period2a, pox.Period2b, pox.Period3}

func watchCommand() cli.Command {
	return cli.Command{
		Name:   "watch",
		Usage:  "poll the PoX period and the account's stacking state",
		Flags:  []cli.Flag{intervalFlag},
		Action: action(runWatch),
	}
}

// watcher logs period and stacking transitions and keeps the gauges current.
type watcher struct {
	client  *stacking.Client
	period  pox.Period
	stacked *bool
}

func (w *watcher) poll(ctx context.Context) {
	info, err := w.client.PoxInfo(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("unable to read pox info", "err", err)
		}
		return
	}
	op, err := w.client.PoxOperationInfo(ctx, info)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("unable to resolve pox period", "err", err)
		}
		return
	}

	if info.CurrentBurnchainBlockHeight != nil {
		metricBurnHeight().Set(int64(*info.CurrentBurnchainBlockHeight))
	}
	metricRewardCycle().Set(int64(info.RewardCycleID))
	for _, p := range periods {
		var v int64
		if p == op.Period {
			v = 1
		}
		metricPoxPeriod().SetWithLabel(v, map[string]string{"period": string(p)})
	}

	if op.Period != w.period {
		log.Info("pox period", "period", op.Period, "previous", w.period, "contract", op.StackingContract(), "cycle", info.RewardCycleID)
		w.period = op.Period
	}

	if w.client.Address().IsZero() {
		return
	}
	w.pollAccount(ctx)
}

func (w *watcher) pollAccount(ctx context.Context) {
	status, err := w.client.Status(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("unable to read stacking status", "address", w.client.Address(), "err", err)
		}
		return
	}
	if w.stacked == nil || *w.stacked != status.Stacked {
		kv := []any{"address", w.client.Address(), "stacked", status.Stacked}
		if status.Details != nil {
			kv = append(kv, "firstCycle", status.Details.FirstRewardCycle, "unlockHeight", status.Details.UnlockHeight)
		}
		log.Info("stacking status", kv...)
		stacked := status.Stacked
		w.stacked = &stacked
	}

	locked, err := w.client.AccountBalanceLocked(ctx)
	if err != nil {
		return
	}
	if locked.IsInt64() {
		metricLockedUstx().Set(locked.Int64())
	}
}

func runWatch(ctx context.Context, c *cli.Context, s *session) error {
	interval := c.Duration(intervalFlag.Name)
	if interval <= 0 {
		return errors.New("--interval must be positive")
	}
	if s.cfg.metricsEnabled() {
		url, closeFunc, err := httpserver.StartMetricsServer(s.cfg.MetricsAddr)
		if err != nil {
			return err
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	w := &watcher{client: s.client}
	var goes co.Goes
	goes.Every(ctx, interval, w.poll)

	<-ctx.Done()
	goes.Wait()
	return nil
}
