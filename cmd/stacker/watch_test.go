// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/pox"
	"github.com/stxkit/stacker/stacking"
	"github.com/stxkit/stacker/stx"
	"github.com/stxkit/stacker/stxclient"
)

func TestWatcherTracksPeriodAndStatus(t *testing.T) {
	node := forkedNode(t)
	network := stx.Mocknet(node.APIServer().URL)
	client := stacking.New(stx.MustParseAddress(stacker), network, stxclient.NewForNetwork(network))
	w := &watcher{client: client}

	// no stacker info handler yet, the account poll fails quietly
	w.poll(context.Background())
	assert.Equal(t, pox.Period2a, w.period)
	assert.Nil(t, w.stacked)

	node.SetDataVar(pox2ID, pox.ConfiguredVar, clarity.Bool(false))
	w.poll(context.Background())
	assert.Equal(t, pox.Period1, w.period)
}

func TestWatcherStackingStatus(t *testing.T) {
	node := startNode(t, forkedBuilder().WithReadOnlyResult("get-stacker-info", clarity.None{}))
	network := stx.Mocknet(node.APIServer().URL)
	client := stacking.New(stx.MustParseAddress(stacker), network, stxclient.NewForNetwork(network))
	w := &watcher{client: client}

	w.pollAccount(context.Background())
	require.NotNil(t, w.stacked)
	assert.False(t, *w.stacked)
	assert.Equal(t, 1, node.Calls()["call_read"])
}
