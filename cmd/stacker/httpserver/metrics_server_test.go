// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/metrics"
)

func TestMetricsServerDisabled(t *testing.T) {
	_, _, err := StartMetricsServer("127.0.0.1:0")
	assert.ErrorContains(t, err, "not enabled")
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Gauge("burn_block_height").Set(107)

	url, closeFunc, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeFunc()
	assert.True(t, strings.HasSuffix(url, "/metrics"))

	client := &http.Client{}
	defer client.CloseIdleConnections()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "stacker_burn_block_height 107")
}

func TestMetricsServerBadAddr(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	_, _, err := StartMetricsServer("not-an-addr")
	assert.ErrorContains(t, err, "listen metrics API addr")
}
