// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	assert.Nil(t, noop.GetOrCreateHandler())

	assert.NotPanics(t, func() {
		noop.GetOrCreateCountMeter("c").Add(1)
		noop.GetOrCreateCountVecMeter("cv", []string{"endpoint"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
		noop.GetOrCreateGaugeMeter("g").Set(3)
		noop.GetOrCreateGaugeVecMeter("gv", nil).SetWithLabel(1, nil)
		noop.GetOrCreateHistogramVecMeter("h", nil, nil).ObserveWithLabels(5, map[string]string{"a": "b"})
	})
}
