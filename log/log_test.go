// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"strings"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

var pkgLogger = WithContext("pkg", "logtest")

func TestInitAppliesToExistingLoggers(t *testing.T) {
	previous := ethlog.Root()
	defer ethlog.SetDefault(previous)

	var buf bytes.Buffer
	Init(&buf, 3, false)

	pkgLogger.Info("period resolved", "period", "Period2a")
	pkgLogger.Debug("hidden at info")
	Warn("top level", "n", 7)

	out := buf.String()
	assert.Contains(t, out, "period resolved")
	assert.Contains(t, out, "pkg=logtest")
	assert.Contains(t, out, "period=Period2a")
	assert.Contains(t, out, "n=7")
	assert.NotContains(t, out, "hidden at info")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestVerbosity(t *testing.T) {
	previous := ethlog.Root()
	defer ethlog.SetDefault(previous)

	var buf bytes.Buffer
	Init(&buf, 4, false)
	pkgLogger.Debug("shown at debug")
	pkgLogger.Trace("hidden at debug")
	assert.Contains(t, buf.String(), "shown at debug")
	assert.NotContains(t, buf.String(), "hidden at debug")

	buf.Reset()
	Init(&buf, 1, false)
	pkgLogger.Warn("hidden at error")
	pkgLogger.Error("shown at error")
	assert.NotContains(t, buf.String(), "hidden at error")
	assert.Contains(t, buf.String(), "shown at error")
}

func TestContextIsNotShared(t *testing.T) {
	l := WithContext("pkg", "a").(*contextLogger)
	first := l.join([]any{"k", 1})
	second := l.join([]any{"k", 2})
	assert.Equal(t, []any{"pkg", "a", "k", 1}, first)
	assert.Equal(t, []any{"pkg", "a", "k", 2}, second)
}
