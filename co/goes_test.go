// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoesWait(t *testing.T) {
	var (
		goes    Goes
		counter int32
	)
	for i := 0; i < 10; i++ {
		goes.Go(func() {
			atomic.AddInt32(&counter, 1)
		})
	}
	goes.Wait()
	assert.Equal(t, int32(10), atomic.LoadInt32(&counter))
}

func TestGoesDone(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	goes.Go(func() { <-release })

	done := goes.Done()
	select {
	case <-done:
		t.Fatal("done before routine returned")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
}

func TestGoesEvery(t *testing.T) {
	var (
		goes  Goes
		ticks int32
	)
	ctx, cancel := context.WithCancel(context.Background())
	goes.Every(ctx, 5*time.Millisecond, func(context.Context) {
		if atomic.AddInt32(&ticks, 1) == 3 {
			cancel()
		}
	})

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&ticks), int32(3))
}

func TestGoesEveryRunsImmediately(t *testing.T) {
	var goes Goes
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	goes.Every(ctx, time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first run waited for the ticker")
	}
	cancel()
	goes.Wait()
}
