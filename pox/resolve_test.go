// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pox

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/stx"
)

const (
	legacyID  = "ST000000000000000000002AMW42H.pox"
	currentID = "ST000000000000000000002AMW42H.pox-2"
)

// captured from a regtest node shortly before the 2.1 fork
const regtestPoxInfo = `{"contract_id":"ST000000000000000000002AMW42H.pox","pox_activation_threshold_ustx":600057388429055,"first_burnchain_block_height":0,"current_burnchain_block_height":107,"prepare_phase_block_length":1,"reward_phase_block_length":4,"reward_slots":8,"rejection_fraction":3333333333333333,"total_liquid_supply_ustx":60005738842905579,"current_cycle":{"id":21,"min_threshold_ustx":1875180000000000,"stacked_ustx":0,"is_pox_active":false},"next_cycle":{"id":22,"min_threshold_ustx":1875180000000000,"min_increment_ustx":7500717355363,"stacked_ustx":0,"prepare_phase_start_block_height":109,"blocks_until_prepare_phase":2,"reward_phase_start_block_height":110,"blocks_until_reward_phase":3,"ustx_until_pox_rejection":8484139029839119787},"min_amount_ustx":1875180000000000,"prepare_cycle_length":1,"reward_cycle_id":21,"reward_cycle_length":5,"rejection_votes_left_required":8484139029839119787,"next_reward_cycle_in":3,"contract_versions":[{"contract_id":"ST000000000000000000002AMW42H.pox","activation_burnchain_block_height":0,"first_reward_cycle_id":0},{"contract_id":"ST000000000000000000002AMW42H.pox-2","activation_burnchain_block_height":120,"first_reward_cycle_id":25}]}`

type flagReader struct {
	value clarity.Value
	err   error
	calls int
}

func (f *flagReader) DataVar(_ context.Context, contract stx.ContractID, name string) (clarity.Value, error) {
	f.calls++
	if contract.String() != currentID || name != ConfiguredVar {
		return nil, &stx.RemoteReadError{URL: contract.String() + "/" + name, StatusCode: http.StatusNotFound}
	}
	return f.value, f.err
}

func configured(v bool) *flagReader {
	return &flagReader{value: clarity.Bool(v)}
}

func twoVersions() []ContractVersion {
	// deliberately out of activation order
	return []ContractVersion{
		{ContractID: currentID, ActivationBurnchainBlockHeight: 120, FirstRewardCycleID: 25},
		{ContractID: legacyID, ActivationBurnchainBlockHeight: 0, FirstRewardCycleID: 0},
	}
}

func snapshot(height uint64, active string, cycle uint64) *Info {
	return &Info{
		ContractID:                  active,
		ContractVersions:            twoVersions(),
		CurrentBurnchainBlockHeight: &height,
		RewardCycleLength:           5,
		RewardCycleID:               cycle,
		CurrentCycle:                CycleInfo{ID: cycle},
	}
}

func TestInfoJSON(t *testing.T) {
	var info Info
	require.NoError(t, json.Unmarshal([]byte(regtestPoxInfo), &info))

	assert.Equal(t, legacyID, info.ContractID)
	require.NotNil(t, info.CurrentBurnchainBlockHeight)
	assert.Equal(t, uint64(107), *info.CurrentBurnchainBlockHeight)
	assert.Equal(t, uint64(1875180000000000), info.MinAmountUstx)
	assert.Equal(t, uint64(21), info.CurrentCycle.ID)
	assert.Equal(t, uint64(109), info.NextCycle.PreparePhaseStartBlockHeight)
	assert.True(t, info.StackingEnabledNextCycle())

	versions := info.SortedVersions()
	require.Len(t, versions, 2)
	assert.Equal(t, legacyID, versions[0].ContractID)
	assert.Equal(t, uint64(25), versions[1].FirstRewardCycleID)
}

func TestResolveWithoutSuccessor(t *testing.T) {
	height := uint64(50)
	tests := []struct {
		name string
		info *Info
	}{
		{"no height", &Info{ContractID: legacyID, ContractVersions: twoVersions()}},
		{"no versions", &Info{ContractID: legacyID, CurrentBurnchainBlockHeight: &height}},
		{"one version", &Info{
			ContractID:                  legacyID,
			CurrentBurnchainBlockHeight: &height,
			ContractVersions:            []ContractVersion{{ContractID: legacyID}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := configured(true)
			op, err := Resolve(context.Background(), tt.info, reader)
			require.NoError(t, err)

			assert.Equal(t, Period1, op.Period)
			assert.Equal(t, tt.info.ContractID, op.Legacy.ContractID)
			assert.Nil(t, op.Current)
			assert.Zero(t, reader.calls)
			assert.Equal(t, legacyID, op.StackingContract())
		})
	}
}

func TestResolveNotConfigured(t *testing.T) {
	for _, cycle := range []uint64{0, 24, 25, 100} {
		for _, active := range []string{legacyID, currentID} {
			op, err := Resolve(context.Background(), snapshot(108, active, cycle), configured(false))
			require.NoError(t, err)
			assert.Equal(t, Period1, op.Period)
			assert.Equal(t, legacyID, op.Legacy.ContractID)
			require.NotNil(t, op.Current)
			assert.Equal(t, currentID, op.Current.ContractID)
			assert.False(t, op.Live())
		}
	}
}

func TestResolveMissingFlag(t *testing.T) {
	reader := &flagReader{err: &stx.RemoteReadError{StatusCode: http.StatusNotFound, Body: "Data var not found"}}
	op, err := Resolve(context.Background(), snapshot(108, legacyID, 21), reader)
	require.NoError(t, err)
	assert.Equal(t, Period1, op.Period)
	assert.Equal(t, 1, reader.calls)
}

func TestResolveFlagReadFailure(t *testing.T) {
	reader := &flagReader{err: &stx.RemoteReadError{StatusCode: http.StatusInternalServerError}}
	_, err := Resolve(context.Background(), snapshot(108, legacyID, 21), reader)
	assert.ErrorIs(t, err, stx.ErrRemoteRead)
	assert.NotErrorIs(t, err, stx.ErrNotFound)
}

func TestResolveFlagNotBool(t *testing.T) {
	reader := &flagReader{value: clarity.NewUInt(1)}
	op, err := Resolve(context.Background(), snapshot(111, legacyID, 22), reader)
	assert.Nil(t, op)
	assert.ErrorIs(t, err, stx.ErrDecode)

	var decodeErr *stx.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ConfiguredVar, decodeErr.Field)
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name       string
		info       *Info
		configured bool
		want       Period
	}{
		{"before fork", snapshot(108, legacyID, 21), false, Period1},
		{"forked, legacy active", snapshot(111, legacyID, 22), true, Period2a},
		{"successor active before its first cycle", snapshot(121, currentID, 24), true, Period2b},
		{"successor governs", snapshot(126, currentID, 25), true, Period3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Resolve(context.Background(), tt.info, configured(tt.configured))
			require.NoError(t, err)
			assert.Equal(t, tt.want, op.Period)
		})
	}
}

func TestResolveUnreachable(t *testing.T) {
	_, err := Resolve(context.Background(), snapshot(130, "ST000000000000000000002AMW42H.pox-3", 26), configured(true))
	assert.ErrorIs(t, err, stx.ErrPeriodUnreachable)
}

func TestResolveMalformedSuccessor(t *testing.T) {
	info := snapshot(111, legacyID, 22)
	info.ContractVersions[0].ContractID = "ST000000000000000000002AMW42H.bns"
	_, err := Resolve(context.Background(), info, configured(true))
	assert.ErrorIs(t, err, stx.ErrMalformedContractID)
}

// The node flips the flag at 110, reports the successor active from 121 and the
// successor's first cycle starts at 126.
func TestResolveBlockByBlock(t *testing.T) {
	expected := map[uint64]Period{
		106: Period1,
		109: Period1,
		110: Period2a,
		111: Period2a,
		119: Period2a,
		120: Period2a,
		121: Period2b,
		125: Period2b,
		126: Period3,
	}

	last := Period1
	for height := uint64(100); height <= 140; height++ {
		active := legacyID
		if height > 120 {
			active = currentID
		}
		info := snapshot(height, active, (height-1)/5)

		op, err := Resolve(context.Background(), info, configured(height >= 110))
		require.NoError(t, err, "height %d", height)

		assert.GreaterOrEqual(t, op.Period.Rank(), last.Rank(), "period regressed at height %d", height)
		last = op.Period

		if want, ok := expected[height]; ok {
			assert.Equal(t, want, op.Period, "height %d", height)
		}
	}
	assert.Equal(t, Period3, last)
}

func TestOperationInfo(t *testing.T) {
	current := ContractVersion{ContractID: currentID, FirstRewardCycleID: 25}
	legacy := ContractVersion{ContractID: legacyID}

	op := &OperationInfo{Period: Period1, Legacy: legacy, Current: &current}
	assert.Equal(t, legacyID, op.StackingContract())
	assert.ErrorIs(t, op.RequireLive(), stx.ErrProtocolNotLive)

	for _, p := range []Period{Period2a, Period2b, Period3} {
		op := &OperationInfo{Period: p, Legacy: legacy, Current: &current}
		assert.Equal(t, currentID, op.StackingContract())
		assert.NoError(t, op.RequireLive())
	}
}

func TestBlocksUntilNextCycle(t *testing.T) {
	info := &Info{FirstBurnchainBlockHeight: 100, RewardCycleLength: 10}
	assert.Equal(t, uint64(10), info.BlocksUntilNextCycle(100))
	assert.Equal(t, uint64(7), info.BlocksUntilNextCycle(103))
	assert.Equal(t, uint64(1), info.BlocksUntilNextCycle(109))
	assert.Equal(t, uint64(0), (&Info{}).BlocksUntilNextCycle(5))
}
