// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pox

import (
	"context"
	"errors"
	"fmt"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/log"
	"github.com/stxkit/stacker/stx"
)

var logger = log.WithContext("pkg", "pox")

// ConfiguredVar is the data var the successor contract flips at the fork.
const ConfiguredVar = "configured"

// FlagReader reads a contract data var.
type FlagReader interface {
	DataVar(ctx context.Context, contract stx.ContractID, name string) (clarity.Value, error)
}

// Resolve classifies info. When the node knows more than one contract it reads
// the successor's configured flag through r; a missing data var counts as not
// configured.
func Resolve(ctx context.Context, info *Info, r FlagReader) (*OperationInfo, error) {
	if info.CurrentBurnchainBlockHeight == nil || len(info.ContractVersions) <= 1 {
		return Classify(info, ContractVersion{ContractID: info.ContractID}, nil, false)
	}

	versions := info.SortedVersions()
	legacy, current := versions[0], versions[1]

	configured, err := IsConfigured(ctx, r, current.ContractID)
	if err != nil {
		return nil, err
	}
	return Classify(info, legacy, &current, configured)
}

// IsConfigured reads the configured flag of contractID.
func IsConfigured(ctx context.Context, r FlagReader, contractID string) (bool, error) {
	id, err := stx.ParseContractID(contractID)
	if err != nil {
		return false, err
	}
	v, err := r.DataVar(ctx, id, ConfiguredVar)
	if err != nil {
		if errors.Is(err, stx.ErrNotFound) {
			logger.Debug("configured flag not found", "contract", contractID)
			return false, nil
		}
		return false, fmt.Errorf("unable to read %s.%s - %w", contractID, ConfiguredVar, err)
	}
	b, ok := v.(clarity.Bool)
	if !ok {
		if v == nil {
			return false, stx.NewDecodeError(ConfiguredVar, "missing value")
		}
		return false, stx.NewDecodeError(ConfiguredVar, "expected bool, got %s", v.Type())
	}
	return bool(b), nil
}

// Classify is the decision table behind Resolve. A nil current means the node
// reported at most one contract; first match wins.
func Classify(info *Info, legacy ContractVersion, current *ContractVersion, configured bool) (*OperationInfo, error) {
	var (
		result *OperationInfo
		rule   string
	)
	switch {
	case info.CurrentBurnchainBlockHeight == nil || current == nil:
		rule = "single contract"
		result = &OperationInfo{Period: Period1, Legacy: ContractVersion{ContractID: info.ContractID}}
		if current == nil && legacy.ContractID == info.ContractID {
			result.Legacy = legacy
		}
	case !configured:
		rule = "successor not configured"
		result = &OperationInfo{Period: Period1, Legacy: legacy, Current: current}
	case info.ContractID == legacy.ContractID:
		rule = "forked, legacy active"
		result = &OperationInfo{Period: Period2a, Legacy: legacy, Current: current}
	case info.ContractID == current.ContractID && info.CurrentCycle.ID < current.FirstRewardCycleID:
		rule = "successor active, legacy unwinding"
		result = &OperationInfo{Period: Period2b, Legacy: legacy, Current: current}
	case info.ContractID == current.ContractID:
		rule = "successor governs"
		result = &OperationInfo{Period: Period3, Legacy: legacy, Current: current}
	default:
		return nil, fmt.Errorf("%w: active %s, legacy %s, current %s",
			stx.ErrPeriodUnreachable, info.ContractID, legacy.ContractID, current.ContractID)
	}
	logger.Debug("resolved pox period", "period", result.Period, "rule", rule, "active", info.ContractID)
	return result, nil
}
