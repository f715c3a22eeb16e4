// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stacking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/poxaddr"
	"github.com/stxkit/stacker/stx"
)

// Contract functions called by the builder.
const (
	FnStackStx                      = "stack-stx"
	FnStackExtend                   = "stack-extend"
	FnStackIncrease                 = "stack-increase"
	FnDelegateStx                   = "delegate-stx"
	FnDelegateStackStx              = "delegate-stack-stx"
	FnDelegateStackExtend           = "delegate-stack-extend"
	FnDelegateStackIncrease         = "delegate-stack-increase"
	FnStackAggregationCommit        = "stack-aggregation-commit"
	FnStackAggregationCommitIndexed = "stack-aggregation-commit-indexed"
	FnStackAggregationIncrease      = "stack-aggregation-increase"
	FnRevokeDelegateStx             = "revoke-delegate-stx"
)

// ContractCallSpec is everything a signer needs to produce a contract call.
type ContractCallSpec struct {
	ContractAddress string
	ContractName    string
	FunctionName    string
	FunctionArgs    []clarity.Value
	Nonce           *uint64
}

// ContractID returns the called contract as address.name.
func (s *ContractCallSpec) ContractID() string {
	return s.ContractAddress + "." + s.ContractName
}

type contractCallJSON struct {
	ContractAddress string   `json:"contractAddress"`
	ContractName    string   `json:"contractName"`
	FunctionName    string   `json:"functionName"`
	FunctionArgs    []string `json:"functionArgs"`
	Nonce           *uint64  `json:"nonce,omitempty"`
}

// MarshalJSON renders arguments as hex serialized values, the form external
// signers consume.
func (s *ContractCallSpec) MarshalJSON() ([]byte, error) {
	out := contractCallJSON{
		ContractAddress: s.ContractAddress,
		ContractName:    s.ContractName,
		FunctionName:    s.FunctionName,
		FunctionArgs:    make([]string, 0, len(s.FunctionArgs)),
		Nonce:           s.Nonce,
	}
	for i, arg := range s.FunctionArgs {
		encoded, err := clarity.EncodeHex(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out.FunctionArgs = append(out.FunctionArgs, encoded)
	}
	return json.Marshal(&out)
}

func (s *ContractCallSpec) UnmarshalJSON(data []byte) error {
	var in contractCallJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	args := make([]clarity.Value, 0, len(in.FunctionArgs))
	for i, encoded := range in.FunctionArgs {
		v, err := clarity.DecodeHex(encoded)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	*s = ContractCallSpec{
		ContractAddress: in.ContractAddress,
		ContractName:    in.ContractName,
		FunctionName:    in.FunctionName,
		FunctionArgs:    args,
		Nonce:           in.Nonce,
	}
	return nil
}

// DeductFee lowers the locked amount of a stack-stx call by fee, leaving the
// account enough to pay for the transaction.
func (s *ContractCallSpec) DeductFee(fee *big.Int) error {
	if s.FunctionName != FnStackStx || len(s.FunctionArgs) == 0 {
		return fmt.Errorf("fee deduction only applies to %s", FnStackStx)
	}
	amount, err := clarity.As[clarity.UInt]("amount-ustx", s.FunctionArgs[0])
	if err != nil {
		return err
	}
	reduced, err := clarity.UIntFromBig(new(big.Int).Sub(amount.Big(), fee))
	if err != nil {
		return fmt.Errorf("fee %v exceeds locked amount %s: %w", fee, amount.V.Dec(), err)
	}
	s.FunctionArgs[0] = reduced
	return nil
}

// functionKinds maps a stacking function back to the intent that builds it.
var functionKinds = map[string]Kind{
	FnStackStx:                      KindLock,
	FnStackExtend:                   KindExtendLock,
	FnStackIncrease:                 KindIncreaseLock,
	FnDelegateStx:                   KindDelegate,
	FnDelegateStackStx:              KindDelegateStack,
	FnDelegateStackExtend:           KindDelegateExtend,
	FnDelegateStackIncrease:         KindDelegateIncrease,
	FnStackAggregationCommit:        KindAggregateCommit,
	FnStackAggregationCommitIndexed: KindAggregateCommitIndexed,
	FnStackAggregationIncrease:      KindAggregateIncrease,
	FnRevokeDelegateStx:             KindRevokeDelegation,
}

type argsBuilder func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error)

var builders = map[Kind]argsBuilder{
	KindLock: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(Lock)
		amount, err := uintArg("amount", in.Amount)
		if err != nil {
			return "", nil, err
		}
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnStackStx, []clarity.Value{amount, addr, clarity.NewUInt(in.BurnBlockHeight), clarity.NewUInt(in.Cycles)}, nil
	},
	KindExtendLock: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(ExtendLock)
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnStackExtend, []clarity.Value{clarity.NewUInt(in.ExtendCycles), addr}, nil
	},
	KindIncreaseLock: func(intent Intent, _ stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(IncreaseLock)
		amount, err := uintArg("increase-by", in.IncreaseBy)
		if err != nil {
			return "", nil, err
		}
		return FnStackIncrease, []clarity.Value{amount}, nil
	},
	KindDelegate: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(Delegate)
		amount, err := uintArg("amount", in.Amount)
		if err != nil {
			return "", nil, err
		}
		delegatee, err := principal(in.DelegateTo)
		if err != nil {
			return "", nil, err
		}
		var until clarity.Value
		if in.UntilBurnBlockHeight != nil {
			until = clarity.NewUInt(*in.UntilBurnBlockHeight)
		}
		var addr clarity.Value
		if in.PoxAddress != "" {
			if addr, err = rewardAddress(in.PoxAddress, contract); err != nil {
				return "", nil, err
			}
		}
		return FnDelegateStx, []clarity.Value{amount, delegatee, clarity.Optional(until), clarity.Optional(addr)}, nil
	},
	KindDelegateStack: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(DelegateStack)
		stacker, err := clarity.NewStandardPrincipal(in.Stacker)
		if err != nil {
			return "", nil, err
		}
		amount, err := uintArg("amount", in.Amount)
		if err != nil {
			return "", nil, err
		}
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnDelegateStackStx, []clarity.Value{
			stacker, amount, addr, clarity.NewUInt(in.BurnBlockHeight), clarity.NewUInt(in.Cycles),
		}, nil
	},
	KindDelegateExtend: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(DelegateExtend)
		stacker, err := clarity.NewStandardPrincipal(in.Stacker)
		if err != nil {
			return "", nil, err
		}
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnDelegateStackExtend, []clarity.Value{stacker, addr, clarity.NewUInt(in.ExtendCount)}, nil
	},
	KindDelegateIncrease: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(DelegateIncrease)
		stacker, err := clarity.NewStandardPrincipal(in.Stacker)
		if err != nil {
			return "", nil, err
		}
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		amount, err := uintArg("increase-by", in.IncreaseBy)
		if err != nil {
			return "", nil, err
		}
		return FnDelegateStackIncrease, []clarity.Value{stacker, addr, amount}, nil
	},
	KindAggregateCommit: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(AggregateCommit)
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnStackAggregationCommit, []clarity.Value{addr, clarity.NewUInt(in.RewardCycle)}, nil
	},
	KindAggregateCommitIndexed: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(AggregateCommitIndexed)
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnStackAggregationCommitIndexed, []clarity.Value{addr, clarity.NewUInt(in.RewardCycle)}, nil
	},
	KindAggregateIncrease: func(intent Intent, contract stx.ContractID) (string, []clarity.Value, error) {
		in := intent.(AggregateIncrease)
		addr, err := rewardAddress(in.PoxAddress, contract)
		if err != nil {
			return "", nil, err
		}
		return FnStackAggregationIncrease, []clarity.Value{addr, clarity.NewUInt(in.RewardCycle), clarity.NewUInt(in.RewardIndex)}, nil
	},
	KindRevokeDelegation: func(Intent, stx.ContractID) (string, []clarity.Value, error) {
		return FnRevokeDelegateStx, []clarity.Value{}, nil
	},
}

// Build turns intent into a call against contractID. The identifier is
// validated before anything else; reward addresses the contract cannot store
// fail with stx.ErrUnsupportedAddressFormat.
func Build(intent Intent, contractID string) (*ContractCallSpec, error) {
	contract, err := stx.ParseContractID(contractID)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, errors.New("nil stacking intent")
	}
	// builders assert value types
	if intent = dereference(intent); intent == nil {
		return nil, errors.New("nil stacking intent")
	}
	build, ok := builders[intent.Kind()]
	if !ok {
		return nil, fmt.Errorf("unknown stacking intent %q", intent.Kind())
	}
	fn, args, err := build(intent, contract)
	if err != nil {
		return nil, fmt.Errorf("unable to build %s - %w", intent.Kind(), err)
	}
	return &ContractCallSpec{
		ContractAddress: contract.Address.String(),
		ContractName:    contract.Name,
		FunctionName:    fn,
		FunctionArgs:    args,
		Nonce:           intent.txOptions().Nonce,
	}, nil
}

// dereference returns the value a pointer intent refers to, nil for a nil pointer.
func dereference(intent Intent) Intent {
	switch in := intent.(type) {
	case *Lock:
		return deref(in)
	case *ExtendLock:
		return deref(in)
	case *IncreaseLock:
		return deref(in)
	case *Delegate:
		return deref(in)
	case *DelegateStack:
		return deref(in)
	case *DelegateExtend:
		return deref(in)
	case *DelegateIncrease:
		return deref(in)
	case *AggregateCommit:
		return deref(in)
	case *AggregateCommitIndexed:
		return deref(in)
	case *AggregateIncrease:
		return deref(in)
	case *RevokeDelegation:
		return deref(in)
	}
	return intent
}

func deref[T Intent](p *T) Intent {
	if p == nil {
		return nil
	}
	return *p
}

func uintArg(field string, v *big.Int) (clarity.UInt, error) {
	if v == nil {
		return clarity.UInt{}, fmt.Errorf("%w: %s is required", stx.ErrInvalidAmount, field)
	}
	u, err := clarity.UIntFromBig(v)
	if err != nil {
		return clarity.UInt{}, fmt.Errorf("%s: %w", field, err)
	}
	return u, nil
}

func rewardAddress(s string, contract stx.ContractID) (clarity.Tuple, error) {
	addr, err := poxaddr.Decode(s)
	if err != nil {
		return nil, err
	}
	if !addr.SupportedBy(contract.Name) {
		return nil, fmt.Errorf("%w: %s addresses are not accepted by %s", stx.ErrUnsupportedAddressFormat, addr.Version, contract)
	}
	return addr.Tuple(), nil
}

// principal parses a standard or contract principal.
func principal(s string) (clarity.Value, error) {
	addr, name, isContract := strings.Cut(s, ".")
	if !isContract {
		return clarity.NewStandardPrincipal(s)
	}
	a, err := stx.ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: %q: empty contract name", stx.ErrInvalidAddress, s)
	}
	return clarity.ContractPrincipal{Address: a, Name: name}, nil
}
