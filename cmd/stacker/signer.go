// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/stxkit/stacker/stacking"
	"github.com/stxkit/stacker/stx"
)

// signRequest is written to the signer's stdin.
type signRequest struct {
	Network    string                     `json:"network"`
	PrivateKey string                     `json:"privateKey"`
	Call       *stacking.ContractCallSpec `json:"call"`
}

// execSigner delegates transaction construction and signing to an external
// command. The command reads a signRequest on stdin and prints the serialized
// transaction as hex on stdout.
type execSigner struct {
	argv    []string
	network stx.Network
}

func newExecSigner(command string, network stx.Network) (*execSigner, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, errors.New("empty signer command")
	}
	return &execSigner{argv: argv, network: network}, nil
}

func (s *execSigner) SignContractCall(ctx context.Context, call *stacking.ContractCallSpec, privateKey string) ([]byte, error) {
	payload, err := json.Marshal(&signRequest{
		Network:    s.network.Name,
		PrivateKey: privateKey,
		Call:       call,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode sign request")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", s.argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", s.argv[0], err)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, fmt.Errorf("%s printed no transaction", s.argv[0])
	}
	if !strings.HasPrefix(out, "0x") {
		out = "0x" + out
	}
	raw, err := hexutil.Decode(out)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s output", s.argv[0])
	}
	return raw, nil
}
