// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMalformedContractID      = errors.New("stacking contract ID is malformed")
	ErrUnsupportedAddressFormat = errors.New("unsupported reward address format")
	ErrPeriodUnreachable        = errors.New("could not determine PoX operation period")
	ErrProtocolNotLive          = errors.New("successor PoX contract is not live yet")
	ErrRemoteRead               = errors.New("remote read failed")
	ErrNotFound                 = errors.New("not found")
	ErrDecode                   = errors.New("unexpected value shape")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidAddress           = errors.New("invalid stacks address")
	ErrBroadcastRejected        = errors.New("transaction rejected")
)

// RemoteReadError is returned when a node endpoint answers with a non-success status,
// or reports failure in its payload.
type RemoteReadError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("remote read failed - %s - status %d - %s", e.URL, e.StatusCode, e.Body)
}

// Is reports ErrRemoteRead for every instance, and ErrNotFound for 404 responses.
func (e *RemoteReadError) Is(target error) bool {
	switch target {
	case ErrRemoteRead:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DecodeError names the field whose value did not have the expected shape.
type DecodeError struct {
	Field  string
	Reason string
}

func NewDecodeError(field, format string, args ...any) *DecodeError {
	return &DecodeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return "decode failure: " + e.Reason
	}
	return fmt.Sprintf("decode failure at %q: %s", e.Field, e.Reason)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// BroadcastRejectedError carries the node's reason for refusing a transaction.
type BroadcastRejectedError struct {
	TxID       string
	Reason     string
	ReasonData string
}

func (e *BroadcastRejectedError) Error() string {
	if e.ReasonData != "" {
		return fmt.Sprintf("transaction %s rejected: %s (%s)", e.TxID, e.Reason, e.ReasonData)
	}
	return fmt.Sprintf("transaction %s rejected: %s", e.TxID, e.Reason)
}

func (e *BroadcastRejectedError) Is(target error) bool {
	return target == ErrBroadcastRejected
}
