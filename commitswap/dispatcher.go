// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/commitdex/contract"
)

// DispatchMode selects how the external swap call is described. The mode is
// fixed per deployment through the precompile config, not per call.
type DispatchMode uint8

const (
	// DispatchTyped issues the external call from a statically-typed route
	// description supplied inline with the reveal.
	DispatchTyped DispatchMode = iota
	// DispatchStored issues the external call from an opaque serialized
	// descriptor, supplied inline or stored earlier via storeCallDescriptor.
	DispatchStored
)

// RouteCall is the delegated call handed to the external swap router.
type RouteCall struct {
	TokenIn        common.Address
	TokenOut       common.Address
	AmountIn       uint64
	QuotedOut      uint64
	SlippageBps    uint16
	PlatformFeeBps uint8
	RouteID        uint64

	// Accounts the router needs access to; Payload is forwarded verbatim.
	// Both are only populated in stored-dispatch mode.
	Accounts []common.Address
	Payload  []byte
}

// ExternalRouter is the opaque swap-routing target. Its internals are out of
// this subsystem's hands; any failure it reports surfaces as
// ErrExternalSwapFailed without further decomposition.
type ExternalRouter interface {
	ExecuteRoute(stateDB contract.StateDB, call *RouteCall, auth SigningCapability) error
}

// RevealParams carries the disclosed pre-image plus the route description for
// the chosen dispatch mode.
type RevealParams struct {
	Salt     [SaltSize]byte
	TokenIn  common.Address
	TokenOut common.Address
	Amount   uint64

	// Typed mode
	QuotedOut      uint64
	SlippageBps    uint16
	PlatformFeeBps uint8
	RouteID        uint64

	// Stored mode: inline descriptor bytes; empty means use the blob stored
	// earlier via storeCallDescriptor.
	Descriptor []byte
}

// revealAndSwap validates the revealed pre-image against the stored
// commitment and, on match, performs the delegated external call.
//
// Precondition checks run in a fixed order, each with its own error: owner,
// reveal state, commitment. The revealed flag is flipped before the external
// call; the snapshot taken around both models the host's all-or-nothing
// rollback, so a failed router call restores the flag along with everything
// else the call touched.
func (c *SwapContract) revealAndSwap(stateDB contract.StateDB, caller common.Address, params *RevealParams) error {
	sess, ok := c.loadSession(stateDB, caller)
	if !ok || sess.Owner != caller {
		return ErrUnauthorized
	}
	if sess.Revealed {
		return ErrAlreadyRevealed
	}
	if !VerifyCommitment(sess.Commitment, params.TokenIn, params.TokenOut, params.Amount, params.Salt) {
		return ErrCommitmentMismatch
	}

	call, err := c.buildRouteCall(stateDB, caller, params)
	if err != nil {
		return err
	}

	snapshot := stateDB.Snapshot()

	sess.Revealed = true
	c.storeSession(stateDB, sess)

	auth := sign(sess.Owner, sess.AuthorityNonce)
	if c.router == nil {
		stateDB.RevertToSnapshot(snapshot)
		return fmt.Errorf("%w: no router configured", ErrExternalSwapFailed)
	}
	if err := c.router.ExecuteRoute(stateDB, call, auth); err != nil {
		stateDB.RevertToSnapshot(snapshot)
		return fmt.Errorf("%w: %v", ErrExternalSwapFailed, err)
	}

	c.recordSwap(stateDB, sess.Owner, call)
	return nil
}

// buildRouteCall assembles the router call for the configured dispatch mode.
func (c *SwapContract) buildRouteCall(stateDB contract.StateDB, owner common.Address, params *RevealParams) (*RouteCall, error) {
	call := &RouteCall{
		TokenIn:  params.TokenIn,
		TokenOut: params.TokenOut,
		AmountIn: params.Amount,
	}

	switch c.mode {
	case DispatchTyped:
		call.QuotedOut = params.QuotedOut
		call.SlippageBps = params.SlippageBps
		call.PlatformFeeBps = params.PlatformFeeBps
		call.RouteID = params.RouteID
		return call, nil

	case DispatchStored:
		blob := params.Descriptor
		if len(blob) == 0 {
			stored, ok := c.loadCallBlob(stateDB, owner)
			if !ok {
				return nil, fmt.Errorf("%w: no call descriptor stored for owner", ErrDeserializeFailed)
			}
			blob = stored
		}
		desc, err := DecodeCallDescriptor(blob)
		if err != nil {
			return nil, err
		}
		if desc.Target != c.routerAddr {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExternalTarget, desc.Target)
		}
		call.Accounts = desc.Accounts
		call.Payload = desc.Payload
		return call, nil

	default:
		return nil, fmt.Errorf("%w: unknown dispatch mode %d", ErrInvalidInput, c.mode)
	}
}

// recordSwap writes the swap receipt to the journal. Journaling is strictly
// observational and must not fail the reveal.
func (c *SwapContract) recordSwap(stateDB contract.StateDB, owner common.Address, call *RouteCall) {
	if c.journal == nil {
		return
	}
	id, err := c.journal.Record(&SwapReceipt{
		Owner:    owner,
		TokenIn:  call.TokenIn,
		TokenOut: call.TokenOut,
		AmountIn: call.AmountIn,
		TxHash:   stateDB.TxHash(),
	})
	if err != nil {
		c.log.Warn("swap receipt not recorded", "owner", owner, "err", err)
		return
	}
	c.log.Info("swap executed", "owner", owner, "receipt", common.Hash(id))
}
