// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import "errors"

// Errors surfaced by the commit-reveal swap precompile. Every precondition
// failure aborts the invocation; the host environment rolls back any state
// written before the failure.
var (
	// Authorization
	ErrUnauthorized = errors.New("unauthorized: caller is not the session owner")

	// Protocol state
	ErrAlreadyRevealed = errors.New("session already revealed")
	ErrSwapNotRevealed = errors.New("swap not revealed yet")

	// Integrity
	ErrCommitmentMismatch = errors.New("commitment mismatch")

	// Boundary
	ErrDeserializeFailed     = errors.New("call descriptor deserialization failed")
	ErrInvalidExternalTarget = errors.New("call descriptor target not allow-listed")

	// Delegated call; the underlying router cause is opaque
	ErrExternalSwapFailed = errors.New("external swap failed")

	// Derivation
	ErrNoAuthorityNonce = errors.New("no usable authority nonce for owner")

	// Input plumbing
	ErrInvalidInput    = errors.New("invalid input")
	ErrInsufficientGas = errors.New("insufficient gas")
	ErrReadOnly        = errors.New("cannot write in read-only mode")
)
