// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package commitswap implements the commit-reveal swap precompile. A user
// commits to a swap's parameters with a keccak digest, later reveals the
// pre-image to authorize execution, and the precompile issues the external
// routing call under a delegated authority before skimming a protocol fee
// from the proceeds.
package commitswap

import (
	"encoding/binary"
	"fmt"

	log "github.com/luxfi/log"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/commitdex/contract"
)

// Method selectors
const (
	SelectorCommit     uint32 = 0x01000000 // commit(bytes32)
	SelectorReveal     uint32 = 0x02000000 // revealAndSwap(bytes32,address,address,uint64,...)
	SelectorCancel     uint32 = 0x03000000 // cancel()
	SelectorCollectFee uint32 = 0x04000000 // collectFee(uint64)
	SelectorStoreCall  uint32 = 0x05000000 // storeCallDescriptor(bytes)
	SelectorGetSession uint32 = 0x06000000 // getSession()
)

// Gas costs
const (
	GasCommit      uint64 = 20_000
	GasReveal      uint64 = 40_000
	GasCancel      uint64 = 5_000
	GasCollectFee  uint64 = 10_000
	GasStoreCall   uint64 = 15_000
	GasSessionRead uint64 = 200
)

// SwapContract implements the commit-reveal swap precompile.
type SwapContract struct {
	address    common.Address
	mode       DispatchMode
	routerAddr common.Address
	treasury   common.Address

	router  ExternalRouter
	journal *Journal
	log     log.Logger
}

// Run executes the precompile.
func (c *SwapContract) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) (ret []byte, remainingGas uint64, err error) {
	if len(input) < 4 {
		return nil, suppliedGas, ErrInvalidInput
	}

	selector := binary.BigEndian.Uint32(input[:4])
	data := input[4:]
	stateDB := accessibleState.GetStateDB()

	switch selector {
	case SelectorCommit:
		return c.runCommit(stateDB, caller, data, suppliedGas, readOnly)
	case SelectorReveal:
		return c.runReveal(stateDB, caller, data, suppliedGas, readOnly)
	case SelectorCancel:
		return c.runCancel(stateDB, caller, suppliedGas, readOnly)
	case SelectorCollectFee:
		return c.runCollectFee(stateDB, caller, data, suppliedGas, readOnly)
	case SelectorStoreCall:
		return c.runStoreCall(stateDB, caller, data, suppliedGas, readOnly)
	case SelectorGetSession:
		return c.runGetSession(stateDB, caller, suppliedGas)
	default:
		return nil, suppliedGas, fmt.Errorf("%w: unknown selector %#x", ErrInvalidInput, selector)
	}
}

func (c *SwapContract) runCommit(
	stateDB contract.StateDB,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrReadOnly
	}
	if suppliedGas < GasCommit {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasCommit

	if len(input) != CommitmentSize {
		return nil, remainingGas, fmt.Errorf("%w: commitment must be %d bytes", ErrInvalidInput, CommitmentSize)
	}
	var digest [CommitmentSize]byte
	copy(digest[:], input)

	if err := c.commitSession(stateDB, caller, digest); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *SwapContract) runReveal(
	stateDB contract.StateDB,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrReadOnly
	}
	if suppliedGas < GasReveal {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasReveal

	params, err := c.decodeRevealInput(input)
	if err != nil {
		return nil, remainingGas, err
	}

	if err := c.revealAndSwap(stateDB, caller, params); err != nil {
		return nil, remainingGas, err
	}

	// The fee collector runs in the same execution unit as the reveal so the
	// one-time reveal right and the skim cannot be split across invocations.
	feeTaken, err := c.collectFee(stateDB, caller, params.Amount)
	if err != nil {
		return nil, remainingGas, err
	}

	result := make([]byte, 32)
	binary.BigEndian.PutUint64(result[24:], feeTaken)
	return result, remainingGas, nil
}

func (c *SwapContract) runCancel(
	stateDB contract.StateDB,
	caller common.Address,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrReadOnly
	}
	if suppliedGas < GasCancel {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasCancel

	if err := c.cancelSession(stateDB, caller); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *SwapContract) runCollectFee(
	stateDB contract.StateDB,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrReadOnly
	}
	if suppliedGas < GasCollectFee {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasCollectFee

	amount, err := decodeAmountWord(input)
	if err != nil {
		return nil, remainingGas, err
	}

	feeTaken, err := c.collectFee(stateDB, caller, amount)
	if err != nil {
		return nil, remainingGas, err
	}

	result := make([]byte, 32)
	binary.BigEndian.PutUint64(result[24:], feeTaken)
	return result, remainingGas, nil
}

func (c *SwapContract) runStoreCall(
	stateDB contract.StateDB,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrReadOnly
	}
	if suppliedGas < GasStoreCall {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasStoreCall

	if err := c.storeCallBlob(stateDB, caller, input); err != nil {
		return nil, remainingGas, err
	}
	return nil, remainingGas, nil
}

func (c *SwapContract) runGetSession(
	stateDB contract.StateDB,
	caller common.Address,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	if suppliedGas < GasSessionRead {
		return nil, 0, ErrInsufficientGas
	}
	remainingGas := suppliedGas - GasSessionRead

	sess, ok := c.loadSession(stateDB, caller)
	if !ok {
		return make([]byte, 96), remainingGas, nil
	}

	// owner word + commitment + {revealed, nonce}
	result := make([]byte, 96)
	copy(result[12:32], sess.Owner.Bytes())
	copy(result[32:64], sess.Commitment[:])
	result[94] = sess.AuthorityNonce
	if sess.Revealed {
		result[95] = 1
	}
	return result, remainingGas, nil
}

// decodeRevealInput parses salt + tokenIn + tokenOut + amount, then the
// mode-specific tail: four route words in typed mode, a raw descriptor blob
// (possibly empty) in stored mode.
func (c *SwapContract) decodeRevealInput(input []byte) (*RevealParams, error) {
	if len(input) < 128 {
		return nil, fmt.Errorf("%w: reveal input too short", ErrInvalidInput)
	}

	params := &RevealParams{
		TokenIn:  common.BytesToAddress(input[44:64]),
		TokenOut: common.BytesToAddress(input[76:96]),
	}
	copy(params.Salt[:], input[:32])

	amount, err := decodeAmountWord(input[96:128])
	if err != nil {
		return nil, err
	}
	params.Amount = amount

	tail := input[128:]
	switch c.mode {
	case DispatchTyped:
		if len(tail) != 128 {
			return nil, fmt.Errorf("%w: typed reveal needs four route words", ErrInvalidInput)
		}
		if params.QuotedOut, err = decodeAmountWord(tail[:32]); err != nil {
			return nil, err
		}
		params.SlippageBps = binary.BigEndian.Uint16(tail[62:64])
		params.PlatformFeeBps = tail[95]
		if params.RouteID, err = decodeAmountWord(tail[96:128]); err != nil {
			return nil, err
		}
	case DispatchStored:
		params.Descriptor = tail
	}

	return params, nil
}

// decodeAmountWord reads a u64 from the tail of a 32-byte big-endian word.
// Values that do not fit in 64 bits are rejected rather than truncated.
func decodeAmountWord(word []byte) (uint64, error) {
	if len(word) != 32 {
		return 0, fmt.Errorf("%w: amount must be one 32-byte word", ErrInvalidInput)
	}
	for _, b := range word[:24] {
		if b != 0 {
			return 0, fmt.Errorf("%w: amount exceeds u64", ErrInvalidInput)
		}
	}
	return binary.BigEndian.Uint64(word[24:]), nil
}

// RequiredGas returns the gas required for the precompile input
func (c *SwapContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return GasReveal
	}

	selector := binary.BigEndian.Uint32(input[:4])
	switch selector {
	case SelectorCommit:
		return GasCommit
	case SelectorReveal:
		return GasReveal
	case SelectorCancel:
		return GasCancel
	case SelectorCollectFee:
		return GasCollectFee
	case SelectorStoreCall:
		return GasStoreCall
	case SelectorGetSession:
		return GasSessionRead
	default:
		return GasReveal
	}
}
