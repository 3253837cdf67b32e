// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"encoding/binary"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// CommitmentSize is the size of a swap commitment digest in bytes.
const CommitmentSize = 32

// SaltSize is the size of the commitment salt in bytes.
const SaltSize = 32

// BuildCommitment computes the commitment digest binding a swap's parameters
// to a secret salt:
//
//	keccak256(tokenIn ‖ tokenOut ‖ amount (little-endian u64) ‖ salt)
//
// The field order and amount encoding are part of the wire contract; clients
// compute the same digest off-chain before committing.
func BuildCommitment(tokenIn, tokenOut common.Address, amount uint64, salt [SaltSize]byte) [CommitmentSize]byte {
	var amountLE [8]byte
	binary.LittleEndian.PutUint64(amountLE[:], amount)

	var digest [CommitmentSize]byte
	copy(digest[:], crypto.Keccak256(tokenIn.Bytes(), tokenOut.Bytes(), amountLE[:], salt[:]))
	return digest
}

// VerifyCommitment recomputes the digest for the revealed parameters and
// compares it to the stored commitment. All inputs are public at reveal time;
// pre-image secrecy only matters before the reveal.
func VerifyCommitment(digest [CommitmentSize]byte, tokenIn, tokenOut common.Address, amount uint64, salt [SaltSize]byte) bool {
	return BuildCommitment(tokenIn, tokenOut, amount, salt) == digest
}
