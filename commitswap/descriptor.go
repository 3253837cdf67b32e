// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/commitdex/contract"
)

// Descriptor limits. A descriptor above these bounds is rejected at decode
// time rather than truncated.
const (
	MaxDescriptorAccounts = 16
	MaxDescriptorPayload  = 4096
)

// blobNamespace is the slot tag for stored call descriptors.
var blobNamespace = []byte("commitdex.callblob.v1")

// CallDescriptor is the dynamically supplied external call description used
// in stored-dispatch mode: the declared target, the accounts the router needs
// access to, and an opaque payload forwarded verbatim.
//
// Wire format:
//
//	target (20) ‖ accountCount (u8) ‖ accounts (20 each) ‖ payloadLen (u32 BE) ‖ payload
type CallDescriptor struct {
	Target   common.Address
	Accounts []common.Address
	Payload  []byte
}

// Encode serializes the descriptor to its wire format.
func (d *CallDescriptor) Encode() []byte {
	out := make([]byte, 0, 20+1+20*len(d.Accounts)+4+len(d.Payload))
	out = append(out, d.Target.Bytes()...)
	out = append(out, byte(len(d.Accounts)))
	for _, acct := range d.Accounts {
		out = append(out, acct.Bytes()...)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(d.Payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, d.Payload...)
	return out
}

// DecodeCallDescriptor parses a descriptor from its wire format. The declared
// target is NOT trusted here; the dispatcher checks it against the allow-listed
// router before any call is issued.
func DecodeCallDescriptor(data []byte) (*CallDescriptor, error) {
	if len(data) < 25 {
		return nil, fmt.Errorf("%w: descriptor too short (%d bytes)", ErrDeserializeFailed, len(data))
	}

	d := &CallDescriptor{Target: common.BytesToAddress(data[:20])}
	n := int(data[20])
	if n > MaxDescriptorAccounts {
		return nil, fmt.Errorf("%w: %d accounts exceeds limit %d", ErrDeserializeFailed, n, MaxDescriptorAccounts)
	}

	offset := 21
	if len(data) < offset+20*n+4 {
		return nil, fmt.Errorf("%w: truncated account list", ErrDeserializeFailed)
	}
	d.Accounts = make([]common.Address, n)
	for i := 0; i < n; i++ {
		d.Accounts[i] = common.BytesToAddress(data[offset : offset+20])
		offset += 20
	}

	payloadLen := binary.BigEndian.Uint32(data[offset : offset+4])
	offset += 4
	if payloadLen > MaxDescriptorPayload {
		return nil, fmt.Errorf("%w: payload %d exceeds limit %d", ErrDeserializeFailed, payloadLen, MaxDescriptorPayload)
	}
	if len(data) != offset+int(payloadLen) {
		return nil, fmt.Errorf("%w: payload length mismatch", ErrDeserializeFailed)
	}
	d.Payload = make([]byte, payloadLen)
	copy(d.Payload, data[offset:])

	return d, nil
}

// maxCallBlobSize bounds what the store operation accepts: the largest
// descriptor that could still decode successfully.
const maxCallBlobSize = 20 + 1 + 20*MaxDescriptorAccounts + 4 + MaxDescriptorPayload

func blobMetaSlot(owner common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(blobNamespace, owner.Bytes(), []byte{0}))
}

func blobDataSlot(owner common.Address, chunk uint32) common.Hash {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], chunk)
	return common.BytesToHash(crypto.Keccak256(blobNamespace, owner.Bytes(), []byte{1}, idx[:]))
}

// storeCallBlob persists an opaque pre-authorized call blob for the caller,
// replacing any previous one. The blob's lifetime is independent of the
// session; it may be stored before or after a commitment exists. Validation
// happens at reveal, not here.
func (c *SwapContract) storeCallBlob(stateDB contract.StateDB, caller common.Address, blob []byte) error {
	if len(blob) == 0 || len(blob) > maxCallBlobSize {
		return fmt.Errorf("%w: blob size %d out of range", ErrInvalidInput, len(blob))
	}

	_, nonce, err := DeriveAuthority(caller)
	if err != nil {
		return err
	}

	var meta common.Hash
	meta[0] = 1
	binary.BigEndian.PutUint32(meta[1:5], uint32(len(blob)))
	meta[5] = nonce
	copy(meta[12:], caller.Bytes()) // owner recorded alongside length and nonce
	stateDB.SetState(c.address, blobMetaSlot(caller), meta)

	for chunk := uint32(0); int(chunk)*32 < len(blob); chunk++ {
		var word common.Hash
		copy(word[:], blob[chunk*32:])
		stateDB.SetState(c.address, blobDataSlot(caller, chunk), word)
	}
	return nil
}

// loadCallBlob reads back the caller's stored call blob, if any.
func (c *SwapContract) loadCallBlob(stateDB contract.StateDB, owner common.Address) ([]byte, bool) {
	meta := stateDB.GetState(c.address, blobMetaSlot(owner))
	if meta[0] == 0 {
		return nil, false
	}
	if common.BytesToAddress(meta[12:]) != owner {
		return nil, false
	}

	length := binary.BigEndian.Uint32(meta[1:5])
	if length == 0 || length > maxCallBlobSize {
		return nil, false
	}

	blob := make([]byte, length)
	for chunk := uint32(0); int(chunk)*32 < int(length); chunk++ {
		word := stateDB.GetState(c.address, blobDataSlot(owner, chunk))
		copy(blob[chunk*32:], word[:])
	}
	return blob, true
}
