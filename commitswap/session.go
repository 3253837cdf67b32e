// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/commitdex/contract"
)

// sessionNamespace is the fixed tag prefixed to every session storage slot.
// A session is addressable from (namespace, owner) alone; no lookup table.
var sessionNamespace = []byte("commitdex.session.v1")

// Session record words within the slot namespace.
const (
	wordOwner uint8 = iota
	wordCommitment
	wordMeta
)

// SwapSession is the per-owner commit-reveal record. One session exists per
// owner; it is reused across swap cycles rather than destroyed.
type SwapSession struct {
	Owner          common.Address
	Commitment     [CommitmentSize]byte
	Revealed       bool
	AuthorityNonce uint8
}

// sessionSlot derives the storage slot for one word of [owner]'s session.
func sessionSlot(owner common.Address, word uint8) common.Hash {
	return common.BytesToHash(crypto.Keccak256(sessionNamespace, owner.Bytes(), []byte{word}))
}

// loadSession reads the session record for [owner], if one exists.
func (c *SwapContract) loadSession(stateDB contract.StateDB, owner common.Address) (*SwapSession, bool) {
	meta := stateDB.GetState(c.address, sessionSlot(owner, wordMeta))
	if meta[0] == 0 {
		// Marker byte unset: no session has ever been created for this owner.
		return nil, false
	}

	ownerWord := stateDB.GetState(c.address, sessionSlot(owner, wordOwner))
	commitment := stateDB.GetState(c.address, sessionSlot(owner, wordCommitment))

	sess := &SwapSession{
		Owner:          common.BytesToAddress(ownerWord[12:]),
		Revealed:       meta[31] != 0,
		AuthorityNonce: meta[30],
	}
	copy(sess.Commitment[:], commitment[:])
	return sess, true
}

// storeSession persists the full session record.
func (c *SwapContract) storeSession(stateDB contract.StateDB, sess *SwapSession) {
	var ownerWord common.Hash
	copy(ownerWord[12:], sess.Owner.Bytes())
	stateDB.SetState(c.address, sessionSlot(sess.Owner, wordOwner), ownerWord)

	stateDB.SetState(c.address, sessionSlot(sess.Owner, wordCommitment), common.Hash(sess.Commitment))

	var meta common.Hash
	meta[0] = 1 // marker: record exists
	meta[30] = sess.AuthorityNonce
	if sess.Revealed {
		meta[31] = 1
	}
	stateDB.SetState(c.address, sessionSlot(sess.Owner, wordMeta), meta)
}

// commitSession opens or refreshes the caller's session with a new digest.
// Re-commit over a pending commitment overwrites it; re-commit over a
// revealed session fails until the owner cancels.
func (c *SwapContract) commitSession(stateDB contract.StateDB, caller common.Address, digest [CommitmentSize]byte) error {
	sess, ok := c.loadSession(stateDB, caller)
	if ok {
		if sess.Owner != caller {
			return ErrUnauthorized
		}
		if sess.Revealed {
			return ErrAlreadyRevealed
		}
		sess.Commitment = digest
		sess.Revealed = false
		// Authority nonce persists from creation; never rederived here.
	} else {
		_, nonce, err := DeriveAuthority(caller)
		if err != nil {
			return err
		}
		sess = &SwapSession{
			Owner:          caller,
			Commitment:     digest,
			AuthorityNonce: nonce,
		}
	}

	c.storeSession(stateDB, sess)
	return nil
}

// cancelSession resets the caller's commitment and reveal flag. Cancel is
// idempotent and legal from any state; a missing session is already in the
// cancelled state.
func (c *SwapContract) cancelSession(stateDB contract.StateDB, caller common.Address) error {
	sess, ok := c.loadSession(stateDB, caller)
	if !ok {
		return nil
	}
	if sess.Owner != caller {
		return ErrUnauthorized
	}

	sess.Commitment = [CommitmentSize]byte{}
	sess.Revealed = false
	c.storeSession(stateDB, sess)
	return nil
}
