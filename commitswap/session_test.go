// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	c := newTestContract(DispatchTyped, nil)
	stateDB := NewMockStateDB()

	_, ok := c.loadSession(stateDB, testOwner)
	require.False(t, ok)

	digest := BuildCommitment(testTokenIn, testTokenOut, 500, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))

	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	require.Equal(t, testOwner, sess.Owner)
	require.Equal(t, digest, sess.Commitment)
	require.False(t, sess.Revealed)

	// Sessions are keyed per owner
	_, ok = c.loadSession(stateDB, testOther)
	require.False(t, ok)
}

func TestRecommitReplacesPendingCommitment(t *testing.T) {
	c := newTestContract(DispatchTyped, nil)
	stateDB := NewMockStateDB()

	first := BuildCommitment(testTokenIn, testTokenOut, 1, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, first))
	second := BuildCommitment(testTokenIn, testTokenOut, 2, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, second))

	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	require.Equal(t, second, sess.Commitment)
}

func TestRecommitOverRevealedFails(t *testing.T) {
	c := newTestContract(DispatchTyped, nil)
	stateDB := NewMockStateDB()

	digest := BuildCommitment(testTokenIn, testTokenOut, 1, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))

	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	sess.Revealed = true
	c.storeSession(stateDB, sess)

	err := c.commitSession(stateDB, testOwner, digest)
	require.ErrorIs(t, err, ErrAlreadyRevealed)

	// Cancel clears the reveal flag and reopens the session for commits.
	require.NoError(t, c.cancelSession(stateDB, testOwner))
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))
}

func TestAuthorityNoncePersistsAcrossRecommit(t *testing.T) {
	c := newTestContract(DispatchTyped, nil)
	stateDB := NewMockStateDB()

	digest := BuildCommitment(testTokenIn, testTokenOut, 1, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))
	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	created := sess.AuthorityNonce

	require.NoError(t, c.commitSession(stateDB, testOwner, digest))
	require.NoError(t, c.cancelSession(stateDB, testOwner))
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))

	sess, ok = c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	require.Equal(t, created, sess.AuthorityNonce, "nonce is fixed at session creation")
}

func TestCancelIdempotent(t *testing.T) {
	c := newTestContract(DispatchTyped, nil)
	stateDB := NewMockStateDB()

	// No session: cancel is a no-op success.
	require.NoError(t, c.cancelSession(stateDB, testOwner))

	digest := BuildCommitment(testTokenIn, testTokenOut, 1, testSalt())
	require.NoError(t, c.commitSession(stateDB, testOwner, digest))

	require.NoError(t, c.cancelSession(stateDB, testOwner))
	require.NoError(t, c.cancelSession(stateDB, testOwner))

	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	require.Equal(t, [CommitmentSize]byte{}, sess.Commitment)
	require.False(t, sess.Revealed)
}

func TestSessionSlotsDisjoint(t *testing.T) {
	slots := map[string]struct{}{
		sessionSlot(testOwner, wordOwner).Hex():      {},
		sessionSlot(testOwner, wordCommitment).Hex(): {},
		sessionSlot(testOwner, wordMeta).Hex():       {},
		sessionSlot(testOther, wordOwner).Hex():      {},
		sessionSlot(testOther, wordCommitment).Hex(): {},
		sessionSlot(testOther, wordMeta).Hex():       {},
	}
	require.Len(t, slots, 6)
}
