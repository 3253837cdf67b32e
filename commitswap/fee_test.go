// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/core/tracing"
	"github.com/stretchr/testify/require"
)

func TestProtocolFee(t *testing.T) {
	tests := []struct {
		amount uint64
		want   uint64
	}{
		{0, 0},
		{999, 0},
		{1000, 1},
		{1999, 1},
		{1_000_000, 1000},
		{^uint64(0), ^uint64(0) / 1000},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ProtocolFee(tt.amount))
	}
}

// revealedSession commits and reveals for testOwner, returning the delegated
// authority holding the swap proceeds.
func revealedSession(t *testing.T, c *SwapContract, stateDB *MockStateDB, amount uint64) SigningCapability {
	t.Helper()
	params := commitFor(t, c, stateDB, amount)
	require.NoError(t, c.revealAndSwap(stateDB, testOwner, params))
	sess, ok := c.loadSession(stateDB, testOwner)
	require.True(t, ok)
	return sign(sess.Owner, sess.AuthorityNonce)
}

func TestCollectFeeTransfersToTreasury(t *testing.T) {
	router := &stubRouter{credit: 5_000_000}
	c := newTestContract(DispatchTyped, router)
	stateDB := NewMockStateDB()

	auth := revealedSession(t, c, stateDB, 1_000_000)

	fee, err := c.collectFee(stateDB, testOwner, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), fee)

	require.Equal(t, 0, uint256.NewInt(1000).Cmp(stateDB.GetBalance(c.treasury)))
	require.Equal(t, 0, uint256.NewInt(4_999_000).Cmp(stateDB.GetBalance(auth.Authority)))
}

func TestCollectFeeZeroAmount(t *testing.T) {
	c := newTestContract(DispatchTyped, &stubRouter{})
	stateDB := NewMockStateDB()

	revealedSession(t, c, stateDB, 999)

	// amount/1000 floors to zero; collection is a silent no-op.
	fee, err := c.collectFee(stateDB, testOwner, 999)
	require.NoError(t, err)
	require.Zero(t, fee)
	require.True(t, stateDB.GetBalance(c.treasury).IsZero())
}

func TestCollectFeeInsufficientProceeds(t *testing.T) {
	router := &stubRouter{credit: 500} // less than the 1000 fee
	c := newTestContract(DispatchTyped, router)
	stateDB := NewMockStateDB()

	auth := revealedSession(t, c, stateDB, 1_000_000)

	fee, err := c.collectFee(stateDB, testOwner, 1_000_000)
	require.NoError(t, err)
	require.Zero(t, fee, "underfunded proceeds must not fail the swap")
	require.Equal(t, 0, uint256.NewInt(500).Cmp(stateDB.GetBalance(auth.Authority)))
}

func TestCollectFeeRequiresReveal(t *testing.T) {
	c := newTestContract(DispatchTyped, &stubRouter{})
	stateDB := NewMockStateDB()

	// No session at all
	_, err := c.collectFee(stateDB, testOwner, 1_000_000)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Committed but not revealed
	commitFor(t, c, stateDB, 1_000_000)
	_, err = c.collectFee(stateDB, testOwner, 1_000_000)
	require.ErrorIs(t, err, ErrSwapNotRevealed)
}

func TestCollectFeeExactBalance(t *testing.T) {
	c := newTestContract(DispatchTyped, &stubRouter{})
	stateDB := NewMockStateDB()

	auth := revealedSession(t, c, stateDB, 1_000_000)
	stateDB.AddBalance(auth.Authority, uint256.NewInt(1000), tracing.BalanceChangeTransfer)

	fee, err := c.collectFee(stateDB, testOwner, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), fee)
	require.True(t, stateDB.GetBalance(auth.Authority).IsZero())
}
