// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"

	"github.com/luxfi/commitdex/contract"
)

// FeeDivisor fixes the protocol fee at 0.1% (10 basis points): fee = amount / 1000.
const FeeDivisor uint64 = 1000

// ProtocolFee returns the fee for a swap of [amount]. Integer division floors;
// amounts under the divisor carry no fee.
func ProtocolFee(amount uint64) uint64 {
	return amount / FeeDivisor
}

// collectFee skims the protocol fee from the delegated authority's proceeds
// into the treasury. Collection is best-effort: a zero fee or an underfunded
// proceeds account yields feeTaken=0 without error. Callers are responsible
// for sequencing this with reveal in one execution unit; nothing here stops a
// second collection after a single reveal if the balance allows it.
func (c *SwapContract) collectFee(stateDB contract.StateDB, caller common.Address, amount uint64) (uint64, error) {
	sess, ok := c.loadSession(stateDB, caller)
	if !ok {
		return 0, ErrUnauthorized
	}
	if !sess.Revealed {
		return 0, ErrSwapNotRevealed
	}
	if sess.Owner != caller {
		return 0, ErrUnauthorized
	}

	fee := ProtocolFee(amount)
	if fee == 0 {
		return 0, nil
	}

	auth := sign(sess.Owner, sess.AuthorityNonce)
	feeAmount := uint256.NewInt(fee)
	if stateDB.GetBalance(auth.Authority).Cmp(feeAmount) < 0 {
		return 0, nil
	}

	stateDB.SubBalance(auth.Authority, feeAmount, tracing.BalanceChangeTransfer)
	stateDB.AddBalance(c.treasury, feeAmount, tracing.BalanceChangeTransfer)

	c.log.Info("protocol fee collected", "owner", sess.Owner, "fee", fee)
	return fee, nil
}
