// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/commitdex/modules"
)

// authorityNamespace is the fixed seed tag for delegated authority derivation.
// Together with the owner and a nonce it fully determines the authority
// address; no private key corresponds to it.
var authorityNamespace = []byte("commitdex.authority.v1")

// AuthorityAt computes the delegated authority address for [owner] at [nonce].
// It is a pure function; signing operations reuse the nonce persisted at
// session creation rather than rederiving from scratch.
func AuthorityAt(owner common.Address, nonce uint8) common.Address {
	hasher := blake3.New()
	hasher.Write(authorityNamespace)
	hasher.Write(owner[:])
	hasher.Write([]byte{nonce})

	var out common.Address
	copy(out[:], hasher.Sum(nil)[12:32])
	return out
}

// DeriveAuthority finds the highest nonce whose derived address does not
// collide with a reserved precompile range or the blackhole address.
// The result is computed once per session and the nonce persisted.
func DeriveAuthority(owner common.Address) (common.Address, uint8, error) {
	for nonce := 255; nonce >= 0; nonce-- {
		candidate := AuthorityAt(owner, uint8(nonce))
		if modules.ReservedAddress(candidate) || candidate == modules.BlackholeAddr {
			continue
		}
		return candidate, uint8(nonce), nil
	}
	return common.Address{}, 0, ErrNoAuthorityNonce
}

// SigningCapability is the proof that program logic, not a private key,
// authorizes a transfer or external call on behalf of [Owner]. It is scoped
// to the derivation inputs that produced it and is only constructed inside
// this package after the owner's preconditions have been checked.
type SigningCapability struct {
	Authority common.Address
	Owner     common.Address
	Nonce     uint8
}

// sign produces the capability for [owner] using the persisted [nonce].
func sign(owner common.Address, nonce uint8) SigningCapability {
	return SigningCapability{
		Authority: AuthorityAt(owner, nonce),
		Owner:     owner,
		Nonce:     nonce,
	}
}

// Valid reports whether the capability's authority matches its derivation
// inputs. Routers and transfer sinks must reject capabilities that fail this.
func (c SigningCapability) Valid() bool {
	return c.Authority != (common.Address{}) && c.Authority == AuthorityAt(c.Owner, c.Nonce)
}
