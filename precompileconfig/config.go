// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompileconfig defines the interface precompile configurations
// must implement to be exposed through chain config JSON upgrades.
package precompileconfig

import "math/big"

// Config is implemented by each precompile's configuration struct.
type Config interface {
	// Key returns the unique json key used for this precompile in chain config.
	Key() string
	// Timestamp returns the activation timestamp, or nil if never activated.
	Timestamp() *uint64
	// IsDisabled returns true if this config disables the precompile.
	IsDisabled() bool
	// Equal reports whether the given config is equivalent to this one.
	Equal(Config) bool
	// Verify checks the config is self-consistent before activation.
	Verify(ChainConfig) error
}

// ChainConfig is the subset of chain configuration visible to precompiles.
type ChainConfig interface {
	ChainID() *big.Int
}

// Upgrade is embedded in each precompile config to carry activation metadata.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

// Timestamp returns the timestamp this upgrade activates at.
func (u *Upgrade) Timestamp() *uint64 {
	return u.BlockTimestamp
}

// Equal reports whether [other] carries the same activation metadata.
func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	if (u.BlockTimestamp == nil) != (other.BlockTimestamp == nil) {
		return false
	}
	return u.BlockTimestamp == nil || *u.BlockTimestamp == *other.BlockTimestamp
}
