// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry holds the address scheme for the swap-family precompiles.
//
// Addresses are trailing-significant 20-byte values ending with the 16-bit
// LP number:
//
//	0x0000000000000000000000000000000000PCII
//	                                      │ │└┴─ Item (8 bits)
//	                                      │ └─── Chain slot (4 bits)
//	                                      └───── Family page (4 bits)
//
// The DEX/Markets family is page 9. The commit-reveal swap subsystem holds
// items 0x00-0x1F within it; the session precompile additionally answers at
// the legacy 0x0C00-prefixed address carried over from the first deployment.
package registry

import (
	"fmt"

	"github.com/luxfi/geth/common"
)

// Family pages, aligned with the LP numbering.
const (
	FamilyMarkets uint8 = 9
)

// Chain slots.
const (
	ChainC uint8 = 2
)

// Items within the markets family reserved for the commit-reveal swap.
const (
	ItemSwapSession uint8 = 0x00
	ItemSwapRouter  uint8 = 0x10
)

// PrecompileAddress computes the trailing-significant address for the
// (family, chain, item) triple.
func PrecompileAddress(family, chain, item uint8) common.Address {
	if family > 15 || chain > 15 {
		return common.Address{}
	}
	selector := fmt.Sprintf("%x%x%02x", family, chain, item)
	return common.HexToAddress("0x0000000000000000000000000000000000" + selector)
}

// SwapAddress computes the C-Chain address for a commit-reveal swap item.
func SwapAddress(item uint8) common.Address {
	return PrecompileAddress(FamilyMarkets, ChainC, item)
}

// Low-byte addresses of the commit-reveal swap subsystem on the C-Chain.
var (
	// SwapSessionAddress is LP-9200: the session precompile.
	SwapSessionAddress = SwapAddress(ItemSwapSession)
	// SwapRouterAddress is LP-9210: the external routing target.
	SwapRouterAddress = SwapAddress(ItemSwapRouter)
)
