// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/commitdex/modules"
	"github.com/luxfi/commitdex/precompileconfig"
)

func TestModuleRegistered(t *testing.T) {
	m, ok := modules.GetPrecompileModuleByAddress(ContractSessionAddress)
	require.True(t, ok)
	require.Equal(t, ConfigKey, m.ConfigKey)
	require.Same(t, CommitSwapPrecompile, m.Contract)

	m, ok = modules.GetPrecompileModule(ConfigKey)
	require.True(t, ok)
	require.Equal(t, ContractSessionAddress, m.Address)
}

func TestConfigKeyAndDisable(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, ConfigKey, cfg.Key())
	require.False(t, cfg.IsDisabled())
	require.Nil(t, cfg.Timestamp())

	ts := uint64(100)
	cfg = &Config{Upgrade: precompileconfig.Upgrade{BlockTimestamp: &ts, Disable: true}}
	require.True(t, cfg.IsDisabled())
	require.Equal(t, &ts, cfg.Timestamp())
}

func TestConfigVerify(t *testing.T) {
	require.NoError(t, (&Config{Router: DefaultRouterAddress}).Verify(nil))
	require.NoError(t, (&Config{}).Verify(nil))

	err := (&Config{Router: ContractSessionAddress}).Verify(nil)
	require.Error(t, err)
}

func TestConfigEqual(t *testing.T) {
	ts := uint64(100)
	base := &Config{
		Upgrade:  precompileconfig.Upgrade{BlockTimestamp: &ts},
		Router:   DefaultRouterAddress,
		Treasury: DefaultTreasury,
	}

	same := &Config{
		Upgrade:  precompileconfig.Upgrade{BlockTimestamp: &ts},
		Router:   DefaultRouterAddress,
		Treasury: DefaultTreasury,
	}
	require.True(t, base.Equal(same))

	require.False(t, base.Equal(nil))
	require.False(t, base.Equal(&Config{Router: DefaultRouterAddress}))

	other := *same
	other.StoredDispatch = true
	require.False(t, base.Equal(&other))
}

func TestConfigureAppliesSettings(t *testing.T) {
	prevRouter := CommitSwapPrecompile.routerAddr
	prevTreasury := CommitSwapPrecompile.treasury
	prevMode := CommitSwapPrecompile.mode
	defer func() {
		CommitSwapPrecompile.routerAddr = prevRouter
		CommitSwapPrecompile.treasury = prevTreasury
		CommitSwapPrecompile.mode = prevMode
	}()

	router := common.HexToAddress("0x0C00000000000000000000000000000000000042")
	treasury := common.HexToAddress("0x3333333333333333333333333333333333333333")

	cfg := &configurator{}
	require.NoError(t, cfg.Configure(nil, &Config{
		Router:         router,
		Treasury:       treasury,
		StoredDispatch: true,
	}, NewMockStateDB(), &mockBlockContext{}))

	require.Equal(t, router, CommitSwapPrecompile.routerAddr)
	require.Equal(t, treasury, CommitSwapPrecompile.treasury)
	require.Equal(t, DispatchStored, CommitSwapPrecompile.mode)

	// Zero addresses leave the previous identities in place.
	require.NoError(t, cfg.Configure(nil, &Config{}, NewMockStateDB(), &mockBlockContext{}))
	require.Equal(t, router, CommitSwapPrecompile.routerAddr)
	require.Equal(t, treasury, CommitSwapPrecompile.treasury)
	require.Equal(t, DispatchTyped, CommitSwapPrecompile.mode)
}

func TestMakeConfig(t *testing.T) {
	cfg := (&configurator{}).MakeConfig()
	require.IsType(t, &Config{}, cfg)
}
