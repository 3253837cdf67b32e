// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/luxfi/commitdex/contract"
	"github.com/luxfi/commitdex/modules"
	"github.com/luxfi/commitdex/precompileconfig"
)

var _ contract.Configurator = (*configurator)(nil)
var _ contract.StatefulPrecompiledContract = (*SwapContract)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "commitSwapConfig"

// Contract addresses
var (
	ContractSessionAddress = common.HexToAddress("0x0C00000000000000000000000000000000000000")

	// DefaultRouterAddress is the allow-listed external swap-routing target.
	// Stored-mode descriptors declaring any other target are rejected.
	DefaultRouterAddress = common.HexToAddress("0x0C00000000000000000000000000000000000010")

	// DefaultTreasury receives collected protocol fees.
	DefaultTreasury = common.HexToAddress("0x9011E888251AB053B7bD1cdB598Db4f9DEd94714")
)

// CommitSwapPrecompile is the singleton instance
var CommitSwapPrecompile = &SwapContract{
	address:    ContractSessionAddress,
	mode:       DispatchTyped,
	routerAddr: DefaultRouterAddress,
	treasury:   DefaultTreasury,
	log:        log.NewTestLogger(log.InfoLevel),
}

// Module is the precompile module
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      ContractSessionAddress,
	Contract:     CommitSwapPrecompile,
	Configurator: &configurator{},
}

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

// SetRouter wires the external swap router implementation. This should be
// called during VM initialization, before the precompile serves reveals.
func SetRouter(router ExternalRouter) {
	CommitSwapPrecompile.router = router
}

// SetJournal configures receipt journaling over [db]. A nil database disables it.
func SetJournal(db database.Database) {
	CommitSwapPrecompile.journal = NewJournal(db)
}

func (*configurator) MakeConfig() precompileconfig.Config {
	return new(Config)
}

func (*configurator) Configure(
	chainConfig precompileconfig.ChainConfig,
	cfg precompileconfig.Config,
	state contract.StateDB,
	blockContext contract.ConfigurationBlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T: %v", &Config{}, cfg, cfg)
	}

	if config.Router != (common.Address{}) {
		CommitSwapPrecompile.routerAddr = config.Router
	}
	if config.Treasury != (common.Address{}) {
		CommitSwapPrecompile.treasury = config.Treasury
	}
	if config.StoredDispatch {
		CommitSwapPrecompile.mode = DispatchStored
	} else {
		CommitSwapPrecompile.mode = DispatchTyped
	}

	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade precompileconfig.Upgrade `json:"upgrade,omitempty"`

	// Router is the allow-listed external swap-routing target identity.
	Router common.Address `json:"router,omitempty"`
	// Treasury receives protocol fees.
	Treasury common.Address `json:"treasury,omitempty"`
	// StoredDispatch selects the opaque-descriptor dispatch mode for this
	// deployment; the default is the statically-typed route description.
	StoredDispatch bool `json:"storedDispatch,omitempty"`
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg precompileconfig.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.Router == other.Router &&
		c.Treasury == other.Treasury &&
		c.StoredDispatch == other.StoredDispatch
}

func (c *Config) Verify(chainConfig precompileconfig.ChainConfig) error {
	if c.Router == ContractSessionAddress {
		return fmt.Errorf("router cannot be the session precompile itself")
	}
	return nil
}
