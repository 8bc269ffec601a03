package params

import (
	"fmt"
	"math/big"
)

var (
	// DevnetChainConfig is the chain parameters to run a node on the BAS dev
	// network.
	DevnetChainConfig = &ChainConfig{
		ChainID: big.NewInt(14000),
		Parlia: &ParliaConfig{
			Period: 3,
			Epoch:  DefaultEpochBlockInterval,
		},
	}

	// TestChainConfig is used by unit tests: a one-second period with a short
	// epoch so rotation boundaries are cheap to reach.
	TestChainConfig = &ChainConfig{
		ChainID: big.NewInt(1337),
		Parlia: &ParliaConfig{
			Period: 1,
			Epoch:  100,
		},
	}
)

// ChainConfig is the core config which determines the blockchain settings.
//
// ChainConfig is stored in the database on a per block basis. This means
// that any network, identified by its genesis block, can have its own
// set of configuration options.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"` // chainId identifies the chain and is used for replay protection

	Parlia *ParliaConfig `json:"parlia,omitempty"`
}

// ParliaConfig is the consensus engine config for proof-of-staked-authority
// based sealing.
type ParliaConfig struct {
	Period uint64 `json:"period"` // target block interval (seconds)
	Epoch  uint64 `json:"epoch"`  // blocks between active-set rotations
}

// String implements the fmt.Stringer interface.
func (c *ChainConfig) String() string {
	engine := "unknown"
	if c.Parlia != nil {
		engine = fmt.Sprintf("parlia(period: %d, epoch: %d)", c.Parlia.Period, c.Parlia.Epoch)
	}
	return fmt.Sprintf("{ChainID: %v Engine: %s}", c.ChainID, engine)
}

// EpochLength returns the configured rotation interval, or the devnet default
// when the parlia section is absent.
func (c *ChainConfig) EpochLength() uint64 {
	if c.Parlia == nil || c.Parlia.Epoch == 0 {
		return DefaultEpochBlockInterval
	}
	return c.Parlia.Epoch
}

// IsEpoch reports whether the given block number sits on a rotation boundary.
func (c *ChainConfig) IsEpoch(number uint64) bool {
	return number%c.EpochLength() == 0
}

// EpochNumber converts a block number into its epoch index.
func (c *ChainConfig) EpochNumber(number uint64) uint64 {
	return number / c.EpochLength()
}
