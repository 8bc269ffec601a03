package params

import (
	"math/big"

	"github.com/bas-network/gbas/common"
)

// BAS system addresses. These are fixed, well-known addresses used by the protocol.
// The staking registry and slashing indicator live in the 0x..1000 range,
// the governed configuration contracts in 0x..7000.
var (
	// StakingAddress holds the validator registry, fee and delegation state
	// via storage slots.
	StakingAddress = common.HexToAddress("0x0000000000000000000000000000000000001000")

	// SlashingIndicatorAddress accumulates per-validator felony marks for the
	// external treasury to execute stake penalties against.
	SlashingIndicatorAddress = common.HexToAddress("0x0000000000000000000000000000000000001001")

	// SystemRewardAddress collects the protocol share of block fees.
	SystemRewardAddress = common.HexToAddress("0x0000000000000000000000000000000000001002")

	// StakingPoolAddress escrows delegated stake awaiting release.
	StakingPoolAddress = common.HexToAddress("0x0000000000000000000000000000000000007001")

	// GovernanceAddress is the authorized sender of governed configuration
	// changes; the governance executor dispatches passed proposals from it.
	GovernanceAddress = common.HexToAddress("0x0000000000000000000000000000000000007002")

	// ChainConfigAddress stores the consensus parameters via storage slots.
	ChainConfigAddress = common.HexToAddress("0x0000000000000000000000000000000000007003")

	// RuntimeUpgradeAddress is reserved for governed code upgrades.
	RuntimeUpgradeAddress = common.HexToAddress("0x0000000000000000000000000000000000007004")

	// DeployerProxyAddress is reserved for the permissioned deployer registry.
	DeployerProxyAddress = common.HexToAddress("0x0000000000000000000000000000000000007005")

	// IntermediarySystemAddress is the sentinel sender for block-production
	// system transactions (slash reports, fee deposits).
	IntermediarySystemAddress = common.HexToAddress("0xfffffffffffffffffffffffffffffffffffffffe")
)

// Devnet consensus parameter defaults.
var (
	// DefaultActiveValidatorsLength caps the consensus-participating subset.
	DefaultActiveValidatorsLength = uint32(25)

	// DefaultEpochBlockInterval is the number of blocks per epoch.
	DefaultEpochBlockInterval = uint64(12_000)

	// DefaultMisdemeanorThreshold is the missed-block count triggering a
	// single-epoch jail term.
	DefaultMisdemeanorThreshold = uint32(50)

	// DefaultFelonyThreshold is the missed-block count triggering an extended
	// jail term plus a stake penalty.
	DefaultFelonyThreshold = uint32(150)

	// DefaultValidatorJailEpochLength is the felony jail term in epochs.
	DefaultValidatorJailEpochLength = uint32(7)

	// DefaultUndelegatePeriod is the withdrawal delay in epochs.
	DefaultUndelegatePeriod = uint32(6)

	// DefaultMinValidatorStakeAmount is the self-stake below which a
	// validator waits in Pending. 1 BAS.
	DefaultMinValidatorStakeAmount = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18))

	// DefaultMinStakingAmount is the smallest accepted delegation. 1 BAS.
	DefaultMinStakingAmount = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18))
)

// SysActionGas is the fixed gas cost charged for any system action
// transaction, on top of the intrinsic gas.
const SysActionGas uint64 = 100_000
