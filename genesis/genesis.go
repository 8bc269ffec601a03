// Package genesis builds the chain's initial state: consensus parameters,
// the seeded validator registry, governance settings, faucet balances and
// the deployer allowlist, all written through the same storage layer the
// running chain uses.
package genesis

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bas-network/gbas/basdb"
	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/crypto"
	"github.com/bas-network/gbas/governance"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/staking"
)

// ConsensusParams is the JSON shape of the consensus parameter block. Stake
// minimums accept hex (0x-prefixed) or decimal wei strings.
type ConsensusParams struct {
	ActiveValidatorsLength   uint32 `json:"activeValidatorsLength"`
	EpochBlockInterval       uint64 `json:"epochBlockInterval"`
	MisdemeanorThreshold     uint32 `json:"misdemeanorThreshold"`
	FelonyThreshold          uint32 `json:"felonyThreshold"`
	ValidatorJailEpochLength uint32 `json:"validatorJailEpochLength"`
	UndelegatePeriod         uint32 `json:"undelegatePeriod"`
	MinValidatorStakeAmount  string `json:"minValidatorStakeAmount"`
	MinStakingAmount         string `json:"minStakingAmount"`
}

// Config is the genesis specification consumed by Build.
type Config struct {
	ChainID         uint64                    `json:"chainId"`
	Deployers       []common.Address          `json:"deployers"`
	Validators      []common.Address          `json:"validators"`
	SystemTreasury  *common.Address           `json:"systemTreasury,omitempty"`
	ConsensusParams ConsensusParams           `json:"consensusParams"`
	VotingPeriod    uint64                    `json:"votingPeriod"`
	Faucet          map[common.Address]string `json:"faucet,omitempty"`
	CommissionRate  uint64                    `json:"commissionRate"`
	InitialStakes   map[common.Address]string `json:"initialStakes,omitempty"`
}

// ChainConfig derives the node-level chain configuration from the genesis.
func (c *Config) ChainConfig() *params.ChainConfig {
	return &params.ChainConfig{
		ChainID: new(big.Int).SetUint64(c.ChainID),
		Parlia: &params.ParliaConfig{
			Period: 3,
			Epoch:  c.ConsensusParams.EpochBlockInterval,
		},
	}
}

// parseAmount accepts a wei amount as a 0x-prefixed hex or decimal string.
// Empty means zero.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("genesis: invalid amount %q", s)
	}
	return n, nil
}

func deployerSlot(addr common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte("deployer\x00"), addr[:]))
}

// IsDeployer reports whether addr was allowlisted as a contract deployer.
func IsDeployer(db *state.StateDB, addr common.Address) bool {
	return !db.GetState(params.DeployerProxyAddress, deployerSlot(addr)).IsZero()
}

var (
	treasurySlot   = common.BytesToHash(crypto.Keccak256([]byte("systemreward\x00treasury")))
	commissionSlot = common.BytesToHash(crypto.Keccak256([]byte("systemreward\x00commissionRate")))
)

// Treasury returns the configured system treasury. The zero address means
// fees stay on the system reward balance.
func Treasury(db *state.StateDB) common.Address {
	word := db.GetState(params.SystemRewardAddress, treasurySlot)
	return common.BytesToAddress(word[common.HashLength-common.AddressLength:])
}

// Build seeds a fresh state from the genesis config and commits it when kv is
// non-nil. Validators start with their initial stake as owner self-stake;
// the stake total is escrowed on the staking address.
func Build(c *Config, kv basdb.KeyValueStore) (*state.StateDB, error) {
	db := state.New(kv)

	minValidatorStake, err := parseAmount(c.ConsensusParams.MinValidatorStakeAmount)
	if err != nil {
		return nil, err
	}
	minStaking, err := parseAmount(c.ConsensusParams.MinStakingAmount)
	if err != nil {
		return nil, err
	}
	err = chainconfig.Init(db, &chainconfig.ConsensusParams{
		ActiveValidatorsLength:   c.ConsensusParams.ActiveValidatorsLength,
		EpochBlockInterval:       c.ConsensusParams.EpochBlockInterval,
		MisdemeanorThreshold:     c.ConsensusParams.MisdemeanorThreshold,
		FelonyThreshold:          c.ConsensusParams.FelonyThreshold,
		ValidatorJailEpochLength: c.ConsensusParams.ValidatorJailEpochLength,
		UndelegatePeriod:         c.ConsensusParams.UndelegatePeriod,
		MinValidatorStakeAmount:  minValidatorStake,
		MinStakingAmount:         minStaking,
	})
	if err != nil {
		return nil, err
	}
	if err := governance.Init(db, c.VotingPeriod); err != nil {
		return nil, err
	}

	escrow := new(big.Int)
	for _, validator := range c.Validators {
		stake, err := parseAmount(c.InitialStakes[validator])
		if err != nil {
			return nil, err
		}
		if err := staking.AddValidator(db, validator, validator, stake); err != nil {
			return nil, fmt.Errorf("genesis: seed validator %s: %w", validator.Hex(), err)
		}
		escrow.Add(escrow, stake)
	}
	if escrow.Sign() > 0 {
		db.AddBalance(params.StakingAddress, escrow)
	}

	for addr, amount := range c.Faucet {
		funds, err := parseAmount(amount)
		if err != nil {
			return nil, err
		}
		db.AddBalance(addr, funds)
	}

	for _, deployer := range c.Deployers {
		db.SetState(params.DeployerProxyAddress, deployerSlot(deployer), common.BigToHash(big.NewInt(1)))
	}
	if c.SystemTreasury != nil {
		db.SetState(params.SystemRewardAddress, treasurySlot, common.BytesToHash(c.SystemTreasury.Bytes()))
	}
	db.SetState(params.SystemRewardAddress, commissionSlot, common.BigToHash(new(big.Int).SetUint64(c.CommissionRate)))

	if kv != nil {
		if err := db.Commit(); err != nil {
			return nil, err
		}
	}
	log.Info("genesis state built", "chainId", c.ChainID, "validators", len(c.Validators))
	return db, nil
}
