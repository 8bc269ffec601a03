// Package chainconfig stores the governed consensus parameters on chain.
package chainconfig

import (
	"errors"
	"math/big"
)

// Sentinel errors returned by parameter updates.
var (
	ErrInvalidParameter = errors.New("chainconfig: invalid consensus parameter")
	ErrUnauthorized     = errors.New("chainconfig: sender is not the governance executor")
)

// ConsensusParams is the process-wide configuration record consumed by the
// registry, the slashing engine and the epoch rotator. It is set once at
// genesis and mutable only through governance-gated CHAIN_CONFIG_UPDATE
// actions.
type ConsensusParams struct {
	ActiveValidatorsLength   uint32
	EpochBlockInterval       uint64
	MisdemeanorThreshold     uint32
	FelonyThreshold          uint32
	ValidatorJailEpochLength uint32
	UndelegatePeriod         uint32

	MinValidatorStakeAmount *big.Int
	MinStakingAmount        *big.Int
}

// Validate checks the parameter invariants: every threshold field nonzero and
// felonyThreshold strictly above misdemeanorThreshold. The stake minimums are
// exempt (genesis may set them to any nonnegative amount).
func (p *ConsensusParams) Validate() error {
	if p.ActiveValidatorsLength == 0 {
		return ErrInvalidParameter
	}
	if p.EpochBlockInterval == 0 {
		return ErrInvalidParameter
	}
	if p.MisdemeanorThreshold == 0 || p.FelonyThreshold == 0 {
		return ErrInvalidParameter
	}
	if p.FelonyThreshold <= p.MisdemeanorThreshold {
		return ErrInvalidParameter
	}
	if p.ValidatorJailEpochLength == 0 || p.UndelegatePeriod == 0 {
		return ErrInvalidParameter
	}
	if p.MinValidatorStakeAmount != nil && p.MinValidatorStakeAmount.Sign() < 0 {
		return ErrInvalidParameter
	}
	if p.MinStakingAmount != nil && p.MinStakingAmount.Sign() < 0 {
		return ErrInvalidParameter
	}
	return nil
}
