// Package staking implements the BAS validator registry, the two-tier
// slashing ladder and the epoch rotation of the active validator set.
package staking

import (
	"errors"
	"math/big"

	"github.com/bas-network/gbas/common"
)

// ValidatorStatus represents the lifecycle state of a validator.
type ValidatorStatus uint8

const (
	// StatusNotFound is the default word for an address that was never added.
	StatusNotFound ValidatorStatus = 0
	// StatusAlive means registered and eligible, but not in the active set.
	StatusAlive ValidatorStatus = 1
	// StatusActive means selected into the consensus-participating subset.
	StatusActive ValidatorStatus = 2
	// StatusPending means registered with self-stake below the minimum;
	// promoted to Alive once the stake reaches minValidatorStakeAmount.
	StatusPending ValidatorStatus = 3
	// StatusJailed means suspended until JailedUntilEpoch has elapsed.
	StatusJailed ValidatorStatus = 4
	// StatusRemoved is terminal; re-entry requires a fresh VALIDATOR_ADD.
	StatusRemoved ValidatorStatus = 5
)

// String implements fmt.Stringer for log output.
func (s ValidatorStatus) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusActive:
		return "active"
	case StatusPending:
		return "pending"
	case StatusJailed:
		return "jailed"
	case StatusRemoved:
		return "removed"
	default:
		return "notfound"
	}
}

// Validator is the in-memory view of one registry entry read from state.
type Validator struct {
	Address            common.Address
	Owner              common.Address
	Status             ValidatorStatus
	MissedBlockCounter uint64
	JailedUntilEpoch   uint64 // meaningless unless Status == StatusJailed
	AccumulatedFees    *big.Int
	TotalStake         *big.Int // self-stake plus delegations; rotation ranking input
}

// Sentinel errors returned by registry, slashing and fee operations.
var (
	ErrValidatorNotFound = errors.New("staking: validator not found")
	ErrValidatorExists   = errors.New("staking: validator already exists")
	ErrInvalidState      = errors.New("staking: transition not permitted from current status")
	ErrNotOwner          = errors.New("staking: sender is not the validator owner")
	ErrInsufficientStake = errors.New("staking: amount below minimum")
	ErrNothingToClaim    = errors.New("staking: nothing to claim")
	ErrInvalidAmount     = errors.New("staking: amount must be positive")
	ErrUnauthorized      = errors.New("staking: unauthorized sender")
)
