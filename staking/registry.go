package staking

import (
	"math/big"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
)

// AddValidator inserts a new registry entry for addr, managed by owner.
// Counters start at zero. The entry starts Alive, or Pending when
// initialStake is below the governed minimum self-stake (it is promoted at
// the next rotation once topped up). initialStake may be nil.
//
// Fails with ErrValidatorExists when addr is present with a non-Removed
// status. Re-adding a Removed address is permitted and reuses the existing
// list entry; accumulated fees survive (they remain claimable).
func AddValidator(db vm.StateDB, addr, owner common.Address, initialStake *big.Int) error {
	if exists(db, addr) {
		return ErrValidatorExists
	}
	firstAdd := !readRegisteredFlag(db, addr)

	if initialStake == nil {
		initialStake = new(big.Int)
	}
	status := StatusAlive
	minStake := chainconfig.GetConsensusParams(db).MinValidatorStakeAmount
	if minStake != nil && minStake.Sign() > 0 && initialStake.Cmp(minStake) < 0 {
		status = StatusPending
	}

	writeOwner(db, addr, owner)
	writeStatus(db, addr, status)
	writeMissedBlocks(db, addr, 0)
	writeJailedUntil(db, addr, 0)
	writeTotalStake(db, addr, initialStake)

	if firstAdd {
		writeRegisteredFlag(db, addr)
		appendValidatorToList(db, addr)
	}

	log.Info("validator added", "validator", addr, "owner", owner, "status", status)
	return nil
}

// RemoveValidator marks addr Removed. Removed is terminal: the entry stays in
// the list for auditability and its accumulated fees remain claimable, but
// every lifecycle call except a fresh AddValidator treats it as absent.
func RemoveValidator(db vm.StateDB, addr common.Address) error {
	if !exists(db, addr) {
		return ErrValidatorNotFound
	}
	writeStatus(db, addr, StatusRemoved)
	log.Info("validator removed", "validator", addr)
	return nil
}

// ActivateValidator marks addr Active, making it eligible for the next epoch
// rotation. currentEpoch gates re-entry of jailed validators: activating
// while the jail term has not elapsed fails with ErrInvalidState, as does
// activating a Pending (under-collateralized) entry.
func ActivateValidator(db vm.StateDB, addr common.Address, currentEpoch uint64) error {
	if !exists(db, addr) {
		return ErrValidatorNotFound
	}
	switch readStatus(db, addr) {
	case StatusAlive, StatusActive:
		// Active -> Active is a no-op re-request.
	case StatusJailed:
		if readJailedUntil(db, addr) > currentEpoch {
			return ErrInvalidState
		}
	default: // Pending
		return ErrInvalidState
	}
	writeStatus(db, addr, StatusActive)
	log.Debug("validator activated", "validator", addr, "epoch", currentEpoch)
	return nil
}

// DisableValidator demotes addr out of the active set. Valid from Active or
// Alive; disabling an Alive validator is an idempotent no-op on status.
func DisableValidator(db vm.StateDB, addr common.Address) error {
	if !exists(db, addr) {
		return ErrValidatorNotFound
	}
	switch readStatus(db, addr) {
	case StatusAlive, StatusActive:
	default:
		return ErrInvalidState
	}
	writeStatus(db, addr, StatusAlive)
	log.Debug("validator disabled", "validator", addr)
	return nil
}
