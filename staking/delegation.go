package staking

import (
	"math/big"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
)

// Delegate locks amount from the delegator behind the given validator. The
// stake is moved to the staking system address and counts towards the
// validator's ranking weight from the next rotation on. A validator whose
// total stake reaches the governed minimum while Pending is promoted at that
// rotation, not here.
func Delegate(db vm.StateDB, delegator, validator common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !exists(db, validator) {
		return ErrValidatorNotFound
	}
	p := chainconfig.GetConsensusParams(db)
	if p.MinStakingAmount != nil && amount.Cmp(p.MinStakingAmount) < 0 {
		return ErrInsufficientStake
	}
	if db.GetBalance(delegator).Cmp(amount) < 0 {
		return ErrInsufficientStake
	}

	db.SubBalance(delegator, amount)
	db.AddBalance(params.StakingAddress, amount)
	writeDelegatedStake(db, delegator, validator, new(big.Int).Add(readDelegatedStake(db, delegator, validator), amount))
	writeTotalStake(db, validator, new(big.Int).Add(readTotalStake(db, validator), amount))

	log.Debug("stake delegated", "delegator", delegator, "validator", validator, "amount", amount)
	return nil
}

// Undelegate schedules amount of the delegator's stake for release. The stake
// stops counting towards the validator immediately but stays locked on the
// staking address until undelegatePeriod epochs have passed. Repeated calls
// before the claim accumulate into one pending release with the latest unlock
// epoch.
func Undelegate(db vm.StateDB, delegator, validator common.Address, amount *big.Int, currentEpoch uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	staked := readDelegatedStake(db, delegator, validator)
	if staked.Cmp(amount) < 0 {
		return ErrInsufficientStake
	}

	p := chainconfig.GetConsensusParams(db)
	writeDelegatedStake(db, delegator, validator, new(big.Int).Sub(staked, amount))
	total := new(big.Int).Sub(readTotalStake(db, validator), amount)
	writeTotalStake(db, validator, total)

	pending, _ := readPendingUndelegation(db, delegator, validator)
	unlock := currentEpoch + uint64(p.UndelegatePeriod)
	writePendingUndelegation(db, delegator, validator, new(big.Int).Add(pending, amount), unlock)

	// An under-collateralized validator loses its rotation eligibility until
	// its stake recovers.
	if p.MinValidatorStakeAmount != nil && total.Cmp(p.MinValidatorStakeAmount) < 0 {
		switch readStatus(db, validator) {
		case StatusAlive, StatusActive:
			writeStatus(db, validator, StatusPending)
			log.Info("validator stake below minimum", "validator", validator, "stake", total)
		}
	}

	log.Debug("stake undelegated", "delegator", delegator, "validator", validator, "amount", amount, "unlockEpoch", unlock)
	return nil
}

// ClaimUndelegated pays out a matured pending release back to the delegator.
func ClaimUndelegated(db vm.StateDB, delegator, validator common.Address, currentEpoch uint64) error {
	pending, unlock := readPendingUndelegation(db, delegator, validator)
	if pending.Sign() == 0 {
		return ErrNothingToClaim
	}
	if unlock > currentEpoch {
		return ErrInvalidState
	}

	writePendingUndelegation(db, delegator, validator, new(big.Int), 0)
	db.SubBalance(params.StakingAddress, pending)
	db.AddBalance(delegator, pending)

	log.Debug("undelegated stake claimed", "delegator", delegator, "validator", validator, "amount", pending)
	return nil
}
