package staking

import (
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
)

// DepositFee credits amount to the validator's accumulated fee balance. The
// funds themselves are expected to sit on the staking system address already;
// this only moves the bookkeeping. Depositing to a removed or unknown
// validator fails with ErrValidatorNotFound.
func DepositFee(db vm.StateDB, validator common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !exists(db, validator) {
		return ErrValidatorNotFound
	}
	writeFees(db, validator, new(big.Int).Add(readFees(db, validator), amount))
	return nil
}

// ClaimFees pays out the validator's accumulated fees to its owner and resets
// the balance to zero. Only the registered owner may claim. Unlike the other
// lifecycle calls this also works for a Removed validator, so owners can
// drain the pot after retiring an entry.
func ClaimFees(db vm.StateDB, validator, claimant common.Address) error {
	if !readRegisteredFlag(db, validator) {
		return ErrValidatorNotFound
	}
	if readOwner(db, validator) != claimant {
		return ErrNotOwner
	}
	fees := readFees(db, validator)
	if fees.Sign() == 0 {
		return ErrNothingToClaim
	}
	writeFees(db, validator, new(big.Int))
	db.SubBalance(params.StakingAddress, fees)
	db.AddBalance(claimant, fees)

	log.Info("validator fees claimed", "validator", validator, "owner", claimant, "amount", fees)
	return nil
}
