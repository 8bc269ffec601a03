package staking

import (
	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
)

// SlashValidator records one missed-block offense for addr at currentEpoch
// and applies the two-tier ladder:
//
//   - counter >= felonyThreshold: jail for validatorJailEpochLength epochs,
//     reset the counter and flag the bonded stake for the external penalty
//     mechanism.
//   - counter >= misdemeanorThreshold: jail for a single epoch; the counter
//     persists so repeated misdemeanors still escalate to a felony.
//   - otherwise: the counter persists with no status change.
//
// Re-entrant slashing while already jailed keeps incrementing the counter
// (post-release recidivism) but never shortens the jail term: the expiry is
// only ever extended when the newly computed one is later.
func SlashValidator(db vm.StateDB, addr common.Address, currentEpoch uint64) error {
	if !exists(db, addr) {
		return ErrValidatorNotFound
	}
	p := chainconfig.GetConsensusParams(db)

	counter := readMissedBlocks(db, addr) + 1

	switch {
	case counter >= uint64(p.FelonyThreshold):
		jailValidator(db, addr, currentEpoch+uint64(p.ValidatorJailEpochLength))
		writeMissedBlocks(db, addr, 0)
		markFelony(db, addr)
		log.Warn("validator felony",
			"validator", addr,
			"jailedUntil", readJailedUntil(db, addr),
			"epoch", currentEpoch)

	case counter >= uint64(p.MisdemeanorThreshold):
		jailValidator(db, addr, currentEpoch+1)
		writeMissedBlocks(db, addr, counter)
		log.Info("validator misdemeanor",
			"validator", addr,
			"missed", counter,
			"jailedUntil", readJailedUntil(db, addr))

	default:
		writeMissedBlocks(db, addr, counter)
	}
	return nil
}

// jailValidator moves addr to Jailed with the given expiry, never shortening
// an existing term.
func jailValidator(db vm.StateDB, addr common.Address, untilEpoch uint64) {
	if prev := readJailedUntil(db, addr); readStatus(db, addr) == StatusJailed && prev >= untilEpoch {
		return
	}
	writeStatus(db, addr, StatusJailed)
	writeJailedUntil(db, addr, untilEpoch)
}
