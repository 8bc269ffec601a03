package staking

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
)

// rankedEntry pairs a candidate with its ranking stake.
type rankedEntry struct {
	addr  common.Address
	stake *big.Int
}

// eligible reports whether addr may participate in the rotation closing
// currentEpoch: Alive or Active, a Jailed entry whose term has elapsed, or a
// Pending entry whose stake reached the governed minimum.
func eligible(db vm.StateDB, addr common.Address, currentEpoch uint64, minStake *big.Int) bool {
	switch readStatus(db, addr) {
	case StatusAlive, StatusActive:
		return true
	case StatusJailed:
		return readJailedUntil(db, addr) <= currentEpoch
	case StatusPending:
		return minStake == nil || readTotalStake(db, addr).Cmp(minStake) >= 0
	default:
		return false
	}
}

// ComputeActiveSet ranks the eligible validators for the rotation closing
// currentEpoch and returns the capped active set, sorted ascending by
// address. This is a pure, deterministic function of registry state and the
// governed parameters: two independent runs over the same state produce
// byte-identical results.
//
// Ranking: stake descending with address ascending as tiebreak, stable
// truncation to activeValidatorsLength, then a final re-sort by address
// ascending so the returned set has a canonical order.
func ComputeActiveSet(db vm.StateDB, currentEpoch uint64) []common.Address {
	p := chainconfig.GetConsensusParams(db)
	count := readValidatorCount(db)

	entries := make([]rankedEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		addr := readValidatorAt(db, i)
		if eligible(db, addr, currentEpoch, p.MinValidatorStakeAmount) {
			entries = append(entries, rankedEntry{addr, readTotalStake(db, addr)})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		cmp := entries[i].stake.Cmp(entries[j].stake)
		if cmp != 0 {
			return cmp > 0 // higher stake first
		}
		return bytes.Compare(entries[i].addr[:], entries[j].addr[:]) < 0
	})
	if uint64(len(entries)) > uint64(p.ActiveValidatorsLength) {
		entries = entries[:p.ActiveValidatorsLength]
	}

	result := make([]common.Address, len(entries))
	for i, e := range entries {
		result[i] = e.addr
	}
	sort.Sort(addressAscending(result))
	return result
}

// ProcessEpoch materializes the active set for the rotation closing
// currentEpoch and writes the resulting statuses back to the registry:
//
//  1. Jailed validators whose term elapsed are released to Alive.
//  2. Pending validators that reached the minimum stake are promoted to Alive.
//  3. The top activeValidatorsLength eligible validators become Active;
//     every other previously-Active validator is demoted to Alive.
//
// Returns the new active set (ascending by address).
func ProcessEpoch(db vm.StateDB, currentEpoch uint64) []common.Address {
	p := chainconfig.GetConsensusParams(db)
	count := readValidatorCount(db)

	// Release and promote before ranking so this rotation already considers
	// the affected validators.
	for i := uint64(0); i < count; i++ {
		addr := readValidatorAt(db, i)
		switch readStatus(db, addr) {
		case StatusJailed:
			if readJailedUntil(db, addr) <= currentEpoch {
				writeStatus(db, addr, StatusAlive)
				log.Info("validator released from jail", "validator", addr, "epoch", currentEpoch)
			}
		case StatusPending:
			min := p.MinValidatorStakeAmount
			if min == nil || readTotalStake(db, addr).Cmp(min) >= 0 {
				writeStatus(db, addr, StatusAlive)
			}
		}
	}

	active := ComputeActiveSet(db, currentEpoch)
	inSet := make(map[common.Address]struct{}, len(active))
	for _, addr := range active {
		inSet[addr] = struct{}{}
		writeStatus(db, addr, StatusActive)
	}
	for i := uint64(0); i < count; i++ {
		addr := readValidatorAt(db, i)
		if _, ok := inSet[addr]; ok {
			continue
		}
		if readStatus(db, addr) == StatusActive {
			writeStatus(db, addr, StatusAlive)
		}
	}

	log.Info("epoch rotated", "epoch", currentEpoch, "active", len(active))
	return active
}
