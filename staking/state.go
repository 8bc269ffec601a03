package staking

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/crypto"
	"github.com/bas-network/gbas/params"
)

// addressAscending sorts common.Address slices in ascending byte order.
// Required for deterministic validator ordering.
type addressAscending []common.Address

func (a addressAscending) Len() int      { return len(a) }
func (a addressAscending) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a addressAscending) Less(i, j int) bool {
	return bytes.Compare(a[i][:], a[j][:]) < 0
}

// validatorSlot hashes (addr[20B] || 0x00 || field) for a per-validator
// storage slot. addr is always exactly 20 bytes, so the keying is
// unambiguous.
func validatorSlot(addr common.Address, field string) common.Hash {
	key := make([]byte, 0, common.AddressLength+1+len(field))
	key = append(key, addr.Bytes()...)
	key = append(key, 0x00)
	key = append(key, field...)
	return common.BytesToHash(crypto.Keccak256(key))
}

// delegationSlot hashes (delegator || validator || 0x00 || field) for a
// per-delegation storage slot.
func delegationSlot(delegator, validator common.Address, field string) common.Hash {
	key := make([]byte, 0, 2*common.AddressLength+1+len(field))
	key = append(key, delegator.Bytes()...)
	key = append(key, validator.Bytes()...)
	key = append(key, 0x00)
	key = append(key, field...)
	return common.BytesToHash(crypto.Keccak256(key))
}

// validatorCountSlot stores the total count of ever-registered addresses.
var validatorCountSlot = common.BytesToHash(
	crypto.Keccak256([]byte("staking\x00validatorCount")))

// validatorListSlot returns the slot for the i-th registered address
// (0-based). The list is append-only; removed validators remain with
// status=Removed.
func validatorListSlot(i uint64) common.Hash {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], i)
	return common.BytesToHash(
		crypto.Keccak256(append([]byte("staking\x00validatorList\x00"), idx[:]...)))
}

func readCounterWord(db vm.StateDB, owner common.Address, slot common.Hash) uint64 {
	raw := db.GetState(owner, slot)
	return binary.BigEndian.Uint64(raw[common.HashLength-8:])
}

func writeCounterWord(db vm.StateDB, owner common.Address, slot common.Hash, n uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[common.HashLength-8:], n)
	db.SetState(owner, slot, word)
}

func readValidatorCount(db vm.StateDB) uint64 {
	return readCounterWord(db, params.StakingAddress, validatorCountSlot)
}

func writeValidatorCount(db vm.StateDB, n uint64) {
	writeCounterWord(db, params.StakingAddress, validatorCountSlot, n)
}

func readValidatorAt(db vm.StateDB, i uint64) common.Address {
	raw := db.GetState(params.StakingAddress, validatorListSlot(i))
	return common.BytesToAddress(raw[common.HashLength-common.AddressLength:])
}

func appendValidatorToList(db vm.StateDB, addr common.Address) {
	n := readValidatorCount(db)
	var val common.Hash
	copy(val[common.HashLength-common.AddressLength:], addr.Bytes())
	db.SetState(params.StakingAddress, validatorListSlot(n), val)
	writeValidatorCount(db, n+1)
}

// readRegisteredFlag returns true if addr has ever been added (persists
// through removal, unlike status which becomes Removed).
func readRegisteredFlag(db vm.StateDB, addr common.Address) bool {
	raw := db.GetState(params.StakingAddress, validatorSlot(addr, "registered"))
	return raw[common.HashLength-1] != 0
}

func writeRegisteredFlag(db vm.StateDB, addr common.Address) {
	var val common.Hash
	val[common.HashLength-1] = 1
	db.SetState(params.StakingAddress, validatorSlot(addr, "registered"), val)
}

// --- per-validator fields ---

func readStatus(db vm.StateDB, addr common.Address) ValidatorStatus {
	raw := db.GetState(params.StakingAddress, validatorSlot(addr, "status"))
	return ValidatorStatus(raw[common.HashLength-1])
}

func writeStatus(db vm.StateDB, addr common.Address, s ValidatorStatus) {
	var val common.Hash
	val[common.HashLength-1] = byte(s)
	db.SetState(params.StakingAddress, validatorSlot(addr, "status"), val)
}

func readOwner(db vm.StateDB, addr common.Address) common.Address {
	raw := db.GetState(params.StakingAddress, validatorSlot(addr, "owner"))
	return common.BytesToAddress(raw[common.HashLength-common.AddressLength:])
}

func writeOwner(db vm.StateDB, addr, owner common.Address) {
	db.SetState(params.StakingAddress, validatorSlot(addr, "owner"), owner.Hash())
}

func readMissedBlocks(db vm.StateDB, addr common.Address) uint64 {
	return readCounterWord(db, params.StakingAddress, validatorSlot(addr, "missedBlocks"))
}

func writeMissedBlocks(db vm.StateDB, addr common.Address, n uint64) {
	writeCounterWord(db, params.StakingAddress, validatorSlot(addr, "missedBlocks"), n)
}

func readJailedUntil(db vm.StateDB, addr common.Address) uint64 {
	return readCounterWord(db, params.StakingAddress, validatorSlot(addr, "jailedUntil"))
}

func writeJailedUntil(db vm.StateDB, addr common.Address, epoch uint64) {
	writeCounterWord(db, params.StakingAddress, validatorSlot(addr, "jailedUntil"), epoch)
}

func readFees(db vm.StateDB, addr common.Address) *big.Int {
	return db.GetState(params.StakingAddress, validatorSlot(addr, "fees")).Big()
}

func writeFees(db vm.StateDB, addr common.Address, amount *big.Int) {
	db.SetState(params.StakingAddress, validatorSlot(addr, "fees"), common.BigToHash(amount))
}

func readTotalStake(db vm.StateDB, addr common.Address) *big.Int {
	return db.GetState(params.StakingAddress, validatorSlot(addr, "totalStake")).Big()
}

func writeTotalStake(db vm.StateDB, addr common.Address, amount *big.Int) {
	db.SetState(params.StakingAddress, validatorSlot(addr, "totalStake"), common.BigToHash(amount))
}

// --- delegation fields ---

func readDelegatedStake(db vm.StateDB, delegator, validator common.Address) *big.Int {
	return db.GetState(params.StakingAddress, delegationSlot(delegator, validator, "stake")).Big()
}

func writeDelegatedStake(db vm.StateDB, delegator, validator common.Address, amount *big.Int) {
	db.SetState(params.StakingAddress, delegationSlot(delegator, validator, "stake"), common.BigToHash(amount))
}

func readPendingUndelegation(db vm.StateDB, delegator, validator common.Address) (*big.Int, uint64) {
	amount := db.GetState(params.StakingAddress, delegationSlot(delegator, validator, "pendingAmount")).Big()
	unlock := readCounterWord(db, params.StakingAddress, delegationSlot(delegator, validator, "unlockEpoch"))
	return amount, unlock
}

func writePendingUndelegation(db vm.StateDB, delegator, validator common.Address, amount *big.Int, unlockEpoch uint64) {
	db.SetState(params.StakingAddress, delegationSlot(delegator, validator, "pendingAmount"), common.BigToHash(amount))
	writeCounterWord(db, params.StakingAddress, delegationSlot(delegator, validator, "unlockEpoch"), unlockEpoch)
}

// --- felony indicator ---

// felonySlot is the per-validator felony mark under the slashing indicator
// account. The external treasury consumes it to execute the stake penalty.
func felonySlot(addr common.Address) common.Hash {
	key := make([]byte, 0, len("felony")+1+common.AddressLength)
	key = append(key, "felony"...)
	key = append(key, 0x00)
	key = append(key, addr.Bytes()...)
	return common.BytesToHash(crypto.Keccak256(key))
}

func markFelony(db vm.StateDB, addr common.Address) {
	slot := felonySlot(addr)
	n := readCounterWord(db, params.SlashingIndicatorAddress, slot)
	writeCounterWord(db, params.SlashingIndicatorAddress, slot, n+1)
}

// ReadFelonyMarks returns the number of felony penalties flagged for addr
// and not yet consumed by the treasury collaborator.
func ReadFelonyMarks(db vm.StateDB, addr common.Address) uint64 {
	return readCounterWord(db, params.SlashingIndicatorAddress, felonySlot(addr))
}

// ReadValidator reads the complete registry entry for addr from state.
// Status is StatusNotFound if the address was never added.
func ReadValidator(db vm.StateDB, addr common.Address) Validator {
	return Validator{
		Address:            addr,
		Owner:              readOwner(db, addr),
		Status:             readStatus(db, addr),
		MissedBlockCounter: readMissedBlocks(db, addr),
		JailedUntilEpoch:   readJailedUntil(db, addr),
		AccumulatedFees:    readFees(db, addr),
		TotalStake:         readTotalStake(db, addr),
	}
}

// ReadValidatorStatus returns the current status for addr.
func ReadValidatorStatus(db vm.StateDB, addr common.Address) ValidatorStatus {
	return readStatus(db, addr)
}

// ReadValidators returns every registered validator address in insertion
// order, including Removed entries.
func ReadValidators(db vm.StateDB) []common.Address {
	count := readValidatorCount(db)
	out := make([]common.Address, count)
	for i := uint64(0); i < count; i++ {
		out[i] = readValidatorAt(db, i)
	}
	return out
}

// ReadDelegatedStake returns delegator's stake currently bonded to validator.
func ReadDelegatedStake(db vm.StateDB, delegator, validator common.Address) *big.Int {
	return readDelegatedStake(db, delegator, validator)
}

// exists reports whether addr currently refers to a live registry entry.
// Removed entries are treated as absent for every operation except a fresh
// add (Removed is terminal).
func exists(db vm.StateDB, addr common.Address) bool {
	s := readStatus(db, addr)
	return s != StatusNotFound && s != StatusRemoved
}
