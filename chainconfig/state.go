package chainconfig

import (
	"encoding/binary"
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/crypto"
	"github.com/bas-network/gbas/params"
)

// paramSlot hashes ("chaincfg\x00" || field) for a parameter storage slot.
func paramSlot(field string) common.Hash {
	key := make([]byte, 0, len("chaincfg")+1+len(field))
	key = append(key, "chaincfg"...)
	key = append(key, 0x00)
	key = append(key, field...)
	return common.BytesToHash(crypto.Keccak256(key))
}

func readUint64(db vm.StateDB, slot common.Hash) uint64 {
	raw := db.GetState(params.ChainConfigAddress, slot)
	return binary.BigEndian.Uint64(raw[common.HashLength-8:])
}

func writeUint64(db vm.StateDB, slot common.Hash, n uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[common.HashLength-8:], n)
	db.SetState(params.ChainConfigAddress, slot, word)
}

func readBig(db vm.StateDB, slot common.Hash) *big.Int {
	return db.GetState(params.ChainConfigAddress, slot).Big()
}

func writeBig(db vm.StateDB, slot common.Hash, n *big.Int) {
	db.SetState(params.ChainConfigAddress, slot, common.BigToHash(n))
}

// GetConsensusParams reads the full parameter record from state.
func GetConsensusParams(db vm.StateDB) *ConsensusParams {
	return &ConsensusParams{
		ActiveValidatorsLength:   uint32(readUint64(db, paramSlot("activeValidatorsLength"))),
		EpochBlockInterval:       readUint64(db, paramSlot("epochBlockInterval")),
		MisdemeanorThreshold:     uint32(readUint64(db, paramSlot("misdemeanorThreshold"))),
		FelonyThreshold:          uint32(readUint64(db, paramSlot("felonyThreshold"))),
		ValidatorJailEpochLength: uint32(readUint64(db, paramSlot("validatorJailEpochLength"))),
		UndelegatePeriod:         uint32(readUint64(db, paramSlot("undelegatePeriod"))),
		MinValidatorStakeAmount:  readBig(db, paramSlot("minValidatorStakeAmount")),
		MinStakingAmount:         readBig(db, paramSlot("minStakingAmount")),
	}
}

// writeConsensusParams stores the full record. Callers must have validated p.
func writeConsensusParams(db vm.StateDB, p *ConsensusParams) {
	writeUint64(db, paramSlot("activeValidatorsLength"), uint64(p.ActiveValidatorsLength))
	writeUint64(db, paramSlot("epochBlockInterval"), p.EpochBlockInterval)
	writeUint64(db, paramSlot("misdemeanorThreshold"), uint64(p.MisdemeanorThreshold))
	writeUint64(db, paramSlot("felonyThreshold"), uint64(p.FelonyThreshold))
	writeUint64(db, paramSlot("validatorJailEpochLength"), uint64(p.ValidatorJailEpochLength))
	writeUint64(db, paramSlot("undelegatePeriod"), uint64(p.UndelegatePeriod))
	if p.MinValidatorStakeAmount != nil {
		writeBig(db, paramSlot("minValidatorStakeAmount"), p.MinValidatorStakeAmount)
	}
	if p.MinStakingAmount != nil {
		writeBig(db, paramSlot("minStakingAmount"), p.MinStakingAmount)
	}
}

// EpochNumber converts a block number into its epoch index using the governed
// interval. A zero interval (uninitialized genesis) maps everything to epoch 0.
func EpochNumber(db vm.StateDB, blockNumber uint64) uint64 {
	interval := readUint64(db, paramSlot("epochBlockInterval"))
	if interval == 0 {
		return 0
	}
	return blockNumber / interval
}

// IsEpochBoundary reports whether blockNumber sits on a rotation boundary of
// the governed interval.
func IsEpochBoundary(db vm.StateDB, blockNumber uint64) bool {
	interval := readUint64(db, paramSlot("epochBlockInterval"))
	return interval != 0 && blockNumber%interval == 0
}
