package governance

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/crypto"
	"github.com/bas-network/gbas/params"
)

// Governance state layout, all under params.GovernanceAddress:
//
//	keccak("governance\x00proposalCount")        -> uint64
//	keccak("governance\x00votingPeriod")         -> uint64 (blocks)
//	keccak("governance\x00proposal" || id)       -> proposal record, JSON,
//	                                                chunked over consecutive
//	                                                slots (length word first)
//	keccak("governance\x00receipt" || id || addr)-> vote receipt per validator

func govSlot(field string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte("governance\x00" + field)))
}

func proposalSlot(id uint64) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return common.BytesToHash(crypto.Keccak256([]byte("governance\x00proposal"), buf[:]))
}

func receiptSlot(id uint64, validator common.Address) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return common.BytesToHash(crypto.Keccak256([]byte("governance\x00receipt"), buf[:], validator[:]))
}

func readUint64(db vm.StateDB, slot common.Hash) uint64 {
	word := db.GetState(params.GovernanceAddress, slot)
	return binary.BigEndian.Uint64(word[common.HashLength-8:])
}

func writeUint64(db vm.StateDB, slot common.Hash, n uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[common.HashLength-8:], n)
	db.SetState(params.GovernanceAddress, slot, word)
}

// writeBytes stores blob starting at base: the length word first, then the
// payload in 32-byte chunks over consecutive slots.
func writeBytes(db vm.StateDB, base common.Hash, blob []byte) {
	writeUint64(db, base, uint64(len(blob)))
	slot := new(big.Int).SetBytes(base[:])
	for off := 0; off < len(blob); off += common.HashLength {
		slot.Add(slot, big.NewInt(1))
		var word common.Hash
		copy(word[:], blob[off:])
		db.SetState(params.GovernanceAddress, common.BigToHash(slot), word)
	}
}

func readBytes(db vm.StateDB, base common.Hash) []byte {
	length := readUint64(db, base)
	if length == 0 {
		return nil
	}
	blob := make([]byte, 0, length)
	slot := new(big.Int).SetBytes(base[:])
	for off := uint64(0); off < length; off += common.HashLength {
		slot.Add(slot, big.NewInt(1))
		word := db.GetState(params.GovernanceAddress, common.BigToHash(slot))
		blob = append(blob, word[:]...)
	}
	return blob[:length]
}

func readProposalCount(db vm.StateDB) uint64 {
	return readUint64(db, govSlot("proposalCount"))
}

func writeProposalCount(db vm.StateDB, n uint64) {
	writeUint64(db, govSlot("proposalCount"), n)
}

// VotingPeriod returns the governed voting window in blocks.
func VotingPeriod(db vm.StateDB) uint64 {
	return readUint64(db, govSlot("votingPeriod"))
}

// Init writes the voting window. Called once from genesis.
func Init(db vm.StateDB, votingPeriod uint64) error {
	if votingPeriod == 0 {
		return fmt.Errorf("%w: zero voting period", ErrProposalState)
	}
	writeUint64(db, govSlot("votingPeriod"), votingPeriod)
	return nil
}

func writeProposal(db vm.StateDB, p *Proposal) {
	blob, err := json.Marshal(p)
	if err != nil {
		panic(fmt.Sprintf("governance: marshal proposal: %v", err))
	}
	writeBytes(db, proposalSlot(p.ID), blob)
}

// ReadProposal loads a stored proposal record.
func ReadProposal(db vm.StateDB, id uint64) (*Proposal, error) {
	blob := readBytes(db, proposalSlot(id))
	if blob == nil {
		return nil, ErrProposalNotFound
	}
	p := new(Proposal)
	if err := json.Unmarshal(blob, p); err != nil {
		return nil, fmt.Errorf("governance: corrupt proposal %d: %w", id, err)
	}
	return p, nil
}

func hasVoted(db vm.StateDB, id uint64, validator common.Address) bool {
	return readUint64(db, receiptSlot(id, validator)) != 0
}

func markVoted(db vm.StateDB, id uint64, validator common.Address) {
	writeUint64(db, receiptSlot(id, validator), 1)
}
