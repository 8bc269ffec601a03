package parlia

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/bas-network/gbas/basdb"
	"github.com/bas-network/gbas/common"
)

// Snapshot is the active validator set in force for an epoch, anchored at
// the epoch boundary block that produced it.
type Snapshot struct {
	Number     uint64           `json:"number"` // boundary block
	Hash       common.Hash      `json:"hash"`   // boundary block hash
	Epoch      uint64           `json:"epoch"`  // first epoch the set is in force for
	Validators []common.Address `json:"validators"` // sorted ascending by address

	validatorsMap map[common.Address]struct{}
}

// newSnapshot creates a snapshot for the given active set. The set is sorted
// here so callers need not care about ordering.
func newSnapshot(number uint64, hash common.Hash, epoch uint64, validators []common.Address) (*Snapshot, error) {
	if len(validators) == 0 {
		return nil, errors.New("parlia: empty validator set")
	}
	set := make([]common.Address, len(validators))
	copy(set, validators)
	sort.Sort(addressAscending(set))

	snap := &Snapshot{
		Number:     number,
		Hash:       hash,
		Epoch:      epoch,
		Validators: set,
	}
	snap.index()
	return snap, nil
}

func (s *Snapshot) index() {
	s.validatorsMap = make(map[common.Address]struct{}, len(s.Validators))
	for _, v := range s.Validators {
		s.validatorsMap[v] = struct{}{}
	}
}

// Contains reports membership in the active set.
func (s *Snapshot) Contains(validator common.Address) bool {
	_, ok := s.validatorsMap[validator]
	return ok
}

// InTurn reports whether validator is the round-robin proposer for number.
func (s *Snapshot) InTurn(number uint64, validator common.Address) bool {
	for i, v := range s.Validators {
		if v == validator {
			return number%uint64(len(s.Validators)) == uint64(i)
		}
	}
	return false
}

// Proposer returns the round-robin proposer for number.
func (s *Snapshot) Proposer(number uint64) common.Address {
	return s.Validators[number%uint64(len(s.Validators))]
}

// copy returns a deep copy. Cached snapshots are shared across readers, so
// mutation must always go through a copy.
func (s *Snapshot) copy() *Snapshot {
	cpy := &Snapshot{
		Number:     s.Number,
		Hash:       s.Hash,
		Epoch:      s.Epoch,
		Validators: make([]common.Address, len(s.Validators)),
	}
	copy(cpy.Validators, s.Validators)
	cpy.index()
	return cpy
}

func snapshotKey(hash common.Hash) []byte {
	return append([]byte("parlia-"), hash[:]...)
}

// loadSnapshot reads a persisted snapshot for the given boundary block hash.
func loadSnapshot(db basdb.KeyValueReader, hash common.Hash) (*Snapshot, error) {
	blob, err := db.Get(snapshotKey(hash))
	if err != nil {
		return nil, err
	}
	snap := new(Snapshot)
	if err := json.Unmarshal(blob, snap); err != nil {
		return nil, err
	}
	snap.index()
	return snap, nil
}

// store persists the snapshot under its boundary block hash.
func (s *Snapshot) store(db basdb.KeyValueWriter) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return db.Put(snapshotKey(s.Hash), blob)
}
