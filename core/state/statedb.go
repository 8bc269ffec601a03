// Package state implements the journaled world-state store backing all
// system contract storage.
package state

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/bas-network/gbas/basdb"
	"github.com/bas-network/gbas/common"
)

// accountPrefix namespaces persisted account blobs in the backing database.
var accountPrefix = []byte("acc-")

// stateObject is the in-memory representation of one account.
type stateObject struct {
	balance *big.Int
	storage map[common.Hash]common.Hash
	dirty   bool
}

func newStateObject() *stateObject {
	return &stateObject{
		balance: new(big.Int),
		storage: make(map[common.Hash]common.Hash),
	}
}

// persistedAccount is the on-disk JSON shape of an account.
type persistedAccount struct {
	Balance string            `json:"balance"`
	Storage map[string]string `json:"storage,omitempty"`
}

// StateDB holds the full set of accounts with balances and storage. Mutations
// are journaled so that a failed system action can be rolled back without
// observable effect (per-call atomicity).
type StateDB struct {
	db      basdb.KeyValueStore // nil for purely in-memory state
	objects map[common.Address]*stateObject
	journal []journalEntry
}

// journalEntry is a reverse operation undoing one state mutation.
type journalEntry interface {
	revert(*StateDB)
}

type balanceChange struct {
	account common.Address
	prev    *big.Int
}

func (ch balanceChange) revert(s *StateDB) {
	s.objects[ch.account].balance = ch.prev
}

type storageChange struct {
	account common.Address
	slot    common.Hash
	prev    common.Hash
}

func (ch storageChange) revert(s *StateDB) {
	s.objects[ch.account].storage[ch.slot] = ch.prev
}

// New creates a state backed by db. Accounts are loaded lazily on first
// access, so a state opened over a previously committed database observes
// every counter and jail term exactly as written (no implicit reset).
// db may be nil for throwaway in-memory state.
func New(db basdb.KeyValueStore) *StateDB {
	return &StateDB{
		db:      db,
		objects: make(map[common.Address]*stateObject),
	}
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.objects[addr]; ok {
		return obj
	}
	obj := newStateObject()
	if s.db != nil {
		if blob, err := s.db.Get(append(accountPrefix, addr.Bytes()...)); err == nil {
			var acc persistedAccount
			if err := json.Unmarshal(blob, &acc); err == nil {
				if b, ok := new(big.Int).SetString(acc.Balance, 10); ok {
					obj.balance = b
				}
				for k, v := range acc.Storage {
					obj.storage[common.HexToHash(k)] = common.HexToHash(v)
				}
			}
		}
	}
	s.objects[addr] = obj
	return obj
}

// GetBalance retrieves the balance from the given address or 0 if the account
// does not exist.
func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	return new(big.Int).Set(s.getStateObject(addr).balance)
}

// AddBalance adds amount to the account associated with addr.
func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	obj := s.getStateObject(addr)
	s.journal = append(s.journal, balanceChange{addr, obj.balance})
	obj.balance = new(big.Int).Add(obj.balance, amount)
	obj.dirty = true
}

// SubBalance subtracts amount from the account associated with addr.
func (s *StateDB) SubBalance(addr common.Address, amount *big.Int) {
	obj := s.getStateObject(addr)
	s.journal = append(s.journal, balanceChange{addr, obj.balance})
	obj.balance = new(big.Int).Sub(obj.balance, amount)
	obj.dirty = true
}

// GetState retrieves a value from the account storage trie.
func (s *StateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	return s.getStateObject(addr).storage[slot]
}

// SetState updates a value in the account storage trie.
func (s *StateDB) SetState(addr common.Address, slot common.Hash, value common.Hash) {
	obj := s.getStateObject(addr)
	s.journal = append(s.journal, storageChange{addr, slot, obj.storage[slot]})
	obj.storage[slot] = value
	obj.dirty = true
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int { return len(s.journal) }

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	if revid < 0 || revid > len(s.journal) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	for i := len(s.journal) - 1; i >= revid; i-- {
		s.journal[i].revert(s)
	}
	s.journal = s.journal[:revid]
}

// DumpAccount is one account in a state dump, in genesis-alloc shape.
type DumpAccount struct {
	Balance string            `json:"balance"`
	Storage map[string]string `json:"storage,omitempty"`
}

// Dump exports every loaded, non-empty account. Used by the genesis tool to
// render the seeded system state as an alloc block.
func (s *StateDB) Dump() map[string]DumpAccount {
	out := make(map[string]DumpAccount)
	for addr, obj := range s.objects {
		acc := DumpAccount{Balance: obj.balance.String()}
		for k, v := range obj.storage {
			if v.IsZero() {
				continue
			}
			if acc.Storage == nil {
				acc.Storage = make(map[string]string)
			}
			acc.Storage[k.Hex()] = v.Hex()
		}
		if obj.balance.Sign() == 0 && len(acc.Storage) == 0 {
			continue
		}
		out[addr.Hex()] = acc
	}
	return out
}

// Commit writes every dirty account to the backing database and clears the
// journal. It is a no-op for in-memory state.
func (s *StateDB) Commit() error {
	if s.db == nil {
		s.journal = s.journal[:0]
		return nil
	}
	// Deterministic write order keeps committed databases byte-comparable
	// across nodes.
	addrs := make([]common.Address, 0, len(s.objects))
	for addr, obj := range s.objects {
		if obj.dirty {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i].Bytes()) < string(addrs[j].Bytes())
	})
	for _, addr := range addrs {
		obj := s.objects[addr]
		acc := persistedAccount{
			Balance: obj.balance.String(),
			Storage: make(map[string]string, len(obj.storage)),
		}
		for k, v := range obj.storage {
			if v.IsZero() {
				continue // zero words are implicit
			}
			acc.Storage[k.Hex()] = v.Hex()
		}
		blob, err := json.Marshal(&acc)
		if err != nil {
			return err
		}
		if err := s.db.Put(append(accountPrefix, addr.Bytes()...), blob); err != nil {
			return err
		}
		obj.dirty = false
	}
	s.journal = s.journal[:0]
	return nil
}
