// Package parlia maintains the per-epoch active validator set: it drives the
// staking registry's rotation at epoch boundaries and keeps the resulting
// snapshots in an LRU cache backed by the database, so restarts pick up the
// set without replaying rotations.
package parlia

import (
	"bytes"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bas-network/gbas/basdb"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/staking"
)

// Number of recent snapshots kept in memory.
const inMemorySnapshots = 128

var errUnknownSnapshot = errors.New("parlia: unknown snapshot")

type addressAscending []common.Address

func (a addressAscending) Len() int           { return len(a) }
func (a addressAscending) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a addressAscending) Less(i, j int) bool { return bytes.Compare(a[i][:], a[j][:]) < 0 }

// Parlia resolves and caches active-set snapshots.
type Parlia struct {
	config  *params.ParliaConfig
	db      basdb.KeyValueStore
	recents *lru.ARCCache // block hash -> *Snapshot
}

// New creates a snapshot manager. db may be nil for in-memory use; snapshots
// are then only cached, not persisted.
func New(config *params.ParliaConfig, db basdb.KeyValueStore) *Parlia {
	recents, _ := lru.NewARC(inMemorySnapshots)
	return &Parlia{config: config, db: db, recents: recents}
}

// Snapshot returns the active set anchored at the given boundary block hash,
// from cache or the database.
func (p *Parlia) Snapshot(hash common.Hash) (*Snapshot, error) {
	if cached, ok := p.recents.Get(hash); ok {
		return cached.(*Snapshot), nil
	}
	if p.db == nil {
		return nil, errUnknownSnapshot
	}
	snap, err := loadSnapshot(p.db, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %x", errUnknownSnapshot, hash)
	}
	p.recents.Add(hash, snap)
	log.Trace("loaded snapshot from disk", "number", snap.Number, "hash", hash)
	return snap, nil
}

// ApplyEpoch runs the registry rotation closing closedEpoch against state
// and records the resulting active set as the snapshot anchored at the
// boundary block (number, hash). The returned snapshot is cached and, when a
// database is attached, persisted.
func (p *Parlia) ApplyEpoch(state vm.StateDB, number uint64, hash common.Hash, closedEpoch uint64) (*Snapshot, error) {
	active := staking.ProcessEpoch(state, closedEpoch)
	snap, err := newSnapshot(number, hash, closedEpoch+1, active)
	if err != nil {
		return nil, err
	}
	p.recents.Add(hash, snap)
	if p.db != nil {
		if err := snap.store(p.db); err != nil {
			return nil, fmt.Errorf("parlia: store snapshot: %w", err)
		}
		log.Debug("stored snapshot to disk", "number", number, "hash", hash)
	}
	return snap, nil
}
