// Package vm declares the state access interface consumed by the system
// action handlers.
package vm

import (
	"math/big"

	"github.com/bas-network/gbas/common"
)

// StateDB is the mutable world-state interface the staking, chain-config and
// governance handlers operate on. All registry, slashing and parameter state
// is kept in per-account storage slots; balances back the fee and stake
// accounting.
type StateDB interface {
	GetBalance(common.Address) *big.Int
	AddBalance(common.Address, *big.Int)
	SubBalance(common.Address, *big.Int)

	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	// Snapshot returns an identifier for the current revision of the state.
	Snapshot() int
	// RevertToSnapshot reverts all state changes made since the given revision.
	RevertToSnapshot(int)
}
