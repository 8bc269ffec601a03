// Package core applies blocks of system actions to chain state. Processing
// is strictly serialized: one block at a time, one action at a time, with
// per-action atomicity provided by the state journal.
package core

import (
	"math/big"
	"sort"
	"sync"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/consensus/parlia"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/staking"
	"github.com/bas-network/gbas/sysaction"
)

// Action is one system-action transaction within a block.
type Action struct {
	From  common.Address
	Value *big.Int
	Data  []byte
}

// Block is the processor's input: an ordered batch of actions plus the
// block-level facts the handlers need.
type Block struct {
	Number   uint64
	Hash     common.Hash
	Proposer common.Address
	Fees     *big.Int // collected transaction fees, attributed to the proposer
	Actions  []Action
}

// ActionResult records the outcome of one action. A failed action is
// reverted and skipped; it never aborts the block.
type ActionResult struct {
	Index   int
	GasUsed uint64
	Err     error
}

// Processor applies blocks sequentially against a single StateDB.
type Processor struct {
	mu sync.Mutex

	state       *state.StateDB
	engine      *parlia.Parlia
	chainConfig *params.ChainConfig
}

// NewProcessor wires a processor over the given state and snapshot engine.
func NewProcessor(stateDB *state.StateDB, engine *parlia.Parlia, chainConfig *params.ChainConfig) *Processor {
	return &Processor{state: stateDB, engine: engine, chainConfig: chainConfig}
}

// State exposes the underlying state for reads and genesis seeding.
func (p *Processor) State() *state.StateDB { return p.state }

// Process applies one block: slashes first, then the remaining actions in
// their original order, then fee attribution, then the epoch rotation when
// the block closes an epoch. The state is committed once per block.
func (p *Processor) Process(block *Block) ([]ActionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ordered := orderActions(block.Actions)
	results := make([]ActionResult, 0, len(ordered))

	for _, idx := range ordered {
		action := block.Actions[idx]
		ctx := &sysaction.Context{
			From:        action.From,
			Value:       action.Value,
			BlockNumber: block.Number,
			StateDB:     p.state,
			ChainConfig: p.chainConfig,
		}
		gas, err := sysaction.Execute(ctx, action.Data)
		if err != nil {
			log.Warn("system action rejected", "block", block.Number, "index", idx, "err", err)
		}
		results = append(results, ActionResult{Index: idx, GasUsed: gas, Err: err})
	}

	p.attributeFees(block)

	if block.Number > 0 && chainconfig.IsEpochBoundary(p.state, block.Number) {
		closed := chainconfig.EpochNumber(p.state, block.Number) - 1
		if _, err := p.engine.ApplyEpoch(p.state, block.Number, block.Hash, closed); err != nil {
			return results, err
		}
	}

	if err := p.state.Commit(); err != nil {
		return results, err
	}
	return results, nil
}

// attributeFees credits the block's collected fees to the proposer's pot on
// the staking address. An unknown proposer (e.g. removed mid-epoch) forfeits
// to the system reward balance instead.
func (p *Processor) attributeFees(block *Block) {
	if block.Fees == nil || block.Fees.Sign() <= 0 {
		return
	}
	if err := staking.DepositFee(p.state, block.Proposer, block.Fees); err != nil {
		p.state.AddBalance(params.SystemRewardAddress, block.Fees)
		log.Warn("block fees forfeited", "block", block.Number, "proposer", block.Proposer, "err", err)
		return
	}
	p.state.AddBalance(params.StakingAddress, block.Fees)
}

// orderActions returns action indices with slashes moved to the front, so a
// validator slashed in a block cannot slip back in through a later
// activation in the same block. The order is otherwise preserved (stable).
func orderActions(actions []Action) []int {
	slash := make([]bool, len(actions))
	for i, action := range actions {
		sa, err := sysaction.Decode(action.Data)
		slash[i] = err == nil && sa.Action == sysaction.ActionValidatorSlash
	}
	idx := make([]int, len(actions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return slash[idx[a]] && !slash[idx[b]]
	})
	return idx
}
