package sysaction

import (
	"fmt"
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/params"
)

// Context carries information available to a system-action handler.
type Context struct {
	From        common.Address
	Value       *big.Int
	BlockNumber uint64
	StateDB     vm.StateDB
	ChainConfig *params.ChainConfig
}

// Handler is implemented by the staking, chainconfig and governance
// sub-systems.
type Handler interface {
	CanHandle(kind ActionKind) bool
	Handle(ctx *Context, sa *SysAction) error
}

// Registry holds registered handlers.
type Registry struct{ handlers []Handler }

// DefaultRegistry is the process-wide handler registry.
var DefaultRegistry = &Registry{}

// Register adds a handler to the registry.
func (r *Registry) Register(h Handler) { r.handlers = append(r.handlers, h) }

// Dispatch routes sa to the first handler that can handle it. The state is
// snapshotted before the handler runs and reverted if it errors, so a
// rejected action leaves no observable state change.
func (r *Registry) Dispatch(ctx *Context, sa *SysAction) error {
	for _, h := range r.handlers {
		if !h.CanHandle(sa.Action) {
			continue
		}
		snap := ctx.StateDB.Snapshot()
		if err := h.Handle(ctx, sa); err != nil {
			ctx.StateDB.RevertToSnapshot(snap)
			return err
		}
		return nil
	}
	return fmt.Errorf("sysaction: no handler for action %q", sa.Action)
}

// Execute decodes a system action from data and dispatches it through the
// default registry. Returns (gasUsed, error).
func Execute(ctx *Context, data []byte) (uint64, error) {
	sa, err := Decode(data)
	if err != nil {
		return params.SysActionGas, err
	}
	if ctx.Value == nil {
		ctx.Value = new(big.Int)
	}
	return params.SysActionGas, DefaultRegistry.Dispatch(ctx, sa)
}
