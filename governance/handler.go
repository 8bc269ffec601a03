package governance

import (
	"fmt"

	"github.com/bas-network/gbas/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&govHandler{})
}

type govHandler struct{}

func (h *govHandler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionGovPropose, sysaction.ActionGovVote, sysaction.ActionGovQueue,
		sysaction.ActionGovExecute, sysaction.ActionGovCancel:
		return true
	}
	return false
}

func (h *govHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	db := ctx.StateDB

	switch sa.Action {
	case sysaction.ActionGovPropose:
		var p sysaction.ProposePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("propose: %w", err)
		}
		if p.Action == "" {
			return fmt.Errorf("propose: %w: empty nested action", sysaction.ErrInvalidSysAction)
		}
		_, err := Propose(db, ctx.From, p.Action, p.ActionData, p.Description, ctx.BlockNumber)
		return err

	case sysaction.ActionGovVote:
		var p sysaction.VotePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("vote: %w", err)
		}
		return Vote(db, ctx.From, p.ProposalID, p.Support, ctx.BlockNumber)

	case sysaction.ActionGovQueue:
		var p sysaction.ProposalPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("queue: %w", err)
		}
		return Queue(db, p.ProposalID, ctx.BlockNumber)

	case sysaction.ActionGovExecute:
		var p sysaction.ProposalPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("execute: %w", err)
		}
		return Execute(db, p.ProposalID, ctx.BlockNumber, ctx.ChainConfig)

	case sysaction.ActionGovCancel:
		var p sysaction.ProposalPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("cancel: %w", err)
		}
		return Cancel(db, ctx.From, p.ProposalID)
	}
	return fmt.Errorf("governance: unexpected action %q", sa.Action)
}
