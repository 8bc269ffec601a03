package staking

import (
	"fmt"
	"math/big"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&stakingHandler{})
}

// stakingHandler implements sysaction.Handler for validator lifecycle,
// slashing, fee and delegation actions.
type stakingHandler struct{}

func (h *stakingHandler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionValidatorAdd, sysaction.ActionValidatorRemove,
		sysaction.ActionValidatorActivate, sysaction.ActionValidatorDisable,
		sysaction.ActionValidatorSlash,
		sysaction.ActionFeeDeposit, sysaction.ActionFeeClaim,
		sysaction.ActionDelegate, sysaction.ActionUndelegate, sysaction.ActionUndelegateClaim:
		return true
	}
	return false
}

func (h *stakingHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	db := ctx.StateDB
	epoch := chainconfig.EpochNumber(db, ctx.BlockNumber)

	switch sa.Action {
	case sysaction.ActionValidatorAdd:
		validator, owner, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		// Registry membership is governed; self-service registration goes
		// through a proposal.
		if ctx.From != params.GovernanceAddress {
			return ErrUnauthorized
		}
		if ctx.Value.Sign() > 0 && db.GetBalance(ctx.From).Cmp(ctx.Value) < 0 {
			return ErrInsufficientStake
		}
		if err := AddValidator(db, validator, owner, ctx.Value); err != nil {
			return err
		}
		if ctx.Value.Sign() > 0 {
			db.SubBalance(ctx.From, ctx.Value)
			db.AddBalance(params.StakingAddress, ctx.Value)
			writeDelegatedStake(db, owner, validator, ctx.Value)
		}
		return nil

	case sysaction.ActionValidatorRemove:
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		if ctx.From != params.GovernanceAddress {
			return ErrUnauthorized
		}
		return RemoveValidator(db, validator)

	case sysaction.ActionValidatorActivate:
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		if err := requireOwnerOrGovernance(db, validator, ctx.From); err != nil {
			return err
		}
		return ActivateValidator(db, validator, epoch)

	case sysaction.ActionValidatorDisable:
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		if err := requireOwnerOrGovernance(db, validator, ctx.From); err != nil {
			return err
		}
		return DisableValidator(db, validator)

	case sysaction.ActionValidatorSlash:
		// Misbehavior is only reportable by the block-production path.
		if ctx.From != params.IntermediarySystemAddress {
			return ErrUnauthorized
		}
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		return SlashValidator(db, validator, epoch)

	case sysaction.ActionFeeDeposit:
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		if db.GetBalance(ctx.From).Cmp(ctx.Value) < 0 {
			return ErrInsufficientStake
		}
		if err := DepositFee(db, validator, ctx.Value); err != nil {
			return err
		}
		db.SubBalance(ctx.From, ctx.Value)
		db.AddBalance(params.StakingAddress, ctx.Value)
		return nil

	case sysaction.ActionFeeClaim:
		validator, _, err := decodeValidatorPayload(sa, ctx.From)
		if err != nil {
			return err
		}
		return ClaimFees(db, validator, ctx.From)

	case sysaction.ActionDelegate:
		var p sysaction.DelegatePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return fmt.Errorf("delegate: %w", err)
		}
		if !common.IsHexAddress(p.Validator) {
			return fmt.Errorf("%w: validator %q", ErrInvalidAmount, p.Validator)
		}
		return Delegate(db, ctx.From, common.HexToAddress(p.Validator), ctx.Value)

	case sysaction.ActionUndelegate:
		validator, amount, err := decodeDelegatePayload(sa)
		if err != nil {
			return err
		}
		if amount == nil { // empty amount means "all"
			amount = readDelegatedStake(db, ctx.From, validator)
		}
		return Undelegate(db, ctx.From, validator, amount, epoch)

	case sysaction.ActionUndelegateClaim:
		validator, _, err := decodeDelegatePayload(sa)
		if err != nil {
			return err
		}
		return ClaimUndelegated(db, ctx.From, validator, epoch)
	}
	return fmt.Errorf("staking: unexpected action %q", sa.Action)
}

// decodeValidatorPayload extracts (validator, owner) from a ValidatorPayload,
// defaulting the owner to the sender.
func decodeValidatorPayload(sa *sysaction.SysAction, from common.Address) (common.Address, common.Address, error) {
	var p sysaction.ValidatorPayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("%s: %w", sa.Action, err)
	}
	if !common.IsHexAddress(p.Validator) {
		return common.Address{}, common.Address{}, fmt.Errorf("%s: %w: validator %q", sa.Action, sysaction.ErrInvalidSysAction, p.Validator)
	}
	owner := from
	if p.Owner != "" {
		if !common.IsHexAddress(p.Owner) {
			return common.Address{}, common.Address{}, fmt.Errorf("%s: %w: owner %q", sa.Action, sysaction.ErrInvalidSysAction, p.Owner)
		}
		owner = common.HexToAddress(p.Owner)
	}
	return common.HexToAddress(p.Validator), owner, nil
}

func decodeDelegatePayload(sa *sysaction.SysAction) (common.Address, *big.Int, error) {
	var p sysaction.DelegatePayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return common.Address{}, nil, fmt.Errorf("%s: %w", sa.Action, err)
	}
	if !common.IsHexAddress(p.Validator) {
		return common.Address{}, nil, fmt.Errorf("%s: %w: validator %q", sa.Action, sysaction.ErrInvalidSysAction, p.Validator)
	}
	var amount *big.Int
	if p.Amount != "" {
		n, ok := new(big.Int).SetString(p.Amount, 10)
		if !ok || n.Sign() < 0 {
			return common.Address{}, nil, fmt.Errorf("%s: %w: amount %q", sa.Action, ErrInvalidAmount, p.Amount)
		}
		amount = n
	}
	return common.HexToAddress(p.Validator), amount, nil
}

func requireOwnerOrGovernance(db vm.StateDB, validator, from common.Address) error {
	if from == params.GovernanceAddress {
		return nil
	}
	if !readRegisteredFlag(db, validator) {
		return ErrValidatorNotFound
	}
	if readOwner(db, validator) != from {
		return ErrNotOwner
	}
	return nil
}
