package chainconfig

import (
	"fmt"
	"math/big"

	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&configHandler{})
}

// configHandler implements sysaction.Handler for governed parameter changes.
type configHandler struct{}

func (h *configHandler) CanHandle(kind sysaction.ActionKind) bool {
	return kind == sysaction.ActionChainConfigUpdate
}

func (h *configHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	// Only the governance executor may change consensus parameters; the
	// executor dispatches passed proposals from params.GovernanceAddress.
	if ctx.From != params.GovernanceAddress {
		return ErrUnauthorized
	}
	var p sysaction.ChainConfigPayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return fmt.Errorf("chain config update: %w", err)
	}
	next := &ConsensusParams{
		ActiveValidatorsLength:   p.ActiveValidatorsLength,
		EpochBlockInterval:       p.EpochBlockInterval,
		MisdemeanorThreshold:     p.MisdemeanorThreshold,
		FelonyThreshold:          p.FelonyThreshold,
		ValidatorJailEpochLength: p.ValidatorJailEpochLength,
		UndelegatePeriod:         p.UndelegatePeriod,
	}
	if p.MinValidatorStakeAmount != "" {
		amount, ok := new(big.Int).SetString(p.MinValidatorStakeAmount, 10)
		if !ok {
			return fmt.Errorf("%w: minValidatorStakeAmount %q", ErrInvalidParameter, p.MinValidatorStakeAmount)
		}
		next.MinValidatorStakeAmount = amount
	}
	if p.MinStakingAmount != "" {
		amount, ok := new(big.Int).SetString(p.MinStakingAmount, 10)
		if !ok {
			return fmt.Errorf("%w: minStakingAmount %q", ErrInvalidParameter, p.MinStakingAmount)
		}
		next.MinStakingAmount = amount
	}
	return Update(ctx.StateDB, next)
}
