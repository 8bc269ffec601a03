package chainconfig

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/sysaction"
)

func validParams() *ConsensusParams {
	return &ConsensusParams{
		ActiveValidatorsLength:   25,
		EpochBlockInterval:       12_000,
		MisdemeanorThreshold:     50,
		FelonyThreshold:          150,
		ValidatorJailEpochLength: 7,
		UndelegatePeriod:         6,
		MinValidatorStakeAmount:  big.NewInt(1),
		MinStakingAmount:         big.NewInt(1),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConsensusParams)
		ok     bool
	}{
		{"valid", func(p *ConsensusParams) {}, true},
		{"nil minimums", func(p *ConsensusParams) { p.MinValidatorStakeAmount = nil; p.MinStakingAmount = nil }, true},
		{"zero active length", func(p *ConsensusParams) { p.ActiveValidatorsLength = 0 }, false},
		{"zero epoch interval", func(p *ConsensusParams) { p.EpochBlockInterval = 0 }, false},
		{"zero misdemeanor", func(p *ConsensusParams) { p.MisdemeanorThreshold = 0 }, false},
		{"zero felony", func(p *ConsensusParams) { p.FelonyThreshold = 0 }, false},
		{"felony equals misdemeanor", func(p *ConsensusParams) { p.FelonyThreshold = p.MisdemeanorThreshold }, false},
		{"felony below misdemeanor", func(p *ConsensusParams) { p.FelonyThreshold = 10 }, false},
		{"zero jail length", func(p *ConsensusParams) { p.ValidatorJailEpochLength = 0 }, false},
		{"zero undelegate period", func(p *ConsensusParams) { p.UndelegatePeriod = 0 }, false},
		{"negative min stake", func(p *ConsensusParams) { p.MinValidatorStakeAmount = big.NewInt(-1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidParameter)
			}
		})
	}
}

func TestInitAndReadBack(t *testing.T) {
	db := state.New(nil)
	want := validParams()
	require.NoError(t, Init(db, want))

	got := GetConsensusParams(db)
	assert.Equal(t, want.ActiveValidatorsLength, got.ActiveValidatorsLength)
	assert.Equal(t, want.EpochBlockInterval, got.EpochBlockInterval)
	assert.Equal(t, want.MisdemeanorThreshold, got.MisdemeanorThreshold)
	assert.Equal(t, want.FelonyThreshold, got.FelonyThreshold)
	assert.Equal(t, want.ValidatorJailEpochLength, got.ValidatorJailEpochLength)
	assert.Equal(t, want.UndelegatePeriod, got.UndelegatePeriod)
	assert.Zero(t, want.MinValidatorStakeAmount.Cmp(got.MinValidatorStakeAmount))
	assert.Zero(t, want.MinStakingAmount.Cmp(got.MinStakingAmount))
}

func TestUpdateRejectsInvalidAndKeepsPrior(t *testing.T) {
	db := state.New(nil)
	require.NoError(t, Init(db, validParams()))

	bad := validParams()
	bad.FelonyThreshold = bad.MisdemeanorThreshold
	assert.ErrorIs(t, Update(db, bad), ErrInvalidParameter)

	// Prior values retained.
	got := GetConsensusParams(db)
	assert.Equal(t, uint32(150), got.FelonyThreshold)
}

func TestHandlerRequiresGovernanceSender(t *testing.T) {
	db := state.New(nil)
	require.NoError(t, Init(db, validParams()))

	data, err := sysaction.MakeSysAction(sysaction.ActionChainConfigUpdate, &sysaction.ChainConfigPayload{
		ActiveValidatorsLength:   5,
		EpochBlockInterval:       100,
		MisdemeanorThreshold:     10,
		FelonyThreshold:          20,
		ValidatorJailEpochLength: 2,
		UndelegatePeriod:         1,
	})
	require.NoError(t, err)

	ctx := &sysaction.Context{
		From:        common.BytesToAddress([]byte{0x99}),
		BlockNumber: 1,
		StateDB:     db,
		ChainConfig: params.TestChainConfig,
	}
	_, err = sysaction.Execute(ctx, data)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, uint32(25), GetConsensusParams(db).ActiveValidatorsLength)

	ctx.From = params.GovernanceAddress
	_, err = sysaction.Execute(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), GetConsensusParams(db).ActiveValidatorsLength)
}

func TestEpochHelpers(t *testing.T) {
	db := state.New(nil)
	p := validParams()
	p.EpochBlockInterval = 100
	require.NoError(t, Init(db, p))

	assert.Equal(t, uint64(0), EpochNumber(db, 99))
	assert.Equal(t, uint64(1), EpochNumber(db, 100))
	assert.Equal(t, uint64(2), EpochNumber(db, 250))
	assert.True(t, IsEpochBoundary(db, 200))
	assert.False(t, IsEpochBoundary(db, 201))
}
