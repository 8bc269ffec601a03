package staking

import (
	"errors"
	"math/big"
	"testing"

	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/params"
)

func tAddr(b byte) common.Address {
	return common.BytesToAddress([]byte{b})
}

// newTestState returns an in-memory StateDB seeded with small consensus
// params so tests can drive the slashing ladder and rotations in a handful
// of calls.
func newTestState(t *testing.T) *state.StateDB {
	t.Helper()
	db := state.New(nil)
	err := chainconfig.Init(db, &chainconfig.ConsensusParams{
		ActiveValidatorsLength:   2,
		EpochBlockInterval:       100,
		MisdemeanorThreshold:     2,
		FelonyThreshold:          4,
		ValidatorJailEpochLength: 10,
		UndelegatePeriod:         2,
		MinValidatorStakeAmount:  big.NewInt(100),
		MinStakingAmount:         big.NewInt(10),
	})
	if err != nil {
		t.Fatalf("init consensus params: %v", err)
	}
	return db
}

func addAlive(t *testing.T, db *state.StateDB, addr common.Address, stake int64) {
	t.Helper()
	if err := AddValidator(db, addr, addr, big.NewInt(stake)); err != nil {
		t.Fatalf("add validator %x: %v", addr, err)
	}
}

// fundPool credits the staking system address, standing in for funds the
// block processor would have escrowed there.
func fundPool(db *state.StateDB, amount int64) {
	db.AddBalance(params.StakingAddress, big.NewInt(amount))
}

func wantStatus(t *testing.T, db *state.StateDB, addr common.Address, want ValidatorStatus) {
	t.Helper()
	if got := ReadValidatorStatus(db, addr); got != want {
		t.Fatalf("validator %x status = %v, want %v", addr, got, want)
	}
}

func TestAddValidator(t *testing.T) {
	db := newTestState(t)
	v, owner := tAddr(1), tAddr(2)

	if err := AddValidator(db, v, owner, big.NewInt(500)); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := ReadValidator(db, v)
	if got.Status != StatusAlive {
		t.Errorf("status = %v, want %v", got.Status, StatusAlive)
	}
	if got.Owner != owner {
		t.Errorf("owner = %x, want %x", got.Owner, owner)
	}
	if got.MissedBlockCounter != 0 || got.JailedUntilEpoch != 0 {
		t.Errorf("counters not zeroed: missed=%d jailedUntil=%d", got.MissedBlockCounter, got.JailedUntilEpoch)
	}
	if got.TotalStake.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("stake = %v, want 500", got.TotalStake)
	}

	if err := AddValidator(db, v, owner, big.NewInt(500)); !errors.Is(err, ErrValidatorExists) {
		t.Errorf("duplicate add: got %v, want ErrValidatorExists", err)
	}
}

func TestAddValidatorBelowMinimumIsPending(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 99) // minimum is 100
	wantStatus(t, db, v, StatusPending)

	if err := ActivateValidator(db, v, 0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("activate pending: got %v, want ErrInvalidState", err)
	}
}

func TestRemoveValidator(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)

	if err := RemoveValidator(db, v); !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("remove unknown: got %v, want ErrValidatorNotFound", err)
	}

	addAlive(t, db, v, 500)
	if err := RemoveValidator(db, v); err != nil {
		t.Fatalf("remove: %v", err)
	}
	wantStatus(t, db, v, StatusRemoved)

	// Removed is terminal and treated as absent by everything but AddValidator.
	if err := RemoveValidator(db, v); !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("double remove: got %v, want ErrValidatorNotFound", err)
	}
	if err := ActivateValidator(db, v, 0); !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("activate removed: got %v, want ErrValidatorNotFound", err)
	}
	if err := SlashValidator(db, v, 0); !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("slash removed: got %v, want ErrValidatorNotFound", err)
	}
}

func TestReAddAfterRemove(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)
	writeFees(db, v, big.NewInt(42))
	if err := RemoveValidator(db, v); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := AddValidator(db, v, tAddr(9), big.NewInt(500)); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	wantStatus(t, db, v, StatusAlive)
	if got := readFees(db, v); got.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("accumulated fees after re-add = %v, want 42", got)
	}
	// The list entry is reused, not duplicated.
	if got := readValidatorCount(db); got != 1 {
		t.Errorf("validator count = %d, want 1", got)
	}
}

func TestActivateDisable(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)

	if err := ActivateValidator(db, v, 0); err != nil {
		t.Fatalf("activate: %v", err)
	}
	wantStatus(t, db, v, StatusActive)

	// Re-activating is a no-op, not an error.
	if err := ActivateValidator(db, v, 0); err != nil {
		t.Errorf("re-activate: %v", err)
	}

	if err := DisableValidator(db, v); err != nil {
		t.Fatalf("disable: %v", err)
	}
	wantStatus(t, db, v, StatusAlive)

	// Disabling an Alive validator keeps it Alive.
	if err := DisableValidator(db, v); err != nil {
		t.Errorf("disable alive: %v", err)
	}
	wantStatus(t, db, v, StatusAlive)
}

func TestActivateWhileJailed(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)
	writeStatus(db, v, StatusJailed)
	writeJailedUntil(db, v, 5)

	if err := ActivateValidator(db, v, 4); !errors.Is(err, ErrInvalidState) {
		t.Errorf("activate before term: got %v, want ErrInvalidState", err)
	}
	if err := ActivateValidator(db, v, 5); err != nil {
		t.Fatalf("activate after term: %v", err)
	}
	wantStatus(t, db, v, StatusActive)
}

func TestDisableRequiresActiveOrAlive(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)
	writeStatus(db, v, StatusJailed)

	if err := DisableValidator(db, v); !errors.Is(err, ErrInvalidState) {
		t.Errorf("disable jailed: got %v, want ErrInvalidState", err)
	}
}
