package staking

import (
	"errors"
	"math/big"
	"testing"

	"github.com/bas-network/gbas/core/state"
)

func slashN(t *testing.T, db *state.StateDB, v byte, epoch uint64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := SlashValidator(db, tAddr(v), epoch); err != nil {
			t.Fatalf("slash %d: %v", i+1, err)
		}
	}
}

// Thresholds from newTestState: misdemeanor at 2, felony at 4, jail term 10.
func TestSlashLadder(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)

	// First strike: counter only.
	slashN(t, db, 1, 3, 1)
	wantStatus(t, db, v, StatusAlive)
	if got := readMissedBlocks(db, v); got != 1 {
		t.Fatalf("counter after 1 slash = %d, want 1", got)
	}

	// Second strike: misdemeanor, one-epoch jail, counter persists.
	slashN(t, db, 1, 3, 1)
	wantStatus(t, db, v, StatusJailed)
	if got := readJailedUntil(db, v); got != 4 {
		t.Fatalf("misdemeanor jailedUntil = %d, want 4", got)
	}
	if got := readMissedBlocks(db, v); got != 2 {
		t.Fatalf("counter after misdemeanor = %d, want 2", got)
	}

	// Third strike: still a misdemeanor, jail term unchanged.
	slashN(t, db, 1, 3, 1)
	if got := readJailedUntil(db, v); got != 4 {
		t.Fatalf("jailedUntil after 3rd slash = %d, want 4", got)
	}

	// Fourth strike: felony. Long jail, counter reset, felony mark recorded.
	slashN(t, db, 1, 3, 1)
	wantStatus(t, db, v, StatusJailed)
	if got := readJailedUntil(db, v); got != 13 {
		t.Fatalf("felony jailedUntil = %d, want 13", got)
	}
	if got := readMissedBlocks(db, v); got != 0 {
		t.Fatalf("counter after felony = %d, want 0", got)
	}
	if got := ReadFelonyMarks(db, v); got != 1 {
		t.Fatalf("felony marks = %d, want 1", got)
	}
}

func TestSlashNeverShortensJail(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)

	// Drive straight to a felony at epoch 0: jailed until 10.
	slashN(t, db, 1, 0, 4)
	if got := readJailedUntil(db, v); got != 10 {
		t.Fatalf("jailedUntil = %d, want 10", got)
	}

	// Misdemeanor-grade slashes at epoch 2 would jail until 3; the existing
	// term must win.
	slashN(t, db, 1, 2, 2)
	if got := readJailedUntil(db, v); got != 10 {
		t.Fatalf("jailedUntil after re-slash = %d, want 10", got)
	}
	// The counter still advanced (recidivism is tracked across the term).
	if got := readMissedBlocks(db, v); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}

	// A second felony later does extend.
	slashN(t, db, 1, 5, 2)
	if got := readJailedUntil(db, v); got != 15 {
		t.Fatalf("jailedUntil after second felony = %d, want 15", got)
	}
	if got := ReadFelonyMarks(db, v); got != 2 {
		t.Fatalf("felony marks = %d, want 2", got)
	}
}

func TestSlashUnknownValidator(t *testing.T) {
	db := newTestState(t)
	if err := SlashValidator(db, tAddr(1), 0); !errors.Is(err, ErrValidatorNotFound) {
		t.Fatalf("got %v, want ErrValidatorNotFound", err)
	}
}

func TestSlashCounterSurvivesRelease(t *testing.T) {
	db := newTestState(t)
	v := tAddr(1)
	addAlive(t, db, v, 500)

	// One strike short of a misdemeanor, then release through a rotation.
	slashN(t, db, 1, 0, 1)
	writeStatus(db, v, StatusJailed)
	writeJailedUntil(db, v, 1)
	ProcessEpoch(db, 1)
	if got := readMissedBlocks(db, v); got != 1 {
		t.Fatalf("counter after release = %d, want 1", got)
	}

	// The next strike lands on the persisted counter.
	slashN(t, db, 1, 2, 1)
	wantStatus(t, db, v, StatusJailed)
	if got := readMissedBlocks(db, v); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}
}

func TestDepositAndClaimFees(t *testing.T) {
	db := newTestState(t)
	v, owner := tAddr(1), tAddr(2)
	if err := AddValidator(db, v, owner, big.NewInt(500)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := DepositFee(db, v, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero deposit: got %v, want ErrInvalidAmount", err)
	}
	if err := DepositFee(db, tAddr(9), big.NewInt(10)); !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("deposit to unknown: got %v, want ErrValidatorNotFound", err)
	}

	for _, amount := range []int64{30, 12} {
		if err := DepositFee(db, v, big.NewInt(amount)); err != nil {
			t.Fatalf("deposit %d: %v", amount, err)
		}
	}
	if got := readFees(db, v); got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("accumulated fees = %v, want 42", got)
	}

	if err := ClaimFees(db, v, tAddr(3)); !errors.Is(err, ErrNotOwner) {
		t.Errorf("claim by stranger: got %v, want ErrNotOwner", err)
	}

	fundPool(db, 42) // pot sits on the staking address
	if err := ClaimFees(db, v, owner); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got := db.GetBalance(owner); got.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("owner balance = %v, want 42", got)
	}
	if err := ClaimFees(db, v, owner); !errors.Is(err, ErrNothingToClaim) {
		t.Errorf("second claim: got %v, want ErrNothingToClaim", err)
	}
}

func TestClaimFeesAfterRemove(t *testing.T) {
	db := newTestState(t)
	v, owner := tAddr(1), tAddr(2)
	if err := AddValidator(db, v, owner, big.NewInt(500)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := DepositFee(db, v, big.NewInt(7)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := RemoveValidator(db, v); err != nil {
		t.Fatalf("remove: %v", err)
	}

	fundPool(db, 7)
	if err := ClaimFees(db, v, owner); err != nil {
		t.Fatalf("claim after remove: %v", err)
	}
	if got := db.GetBalance(owner); got.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("owner balance = %v, want 7", got)
	}
}
