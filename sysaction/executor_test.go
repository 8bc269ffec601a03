package sysaction

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/params"
)

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("{}"),
		[]byte(`{"payload":{}}`),
		[]byte("not json"),
	} {
		if _, err := Decode(data); !errors.Is(err, ErrInvalidSysAction) {
			t.Errorf("Decode(%q) = %v, want ErrInvalidSysAction", data, err)
		}
	}
}

func TestMakeAndDecodeRoundTrip(t *testing.T) {
	data, err := MakeSysAction(ActionDelegate, &DelegatePayload{Validator: "0x01", Amount: "500"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	sa, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sa.Action != ActionDelegate {
		t.Errorf("action = %q, want %q", sa.Action, ActionDelegate)
	}
	var p DelegatePayload
	if err := DecodePayload(sa, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Validator != "0x01" || p.Amount != "500" {
		t.Errorf("payload = %+v", p)
	}
}

// mutatingHandler writes a storage word and then fails on demand,
// to prove Dispatch reverts the partial write.
type mutatingHandler struct {
	kind ActionKind
	fail error
}

func (h *mutatingHandler) CanHandle(kind ActionKind) bool { return kind == h.kind }

func (h *mutatingHandler) Handle(ctx *Context, sa *SysAction) error {
	ctx.StateDB.SetState(params.StakingAddress, common.BytesToHash([]byte("probe")), common.BytesToHash([]byte{1}))
	return h.fail
}

func TestDispatchRevertsFailedHandler(t *testing.T) {
	boom := errors.New("boom")
	reg := &Registry{}
	reg.Register(&mutatingHandler{kind: "TEST_ACTION", fail: boom})

	db := state.New(nil)
	ctx := &Context{From: common.Address{}, Value: new(big.Int), StateDB: db}
	err := reg.Dispatch(ctx, &SysAction{Action: "TEST_ACTION", Payload: json.RawMessage("{}")})
	if !errors.Is(err, boom) {
		t.Fatalf("dispatch: got %v, want boom", err)
	}
	probe := db.GetState(params.StakingAddress, common.BytesToHash([]byte("probe")))
	if !probe.IsZero() {
		t.Fatal("failed handler left a state write behind")
	}
}

func TestDispatchKeepsSuccessfulWrite(t *testing.T) {
	reg := &Registry{}
	reg.Register(&mutatingHandler{kind: "TEST_ACTION"})

	db := state.New(nil)
	ctx := &Context{Value: new(big.Int), StateDB: db}
	if err := reg.Dispatch(ctx, &SysAction{Action: "TEST_ACTION"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	probe := db.GetState(params.StakingAddress, common.BytesToHash([]byte("probe")))
	if probe.IsZero() {
		t.Fatal("successful handler write was lost")
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	reg := &Registry{}
	db := state.New(nil)
	if err := reg.Dispatch(&Context{Value: new(big.Int), StateDB: db}, &SysAction{Action: "NO_SUCH_ACTION"}); err == nil {
		t.Fatal("expected error for unroutable action")
	}
}
