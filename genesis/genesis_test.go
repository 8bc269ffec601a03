package genesis

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/bas-network/gbas/basdb/memorydb"
	"github.com/bas-network/gbas/chainconfig"
	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/staking"
)

func TestBuildDevnet(t *testing.T) {
	cfg := DevnetConfig()
	db, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	p := chainconfig.GetConsensusParams(db)
	if p.ActiveValidatorsLength != 25 || p.EpochBlockInterval != 12_000 {
		t.Errorf("params = %+v, want devnet values", p)
	}
	oneBAS, _ := new(big.Int).SetString("de0b6b3a7640000", 16)
	if p.MinValidatorStakeAmount.Cmp(oneBAS) != 0 {
		t.Errorf("minValidatorStakeAmount = %v, want %v", p.MinValidatorStakeAmount, oneBAS)
	}

	thousandBAS, _ := new(big.Int).SetString("3635c9adc5dea00000", 16)
	for _, addr := range cfg.Validators {
		v := staking.ReadValidator(db, addr)
		if v.Status != staking.StatusAlive {
			t.Errorf("validator %s status = %v, want %v", addr.Hex(), v.Status, staking.StatusAlive)
		}
		if v.TotalStake.Cmp(thousandBAS) != 0 {
			t.Errorf("validator %s stake = %v, want %v", addr.Hex(), v.TotalStake, thousandBAS)
		}
	}

	for addr, amount := range cfg.Faucet {
		want, err := parseAmount(amount)
		if err != nil {
			t.Fatalf("parse %q: %v", amount, err)
		}
		if got := db.GetBalance(addr); got.Cmp(want) != 0 {
			t.Errorf("faucet %s balance = %v, want %v", addr.Hex(), got, want)
		}
	}

	if cc := cfg.ChainConfig(); cc.ChainID.Uint64() != 14000 || cc.EpochLength() != 12_000 {
		t.Errorf("chain config = %v, want chainId 14000 epoch 12000", cc)
	}
}

func TestBuildPersistsAndSeedsOnce(t *testing.T) {
	kv := memorydb.New()
	cfg := DevnetConfig()
	if _, err := Build(cfg, kv); err != nil {
		t.Fatalf("build: %v", err)
	}

	// Reopening the database sees the full seeded registry.
	db := state.New(kv)
	if got := len(staking.ReadValidators(db)); got != len(cfg.Validators) {
		t.Fatalf("validators after reopen = %d, want %d", got, len(cfg.Validators))
	}

	// Building again over the same database collides on every validator.
	if _, err := Build(cfg, kv); err == nil {
		t.Fatal("expected duplicate-validator error on re-seed")
	}
}

func TestBuildExtras(t *testing.T) {
	treasury := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	deployer := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	cfg := DevnetConfig()
	cfg.SystemTreasury = &treasury
	cfg.Deployers = []common.Address{deployer}
	cfg.CommissionRate = 30

	db, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := Treasury(db); got != treasury {
		t.Errorf("treasury = %s, want %s", got.Hex(), treasury.Hex())
	}
	if !IsDeployer(db, deployer) {
		t.Error("deployer not allowlisted")
	}
	if IsDeployer(db, treasury) {
		t.Error("treasury unexpectedly allowlisted as deployer")
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	blob, err := json.Marshal(DevnetConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Config
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ChainID != 14000 || len(decoded.Validators) != 5 {
		t.Errorf("round trip lost fields: chainId=%d validators=%d", decoded.ChainID, len(decoded.Validators))
	}
	if decoded.ConsensusParams.MinStakingAmount != "0xde0b6b3a7640000" {
		t.Errorf("minStakingAmount = %q", decoded.ConsensusParams.MinStakingAmount)
	}
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want *big.Int
		ok   bool
	}{
		{"", big.NewInt(0), true},
		{"1000", big.NewInt(1000), true},
		{"0x10", big.NewInt(16), true},
		{"0X10", big.NewInt(16), true},
		{"-5", nil, false},
		{"bogus", nil, false},
	} {
		got, err := parseAmount(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("parseAmount(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got.Cmp(tc.want) != 0 {
			t.Errorf("parseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
