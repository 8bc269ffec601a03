// gbas-genesis renders a genesis file for a BAS chain: it seeds the system
// state (validator registry, consensus params, governance, faucet) and emits
// it as a geth-style genesis JSON, or writes it straight into a node
// database.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bas-network/gbas/basdb/leveldb"
	"github.com/bas-network/gbas/core/state"
	"github.com/bas-network/gbas/genesis"
	"github.com/bas-network/gbas/params"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "genesis config JSON file (omit for the devnet preset)",
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "write the genesis JSON to this file instead of stdout",
	}
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "node database directory to seed",
	}
)

var app = &cli.App{
	Name:    "gbas-genesis",
	Usage:   "generate BAS genesis state",
	Version: gitCommit,
	Commands: []*cli.Command{
		commandGenerate,
		commandInitDB,
	},
}

// genesisDoc is the rendered genesis file.
type genesisDoc struct {
	Config     *params.ChainConfig          `json:"config"`
	Timestamp  string                       `json:"timestamp"`
	GasLimit   string                       `json:"gasLimit"`
	Difficulty string                       `json:"difficulty"`
	Alloc      map[string]state.DumpAccount `json:"alloc"`
}

func loadConfig(ctx *cli.Context) (*genesis.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return genesis.DevnetConfig(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := new(genesis.Config)
	if err := json.Unmarshal(blob, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var commandGenerate = &cli.Command{
	Name:  "generate",
	Usage: "render the genesis JSON for a config",
	Flags: []cli.Flag{configFlag, outFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		db, err := genesis.Build(cfg, nil)
		if err != nil {
			return err
		}
		doc := &genesisDoc{
			Config:     cfg.ChainConfig(),
			Timestamp:  "0x5e9da7ce",
			GasLimit:   "0x2625a00",
			Difficulty: "0x1",
			Alloc:      db.Dump(),
		}
		blob, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if out := ctx.String(outFlag.Name); out != "" {
			return os.WriteFile(out, append(blob, '\n'), 0644)
		}
		fmt.Println(string(blob))
		return nil
	},
}

var commandInitDB = &cli.Command{
	Name:  "init-db",
	Usage: "seed a node database with the genesis state",
	Flags: []cli.Flag{configFlag, datadirFlag},
	Action: func(ctx *cli.Context) error {
		datadir := ctx.String(datadirFlag.Name)
		if datadir == "" {
			return fmt.Errorf("--%s is required", datadirFlag.Name)
		}
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		kv, err := leveldb.New(datadir, 0, 0, false)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer kv.Close()

		if _, err := genesis.Build(cfg, kv); err != nil {
			return err
		}
		fmt.Printf("genesis state for chain %d written to %s\n", cfg.ChainID, datadir)
		return nil
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
