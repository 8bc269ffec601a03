package genesis

import "github.com/bas-network/gbas/common"

// DevnetConfig returns the development network genesis: five seeded
// validators with 1000 BAS self-stakes, two faucet accounts and the stock
// consensus parameters.
func DevnetConfig() *Config {
	validators := []common.Address{
		common.HexToAddress("0x08fae3885e299c24ff9841478eb946f41023ac69"),
		common.HexToAddress("0x751aaca849b09a3e347bbfe125cf18423cc24b40"),
		common.HexToAddress("0xa6ff33e3250cc765052ac9d7f7dfebda183c4b9b"),
		common.HexToAddress("0x49c0f7c8c11a4c80dc6449efe1010bb166818da8"),
		common.HexToAddress("0x8e1ea6eaa09c3b40f4a51fcd056a031870a0549a"),
	}
	initialStakes := make(map[common.Address]string, len(validators))
	for _, v := range validators {
		initialStakes[v] = "0x3635c9adc5dea00000" // 1000 BAS
	}
	return &Config{
		ChainID:    14000,
		Validators: validators,
		ConsensusParams: ConsensusParams{
			ActiveValidatorsLength:   25,
			EpochBlockInterval:       12_000,
			MisdemeanorThreshold:     50,
			FelonyThreshold:          150,
			ValidatorJailEpochLength: 7,
			UndelegatePeriod:         6,
			MinValidatorStakeAmount:  "0xde0b6b3a7640000", // 1 BAS
			MinStakingAmount:         "0xde0b6b3a7640000",
		},
		VotingPeriod: 60,
		Faucet: map[common.Address]string{
			common.HexToAddress("0x00a601f45688dba8a070722073b015277cf36725"): "0x21e19e0c9bab2400000",
			common.HexToAddress("0xb891fe7b38f857f53a7b5529204c58d5c487280b"): "0x52b7d2dcc80cd2e4000000",
		},
		InitialStakes: initialStakes,
	}
}
