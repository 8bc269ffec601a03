package chainconfig

import (
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
)

// Init seeds the parameter record at genesis. Unlike Update it accepts any
// authorized caller since it runs before governance exists.
func Init(db vm.StateDB, p *ConsensusParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	writeConsensusParams(db, p)
	return nil
}

// Update replaces the consensus parameters with p. Rejected updates leave the
// prior record untouched: validation happens before the first write, and the
// dispatching executor reverts partial writes on error anyway.
func Update(db vm.StateDB, p *ConsensusParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	prev := GetConsensusParams(db)
	writeConsensusParams(db, p)
	log.Info("consensus params updated",
		"activeValidatorsLength", p.ActiveValidatorsLength,
		"epochBlockInterval", p.EpochBlockInterval,
		"misdemeanorThreshold", p.MisdemeanorThreshold,
		"felonyThreshold", p.FelonyThreshold,
		"prevFelonyThreshold", prev.FelonyThreshold)
	return nil
}
