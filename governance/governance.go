package governance

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/core/vm"
	"github.com/bas-network/gbas/log"
	"github.com/bas-network/gbas/params"
	"github.com/bas-network/gbas/staking"
	"github.com/bas-network/gbas/sysaction"
)

// votingValidators returns the sender's validators that carry voting power:
// owned entries with status Alive or Active.
func votingValidators(db vm.StateDB, owner common.Address) []common.Address {
	var out []common.Address
	for _, addr := range staking.ReadValidators(db) {
		v := staking.ReadValidator(db, addr)
		if v.Owner != owner {
			continue
		}
		switch v.Status {
		case staking.StatusAlive, staking.StatusActive:
			out = append(out, addr)
		}
	}
	return out
}

// State derives the proposal's lifecycle status at the given block height.
// The execution window after queueing reuses the voting window length.
func State(db vm.StateDB, p *Proposal, blockNumber uint64) ProposalStatus {
	switch {
	case p.Executed:
		return StatusExecuted
	case p.Canceled:
		return StatusCanceled
	case blockNumber <= p.StartBlock:
		return StatusPending
	case blockNumber <= p.EndBlock:
		return StatusActive
	case p.ForVotes == 0 || p.ForVotes <= p.AgainstVotes:
		return StatusDefeated
	case p.ETA == 0:
		return StatusSucceeded
	case blockNumber > p.ETA+VotingPeriod(db):
		return StatusExpired
	}
	return StatusQueued
}

// Propose records a new proposal wrapping the given nested system action.
// Only the owner of at least one Alive or Active validator may propose.
// Voting opens at the next block and stays open for the governed window.
func Propose(db vm.StateDB, proposer common.Address, action sysaction.ActionKind, actionData json.RawMessage, description string, blockNumber uint64) (uint64, error) {
	if len(votingValidators(db, proposer)) == 0 {
		return 0, ErrNoVotingPower
	}
	id := readProposalCount(db) + 1
	writeProposalCount(db, id)
	writeProposal(db, &Proposal{
		ID:          id,
		Proposer:    proposer,
		Action:      action,
		ActionData:  actionData,
		Description: description,
		StartBlock:  blockNumber,
		EndBlock:    blockNumber + VotingPeriod(db),
	})
	log.Info("proposal created", "id", id, "proposer", proposer, "action", action)
	return id, nil
}

// Vote casts one vote per eligible validator the sender owns. Validators
// that already voted are skipped; if every owned validator has voted the
// call fails with ErrAlreadyVoted.
func Vote(db vm.StateDB, voter common.Address, id uint64, support bool, blockNumber uint64) error {
	p, err := ReadProposal(db, id)
	if err != nil {
		return err
	}
	if State(db, p, blockNumber) != StatusActive {
		return fmt.Errorf("%w: voting closed for proposal %d", ErrProposalState, id)
	}
	owned := votingValidators(db, voter)
	if len(owned) == 0 {
		return ErrNoVotingPower
	}

	var cast uint64
	for _, validator := range owned {
		if hasVoted(db, id, validator) {
			continue
		}
		markVoted(db, id, validator)
		cast++
	}
	if cast == 0 {
		return ErrAlreadyVoted
	}
	if support {
		p.ForVotes += cast
	} else {
		p.AgainstVotes += cast
	}
	writeProposal(db, p)

	log.Debug("vote cast", "id", id, "voter", voter, "support", support, "votes", cast)
	return nil
}

// Queue schedules a Succeeded proposal for execution at the current block.
func Queue(db vm.StateDB, id uint64, blockNumber uint64) error {
	p, err := ReadProposal(db, id)
	if err != nil {
		return err
	}
	if got := State(db, p, blockNumber); got != StatusSucceeded {
		return fmt.Errorf("%w: proposal %d is %s, want succeeded", ErrProposalState, id, got)
	}
	p.ETA = blockNumber
	writeProposal(db, p)
	log.Info("proposal queued", "id", id, "eta", p.ETA)
	return nil
}

// Execute dispatches the queued proposal's nested action with the governance
// address as sender. Executing an already executed proposal is a no-op, so
// replayed execute transactions cannot fail a block.
func Execute(db vm.StateDB, id uint64, blockNumber uint64, chainConfig *params.ChainConfig) error {
	p, err := ReadProposal(db, id)
	if err != nil {
		return err
	}
	if p.Executed {
		return nil
	}
	if got := State(db, p, blockNumber); got != StatusQueued {
		return fmt.Errorf("%w: proposal %d is %s, want queued", ErrProposalState, id, got)
	}

	nested := &sysaction.SysAction{Action: p.Action, Payload: p.ActionData}
	ctx := &sysaction.Context{
		From:        params.GovernanceAddress,
		Value:       new(big.Int),
		BlockNumber: blockNumber,
		StateDB:     db,
		ChainConfig: chainConfig,
	}
	if err := sysaction.DefaultRegistry.Dispatch(ctx, nested); err != nil {
		return fmt.Errorf("governance: proposal %d action failed: %w", id, err)
	}

	p.Executed = true
	writeProposal(db, p)
	log.Info("proposal executed", "id", id, "action", p.Action)
	return nil
}

// Cancel withdraws a not-yet-executed proposal. Proposer only.
func Cancel(db vm.StateDB, from common.Address, id uint64) error {
	p, err := ReadProposal(db, id)
	if err != nil {
		return err
	}
	if p.Proposer != from {
		return ErrNotProposer
	}
	if p.Executed || p.Canceled {
		return fmt.Errorf("%w: proposal %d already finalized", ErrProposalState, id)
	}
	p.Canceled = true
	writeProposal(db, p)
	log.Info("proposal canceled", "id", id)
	return nil
}
