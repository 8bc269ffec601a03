// Package governance implements the on-chain proposal machinery: registered
// validator owners propose a nested system action, vote on it during a fixed
// window and, once passed and queued, have it executed with the governance
// address as sender.
package governance

import (
	"encoding/json"
	"errors"

	"github.com/bas-network/gbas/common"
	"github.com/bas-network/gbas/sysaction"
)

// ProposalStatus is the lifecycle state of a proposal, derived from its
// stored record and the current block height.
type ProposalStatus uint8

const (
	StatusPending ProposalStatus = iota
	StatusActive
	StatusCanceled
	StatusDefeated
	StatusSucceeded
	StatusQueued
	StatusExpired
	StatusExecuted
)

func (s ProposalStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCanceled:
		return "canceled"
	case StatusDefeated:
		return "defeated"
	case StatusSucceeded:
		return "succeeded"
	case StatusQueued:
		return "queued"
	case StatusExpired:
		return "expired"
	case StatusExecuted:
		return "executed"
	}
	return "unknown"
}

// Proposal is the stored proposal record. Status is not stored; it is
// recomputed from the record and the block height, so restarts and reorgs
// cannot leave a stale status behind.
type Proposal struct {
	ID          uint64               `json:"id"`
	Proposer    common.Address       `json:"proposer"`
	Action      sysaction.ActionKind `json:"action"`
	ActionData  json.RawMessage      `json:"actionData,omitempty"`
	Description string               `json:"description,omitempty"`

	StartBlock uint64 `json:"startBlock"` // voting opens after this block
	EndBlock   uint64 `json:"endBlock"`   // last voting block
	ETA        uint64 `json:"eta"`        // earliest execution block, 0 until queued

	ForVotes     uint64 `json:"forVotes"`
	AgainstVotes uint64 `json:"againstVotes"`

	Canceled bool `json:"canceled"`
	Executed bool `json:"executed"`
}

var (
	ErrProposalNotFound = errors.New("governance: proposal not found")
	ErrProposalState    = errors.New("governance: operation not permitted in current proposal state")
	ErrAlreadyVoted     = errors.New("governance: validator already voted")
	ErrNoVotingPower    = errors.New("governance: sender owns no eligible validator")
	ErrNotProposer      = errors.New("governance: sender is not the proposer")
)
