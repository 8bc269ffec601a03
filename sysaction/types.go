// Package sysaction implements the BAS system action protocol.
//
// System actions are special transactions whose data field is a JSON-encoded
// SysAction message. The EVM is never invoked; instead the block processor
// calls sysaction.Execute() which dispatches to the appropriate handler
// (staking, chainconfig, governance).
package sysaction

import "encoding/json"

// ActionKind identifies the type of system action.
type ActionKind string

const (
	// Validator lifecycle
	ActionValidatorAdd      ActionKind = "VALIDATOR_ADD"
	ActionValidatorRemove   ActionKind = "VALIDATOR_REMOVE"
	ActionValidatorActivate ActionKind = "VALIDATOR_ACTIVATE"
	ActionValidatorDisable  ActionKind = "VALIDATOR_DISABLE"

	// Misbehavior reporting
	ActionValidatorSlash ActionKind = "VALIDATOR_SLASH"

	// Fee attribution
	ActionFeeDeposit ActionKind = "FEE_DEPOSIT"
	ActionFeeClaim   ActionKind = "FEE_CLAIM"

	// Delegation
	ActionDelegate        ActionKind = "DELEGATE"
	ActionUndelegate      ActionKind = "UNDELEGATE"
	ActionUndelegateClaim ActionKind = "UNDELEGATE_CLAIM"

	// Governed configuration
	ActionChainConfigUpdate ActionKind = "CHAIN_CONFIG_UPDATE"

	// Governance
	ActionGovPropose ActionKind = "GOV_PROPOSE"
	ActionGovVote    ActionKind = "GOV_VOTE"
	ActionGovQueue   ActionKind = "GOV_QUEUE"
	ActionGovExecute ActionKind = "GOV_EXECUTE"
	ActionGovCancel  ActionKind = "GOV_CANCEL"
)

// SysAction is the top-level envelope stored in tx data for system action txs.
type SysAction struct {
	Action  ActionKind      `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ValidatorPayload targets a single validator by address. Owner is only
// consulted by VALIDATOR_ADD; when empty the sender becomes the owner.
type ValidatorPayload struct {
	Validator string `json:"validator"`
	Owner     string `json:"owner,omitempty"`
}

// DelegatePayload is the payload for DELEGATE / UNDELEGATE / UNDELEGATE_CLAIM.
// Amount is a base-10 wei string; empty means "all" for UNDELEGATE and is
// ignored for claims.
type DelegatePayload struct {
	Validator string `json:"validator"`
	Amount    string `json:"amount,omitempty"`
}

// ChainConfigPayload carries a full replacement set of consensus parameters.
// Stake amounts are base-10 wei strings.
type ChainConfigPayload struct {
	ActiveValidatorsLength   uint32 `json:"activeValidatorsLength"`
	EpochBlockInterval       uint64 `json:"epochBlockInterval"`
	MisdemeanorThreshold     uint32 `json:"misdemeanorThreshold"`
	FelonyThreshold          uint32 `json:"felonyThreshold"`
	ValidatorJailEpochLength uint32 `json:"validatorJailEpochLength"`
	UndelegatePeriod         uint32 `json:"undelegatePeriod"`
	MinValidatorStakeAmount  string `json:"minValidatorStakeAmount,omitempty"`
	MinStakingAmount         string `json:"minStakingAmount,omitempty"`
}

// ProposePayload wraps the nested action a passed proposal will execute.
type ProposePayload struct {
	Action      ActionKind      `json:"action"`
	ActionData  json.RawMessage `json:"actionData,omitempty"`
	Description string          `json:"description,omitempty"`
}

// VotePayload is the payload for GOV_VOTE.
type VotePayload struct {
	ProposalID uint64 `json:"proposalId"`
	Support    bool   `json:"support"`
}

// ProposalPayload targets a proposal by id (queue, execute, cancel).
type ProposalPayload struct {
	ProposalID uint64 `json:"proposalId"`
}
