// Package model holds types shared between the agent, server and CLI.
package model

// Outcome classifies how an agent run ended.
type Outcome string

const (
	// OutcomeDone means the model produced a final answer.
	OutcomeDone Outcome = "done"
	// OutcomeBudgetExceeded means the turn budget ran out mid-conversation.
	OutcomeBudgetExceeded Outcome = "budget_exceeded"
	// OutcomeFailed means the provider call itself failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeRejected means the question never reached the model.
	OutcomeRejected Outcome = "rejected"
)

// ToolCallStat records one executed tool call for response metadata.
type ToolCallStat struct {
	Tool       string `json:"tool"`
	Success    bool   `json:"success"`
	DurationMs uint64 `json:"duration_ms"`
}
