package agent

import (
	"github.com/richinex/citychat/llm"
	"github.com/richinex/citychat/model"
)

// Metadata carries run accounting alongside the answer.
type Metadata struct {
	ExecutionTimeMs uint64               `json:"execution_time_ms"`
	LLMCalls        int                  `json:"llm_calls"`
	Turns           int                  `json:"turns"`
	ToolCalls       []model.ToolCallStat `json:"tool_calls,omitempty"`
	TokenUsage      *llm.TokenUsage      `json:"token_usage,omitempty"`
}

// Response is the outcome of one agent run. A run that exhausts its turn
// budget still yields a Response: the last assistant text, which may be
// empty, with the outcome marking what happened.
type Response struct {
	Content  string        `json:"content"`
	Outcome  model.Outcome `json:"outcome"`
	Metadata Metadata      `json:"metadata"`
}

// Done reports whether the model finished of its own accord.
func (r *Response) Done() bool {
	return r.Outcome == model.OutcomeDone
}

// NewDoneResponse builds a response for a model-terminated run.
func NewDoneResponse(content string, meta Metadata) *Response {
	return &Response{Content: content, Outcome: model.OutcomeDone, Metadata: meta}
}

// NewBudgetExceededResponse builds a response for a run cut off by the
// turn budget.
func NewBudgetExceededResponse(lastContent string, meta Metadata) *Response {
	return &Response{Content: lastContent, Outcome: model.OutcomeBudgetExceeded, Metadata: meta}
}
