// Package agent runs the bounded tool-calling conversation loop.
//
// Information Hiding:
// - Loop state machine and turn accounting internalized
// - Tool failure isolation hidden behind the transcript convention
// - Callers see a question in and a Response out

package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/citychat/llm"
	"github.com/richinex/citychat/model"
	"github.com/richinex/citychat/tools"
)

// Agent answers questions by letting the model drive the registered
// lookup tools. One Agent serves many concurrent requests; per-run state
// lives on the stack.
type Agent struct {
	provider llm.Provider
	registry *tools.Registry
	executor *tools.Executor
	config   Config
	logger   *zap.Logger
}

// New creates an agent over a provider and tool registry.
func New(provider llm.Provider, registry *tools.Registry, config Config) *Agent {
	return &Agent{
		provider: provider,
		registry: registry,
		executor: tools.NewExecutor(registry),
		config:   config,
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a logger; the executor inherits it.
func (a *Agent) WithLogger(logger *zap.Logger) *Agent {
	a.logger = logger
	a.executor.WithLogger(logger)
	return a
}

// WithToolTimeout bounds each tool execution.
func (a *Agent) WithToolTimeout(timeout time.Duration) *Agent {
	a.executor.WithTimeout(timeout)
	return a
}

// Provider exposes the backing provider for audit metadata.
func (a *Agent) Provider() llm.Provider {
	return a.provider
}

// Ask screens the question, seeds the transcript from any prior pairs and
// runs the loop. A *RejectionError means the question never reached the
// model.
func (a *Agent) Ask(ctx context.Context, question string, history []HistoryPair) (*Response, error) {
	if err := ValidateQuestion(question); err != nil {
		a.logger.Info("question rejected",
			zap.String("agent", a.config.Name),
			zap.Error(err))
		return nil, err
	}

	messages := SeedHistory(a.config.SystemPrompt, history, question)
	return a.Run(ctx, messages)
}

// Run executes the conversation loop over an already-seeded transcript.
//
// Each turn sends the transcript and the tool definitions to the model.
// A reply without tool calls ends the run. A reply with tool calls has
// them executed sequentially in emitted order, each result appended to the
// transcript before the next model call. When the turn budget runs out the
// run fails open: the last assistant text is returned, marked as cut off.
// Only a provider transport failure fails the whole run.
func (a *Agent) Run(ctx context.Context, messages []llm.ChatMessage) (*Response, error) {
	start := time.Now()
	definitions := a.registry.Definitions()

	usage := &llm.TokenUsage{}
	var stats []model.ToolCallStat
	var lastContent string
	llmCalls := 0
	maxTurns := a.config.maxTurns()

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.provider.ChatWithTools(ctx, messages, definitions)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", a.provider.Name(), err)
		}
		llmCalls++
		usage.Add(resp.Usage)
		lastContent = resp.Content

		if len(resp.ToolCalls) == 0 {
			a.logger.Info("run finished",
				zap.String("agent", a.config.Name),
				zap.Int("turns", turn+1),
				zap.Int("llm_calls", llmCalls),
				zap.Duration("duration", time.Since(start)))
			return NewDoneResponse(resp.Content, a.metadata(start, llmCalls, turn+1, stats, usage)), nil
		}

		// The assistant turn carries its tool calls so the provider can
		// correlate the results that follow.
		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			callStart := time.Now()
			result := a.executor.Execute(ctx, call.Name, call.Arguments)
			stats = append(stats, model.ToolCallStat{
				Tool:       call.Name,
				Success:    result.Success(),
				DurationMs: uint64(time.Since(callStart).Milliseconds()),
			})
			messages = append(messages, llm.ToolResultMessage(call.ID, result.PayloadJSON()))
		}
	}

	a.logger.Warn("run exceeded turn budget",
		zap.String("agent", a.config.Name),
		zap.Int("max_turns", maxTurns),
		zap.Int("llm_calls", llmCalls))

	return NewBudgetExceededResponse(lastContent, a.metadata(start, llmCalls, maxTurns, stats, usage)), nil
}

func (a *Agent) metadata(start time.Time, llmCalls, turns int, stats []model.ToolCallStat, usage *llm.TokenUsage) Metadata {
	return Metadata{
		ExecutionTimeMs: uint64(time.Since(start).Milliseconds()),
		LLMCalls:        llmCalls,
		Turns:           turns,
		ToolCalls:       stats,
		TokenUsage:      usage,
	}
}
