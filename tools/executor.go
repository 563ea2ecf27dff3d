// Tool execution with per-call validation, timeout and logging.
//
// Information Hiding:
// - Lookup, validation and timing internalized
// - Callers get a ToolResult whatever goes wrong

package tools

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// DefaultToolTimeout bounds a single tool execution.
const DefaultToolTimeout = 30 * time.Second

// Executor runs registered tools. A failed call never aborts the caller;
// every outcome is reported through the ToolResult.
type Executor struct {
	registry *Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
		timeout:  DefaultToolTimeout,
		logger:   zap.NewNop(),
	}
}

// WithTimeout sets the per-call execution timeout.
func (e *Executor) WithTimeout(timeout time.Duration) *Executor {
	if timeout > 0 {
		e.timeout = timeout
	}
	return e
}

// WithLogger attaches a logger for execution diagnostics.
func (e *Executor) WithLogger(logger *zap.Logger) *Executor {
	e.logger = logger
	return e
}

// Execute validates and runs the named tool. An unknown name is reported
// in the exact wording the model is prompted to recognize.
func (e *Executor) Execute(ctx context.Context, name string, args json.RawMessage) ToolResult {
	tool, ok := e.registry.Get(name)
	if !ok {
		e.logger.Warn("unknown tool requested", zap.String("tool", name))
		return FailureResultf("Function '%s' not found.", name)
	}

	if err := tool.Validate(args); err != nil {
		e.logger.Warn("tool arguments rejected",
			zap.String("tool", name),
			zap.Error(err))
		return FailureResult(err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	result := tool.Execute(ctx, args)
	elapsed := time.Since(start)

	if result.Success() {
		e.logger.Debug("tool executed",
			zap.String("tool", name),
			zap.Duration("duration", elapsed))
	} else {
		e.logger.Warn("tool failed",
			zap.String("tool", name),
			zap.Duration("duration", elapsed),
			zap.Error(result.Err))
	}

	return result
}
