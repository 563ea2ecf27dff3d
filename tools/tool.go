// Package tools provides the data-lookup tool system for the agent.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Tool parameters and schemas hidden in implementations
// - Registry implementation details hidden from consumers
// - Error handling internalized per tool
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	ItemType    string `json:"item_type,omitempty"` // Element type for array parameters
}

// ToolMetadata describes what a tool does and how to use it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// ToolResult represents the result of a tool execution: either a JSON payload
// or an error. Both shapes are fed back into the conversation; errors become
// an {"error": reason} payload so the model can adapt instead of the request
// aborting.
type ToolResult struct {
	Payload json.RawMessage
	Err     error
}

// Success returns true if the tool execution succeeded.
func (t ToolResult) Success() bool {
	return t.Err == nil
}

// PayloadJSON renders the result as the JSON text appended to the transcript.
// This is the single point where tool failures are converted to the
// error-payload convention.
func (t ToolResult) PayloadJSON() string {
	if t.Err != nil {
		b, err := json.Marshal(map[string]string{"error": t.Err.Error()})
		if err != nil {
			return `{"error":"tool execution failed"}`
		}
		return string(b)
	}
	if len(t.Payload) == 0 {
		return "{}"
	}
	return string(t.Payload)
}

// SuccessResult creates a successful tool result by marshaling v.
// A marshal failure degrades to a failure result rather than panicking.
func SuccessResult(v interface{}) ToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return FailureResult(fmt.Errorf("marshal tool result: %w", err))
	}
	return ToolResult{Payload: b}
}

// EmptyResult creates a successful result with an empty-object payload,
// used when a lookup matches nothing.
func EmptyResult() ToolResult {
	return ToolResult{Payload: json.RawMessage("{}")}
}

// FailureResult creates a failed tool result.
func FailureResult(err error) ToolResult {
	return ToolResult{Err: err}
}

// FailureResultf creates a failed tool result with a formatted error message.
func FailureResultf(format string, args ...interface{}) ToolResult {
	return ToolResult{Err: fmt.Errorf(format, args...)}
}

// paramDescription picks the override for a parameter when the prompt
// document supplies one.
func paramDescription(overrides map[string]string, name, fallback string) string {
	if desc, ok := overrides[name]; ok && desc != "" {
		return desc
	}
	return fallback
}

// Tool is the interface that all tools must implement.
//
// Information Hiding: Tool implementations hide their internal execution logic,
// data structures, and error handling strategies behind this interface.
type Tool interface {
	// Metadata returns tool metadata (name, description, parameters).
	Metadata() ToolMetadata

	// Execute runs the tool with given arguments. Failures are reported
	// through the ToolResult, never by panicking.
	Execute(ctx context.Context, args json.RawMessage) ToolResult

	// Validate validates arguments before execution (optional).
	Validate(args json.RawMessage) error
}

// BaseTool provides a default implementation for Validate.
type BaseTool struct{}

// Validate provides a default no-op validation.
func (BaseTool) Validate(args json.RawMessage) error {
	return nil
}
