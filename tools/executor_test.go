package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingValidationTool struct {
	stubTool
}

func (failingValidationTool) Validate(args json.RawMessage) error {
	var a struct {
		Q string `json:"q"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return err
	}
	if a.Q == "" {
		return assert.AnError
	}
	return nil
}

func TestExecutorUnknownToolMessage(t *testing.T) {
	executor := NewExecutor(NewRegistry())

	result := executor.Execute(context.Background(), "lookup_weather", json.RawMessage(`{}`))
	require.False(t, result.Success())
	assert.Equal(t, "Function 'lookup_weather' not found.", result.Err.Error())
	assert.JSONEq(t, `{"error":"Function 'lookup_weather' not found."}`, result.PayloadJSON())
}

func TestExecutorRunsRegisteredTool(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubTool{name: "alpha"}))
	executor := NewExecutor(registry)

	result := executor.Execute(context.Background(), "alpha", json.RawMessage(`{"q":"x"}`))
	require.True(t, result.Success())
	assert.JSONEq(t, `{"tool":"alpha"}`, result.PayloadJSON())
}

func TestExecutorValidationFailureIsIsolated(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(failingValidationTool{stubTool{name: "alpha"}}))
	executor := NewExecutor(registry)

	result := executor.Execute(context.Background(), "alpha", json.RawMessage(`{"q":""}`))
	require.False(t, result.Success())

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(result.PayloadJSON()), &payload))
	assert.NotEmpty(t, payload["error"])
}
