package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	BaseTool
	name string
}

func (t stubTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        t.name,
		Description: "stub",
		Parameters: []ToolParameter{
			{Name: "q", ParamType: "string", Description: "query", Required: true},
			{Name: "tags", ParamType: "array", Description: "tags"},
		},
	}
}

func (t stubTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	return SuccessResult(map[string]string{"tool": t.name})
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubTool{name: "alpha"}))

	tool, ok := registry.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", tool.Metadata().Name)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
	assert.True(t, registry.Has("alpha"))
	assert.False(t, registry.Has("missing"))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubTool{name: "alpha"}))

	err := registry.Register(stubTool{name: "alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(stubTool{name: name}))
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, registry.Names())

	defs := registry.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "zeta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.Equal(t, "mid", defs[2].Name)
}

func TestRegistryDefinitionsSchema(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubTool{name: "alpha"}))

	defs := registry.Definitions()
	require.Len(t, defs, 1)

	params := defs[0].Parameters
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []string{"q"}, params["required"])

	properties, ok := params["properties"].(map[string]interface{})
	require.True(t, ok)

	tags, ok := properties["tags"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"type": "string"}, tags["items"],
		"array parameters default to string items")
}
