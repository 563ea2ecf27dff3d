package llm

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToOpenAIMessagesCarriesToolTurns(t *testing.T) {
	transcript := []ChatMessage{
		SystemMessage("You are a helpful assistant."),
		UserMessage("What is the population of Palo Alto, CA?"),
		{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "lookup_city", Arguments: json.RawMessage(`{"city":"Palo Alto","state":"CA"}`)},
				{ID: "call_2", Name: "lookup_values", Arguments: json.RawMessage(`{"geokey":"0655282","types":["Population"]}`)},
			},
		},
		ToolResultMessage("call_1", `{"city":"Palo Alto"}`),
		ToolResultMessage("call_2", `[{"type":"Population","value":68572}]`),
	}

	converted := convertToOpenAIMessages(transcript)
	require.Len(t, converted, 5)

	assert.Equal(t, "system", converted[0].Role)
	assert.Equal(t, "user", converted[1].Role)

	// Tool calls keep their emitted order.
	require.Len(t, converted[2].ToolCalls, 2)
	assert.Equal(t, "call_1", converted[2].ToolCalls[0].ID)
	assert.Equal(t, "lookup_city", converted[2].ToolCalls[0].Function.Name)
	assert.Equal(t, "call_2", converted[2].ToolCalls[1].ID)

	assert.Equal(t, "call_1", converted[3].ToolCallID)
	assert.Equal(t, "call_2", converted[4].ToolCallID)
}

func TestConvertToOpenAITools(t *testing.T) {
	defs := []ToolDefinition{
		{
			Name:        "lookup_city",
			Description: "Resolve a city and state to its geographic key",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city":  map[string]interface{}{"type": "string"},
					"state": map[string]interface{}{"type": "string"},
				},
				"required": []string{"city", "state"},
			},
		},
	}

	converted := convertToOpenAITools(defs)
	require.Len(t, converted, 1)
	assert.Equal(t, openai.ToolTypeFunction, converted[0].Type)
	assert.Equal(t, "lookup_city", converted[0].Function.Name)
}

func TestConvertOpenAIResponsePreservesToolCallOrder(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{
				Message: openai.ChatCompletionMessage{
					Role: "assistant",
					ToolCalls: []openai.ToolCall{
						{ID: "call_a", Function: openai.FunctionCall{Name: "lookup_city", Arguments: `{"city":"Boise","state":"ID"}`}},
						{ID: "call_b", Function: openai.FunctionCall{Name: "lookup_values", Arguments: `{"geokey":"1608830","types":["Population"]}`}},
					},
				},
			},
		},
		Usage: openai.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}

	out := convertOpenAIResponse(resp)
	require.Len(t, out.ToolCalls, 2)
	assert.Equal(t, "call_a", out.ToolCalls[0].ID)
	assert.Equal(t, "call_b", out.ToolCalls[1].ID)
	require.NotNil(t, out.Usage)
	assert.Equal(t, uint32(120), out.Usage.TotalTokens)
}
