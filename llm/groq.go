// Groq Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with different base URL
// - Supports llama and mixtral model families hosted on Groq

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements the Provider interface for Groq.
type GroqProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(apiKey, model string, maxTokens uint32, temperature float32) *GroqProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL

	return &GroqProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *GroqProvider) Name() string {
	return "groq"
}

// Model returns the current model.
func (p *GroqProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request.
func (p *GroqProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	return convertOpenAIResponse(resp), nil
}

// ChatWithTools sends a chat completion request with tool definitions.
func (p *GroqProvider) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Tools:       convertToOpenAITools(tools),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	return convertOpenAIResponse(resp), nil
}

// Verify GroqProvider implements Provider
var _ Provider = (*GroqProvider)(nil)
