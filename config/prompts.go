package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed citychat.yaml
var defaultPromptsYAML []byte

// FunctionPrompt carries the wording advertised for one tool.
type FunctionPrompt struct {
	Description string            `yaml:"description"`
	Parameters  map[string]string `yaml:"parameters"`
}

// PromptDoc is the prompt document: the system message plus per-function
// descriptions. Keeping wording in one file lets it be tuned per deployment
// without a rebuild.
type PromptDoc struct {
	SystemMessage string                    `yaml:"system_message"`
	Functions     map[string]FunctionPrompt `yaml:"functions"`
}

// FunctionDescription returns the description for a tool, or "" when the
// document does not mention it.
func (d *PromptDoc) FunctionDescription(name string) string {
	return d.Functions[name].Description
}

// FunctionParameters returns the per-parameter descriptions for a tool.
func (d *PromptDoc) FunctionParameters(name string) map[string]string {
	return d.Functions[name].Parameters
}

// DefaultPrompts parses the built-in prompt document.
func DefaultPrompts() (*PromptDoc, error) {
	return parsePrompts(defaultPromptsYAML)
}

// LoadPrompts reads a prompt document from path, falling back to the
// built-in one when path is empty.
func LoadPrompts(path string) (*PromptDoc, error) {
	if path == "" {
		return DefaultPrompts()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt document: %w", err)
	}
	return parsePrompts(data)
}

func parsePrompts(data []byte) (*PromptDoc, error) {
	var doc PromptDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt document: %w", err)
	}
	if doc.SystemMessage == "" {
		return nil, fmt.Errorf("prompt document missing system_message")
	}
	return &doc, nil
}
