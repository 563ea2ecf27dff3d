package agent

// DefaultMaxTurns bounds the model-call loop per question. Five turns is
// enough for resolve-city, fetch-values and a final answer with room for
// one retry.
const DefaultMaxTurns = 5

// Config controls one agent instance.
type Config struct {
	// Name identifies the agent in logs.
	Name string
	// SystemPrompt is prepended to every conversation.
	SystemPrompt string
	// MaxTurns bounds how many times the model is called per question.
	// Zero or negative falls back to DefaultMaxTurns.
	MaxTurns int
}

// DefaultConfig returns a config with standard limits and no prompt.
func DefaultConfig() Config {
	return Config{
		Name:     "citychat",
		MaxTurns: DefaultMaxTurns,
	}
}

func (c Config) maxTurns() int {
	if c.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return c.MaxTurns
}
