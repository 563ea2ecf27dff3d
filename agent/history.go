package agent

import "github.com/richinex/citychat/llm"

// HistoryPair is one prior question/answer round trip supplied by the
// client. Tool traffic from earlier runs is not replayed; the answer text
// is what carries forward.
type HistoryPair struct {
	Question string `json:"question"`
	Answer   string `json:"response"`
}

// SeedHistory builds the opening transcript for a run: the system prompt,
// the prior pairs in order as alternating user/assistant turns, then the
// new question. N pairs produce 2N+2 messages.
func SeedHistory(systemPrompt string, pairs []HistoryPair, question string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, 2*len(pairs)+2)
	messages = append(messages, llm.SystemMessage(systemPrompt))

	for _, pair := range pairs {
		messages = append(messages,
			llm.UserMessage(pair.Question),
			llm.AssistantMessage(pair.Answer),
		)
	}

	return append(messages, llm.UserMessage(question))
}
