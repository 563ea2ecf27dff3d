package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExchangeLog(t *testing.T) *ExchangeLog {
	t.Helper()
	log, err := OpenExchangeLog(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestExchangeLogRecordAndRecent(t *testing.T) {
	log := newTestExchangeLog(t)
	ctx := context.Background()

	err := log.Record(ctx, Exchange{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Question:    "What is the population of Boise, ID?",
		Answer:      "Boise has a population of about 235,000.",
		Outcome:     "done",
		LLMCalls:    2,
		ToolCalls:   2,
		TotalTokens: 1420,
		DurationMs:  830,
	})
	require.NoError(t, err)

	exchanges, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)

	ex := exchanges[0]
	assert.NotEmpty(t, ex.ID, "ID should be generated when omitted")
	assert.False(t, ex.CreatedAt.IsZero(), "CreatedAt should be filled in")
	assert.Equal(t, "done", ex.Outcome)
	assert.Equal(t, 2, ex.LLMCalls)
	assert.Equal(t, uint32(1420), ex.TotalTokens)
}

func TestExchangeLogRecentOrderAndLimit(t *testing.T) {
	log := newTestExchangeLog(t)
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, log.Record(ctx, Exchange{
			Provider: "groq",
			Model:    "llama-3.3-70b-versatile",
			Question: q,
			Answer:   "ok",
			Outcome:  "done",
		}))
	}

	exchanges, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, exchanges, 2)
}
