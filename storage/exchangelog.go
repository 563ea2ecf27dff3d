// SQLite-backed audit log of question/answer exchanges.
//
// Information Hiding:
// - Schema and SQL internalized
// - Callers record and list exchanges, never touch rows

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Exchange is one completed question/answer round trip, recorded after the
// agent run finishes regardless of outcome.
type Exchange struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Outcome     string    `json:"outcome"`
	LLMCalls    int       `json:"llm_calls"`
	ToolCalls   int       `json:"tool_calls"`
	TotalTokens uint32    `json:"total_tokens"`
	DurationMs  uint64    `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExchangeLog persists exchanges to a local SQLite database.
type ExchangeLog struct {
	db *sql.DB
}

// OpenExchangeLog opens (creating if needed) the audit log at path.
// Use ":memory:" for an ephemeral log.
func OpenExchangeLog(path string) (*ExchangeLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open exchange log: %w", err)
	}

	log := &ExchangeLog{db: db}
	if err := log.init(); err != nil {
		db.Close()
		return nil, err
	}
	return log, nil
}

func (l *ExchangeLog) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id           TEXT PRIMARY KEY,
		provider     TEXT NOT NULL,
		model        TEXT NOT NULL,
		question     TEXT NOT NULL,
		answer       TEXT NOT NULL,
		outcome      TEXT NOT NULL,
		llm_calls    INTEGER NOT NULL,
		tool_calls   INTEGER NOT NULL,
		total_tokens INTEGER NOT NULL,
		duration_ms  INTEGER NOT NULL,
		created_at   TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("init exchange log schema: %w", err)
	}
	return nil
}

// Record persists one exchange. A zero ID and CreatedAt are filled in.
func (l *ExchangeLog) Record(ctx context.Context, ex Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO exchanges
			(id, provider, model, question, answer, outcome,
			 llm_calls, tool_calls, total_tokens, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Provider, ex.Model, ex.Question, ex.Answer, ex.Outcome,
		ex.LLMCalls, ex.ToolCalls, ex.TotalTokens, ex.DurationMs, ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record exchange: %w", err)
	}
	return nil
}

// Recent returns the most recent exchanges, newest first.
func (l *ExchangeLog) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, provider, model, question, answer, outcome,
		       llm_calls, tool_calls, total_tokens, duration_ms, created_at
		FROM exchanges
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		if err := rows.Scan(
			&ex.ID, &ex.Provider, &ex.Model, &ex.Question, &ex.Answer, &ex.Outcome,
			&ex.LLMCalls, &ex.ToolCalls, &ex.TotalTokens, &ex.DurationMs, &ex.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

// Close releases the underlying database handle.
func (l *ExchangeLog) Close() error {
	return l.db.Close()
}
