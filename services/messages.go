package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RoleCustomer = "customer"
	RoleBot      = "bot"
)

// HistoryLimit is how many recent turns the interpreter gets to see.
const HistoryLimit = 12

// Turn is one message of a conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
	Step string `json:"step,omitempty"` // conversation step the turn belongs to, empty when idle
}

// History keeps recent conversation turns per customer.
type History interface {
	Append(ctx context.Context, customerID string, t Turn) error
	Recent(ctx context.Context, customerID string, n int) ([]Turn, error)
}

// MemoryHistory is a bounded in-process History.
type MemoryHistory struct {
	limit int
	mu    sync.Mutex
	turns map[string][]Turn
}

func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &MemoryHistory{limit: limit, turns: make(map[string][]Turn)}
}

func (h *MemoryHistory) Append(_ context.Context, customerID string, t Turn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	ts := append(h.turns[customerID], t)
	if len(ts) > h.limit {
		ts = append([]Turn(nil), ts[len(ts)-h.limit:]...)
	}
	h.turns[customerID] = ts
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, customerID string, n int) ([]Turn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ts := h.turns[customerID]
	if n > 0 && len(ts) > n {
		ts = ts[len(ts)-n:]
	}
	return append([]Turn(nil), ts...), nil
}

// PostgresHistory stores turns in the messages table.
type PostgresHistory struct {
	pool *pgxpool.Pool
}

func NewPostgresHistory(pool *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{pool: pool}
}

// turnMeta is what the meta column holds for a turn.
type turnMeta struct {
	Step string `json:"step,omitempty"`
}

// Append persists a turn. The step goes to meta so audits can tell which
// question an answer was given to.
func (h *PostgresHistory) Append(ctx context.Context, customerID string, t Turn) error {
	meta, err := json.Marshal(turnMeta{Step: t.Step})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	_, err = h.pool.Exec(ctx, `
		INSERT INTO messages (chat_id, role, content, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		customerID, t.Role, t.Text, string(meta),
	)
	return err
}

func (h *PostgresHistory) Recent(ctx context.Context, customerID string, n int) ([]Turn, error) {
	if n <= 0 {
		n = HistoryLimit
	}
	rows, err := h.pool.Query(ctx, `
		SELECT role, content, COALESCE(meta->>'step', '') FROM (
			SELECT id, role, content, meta FROM messages
			WHERE chat_id = $1
			ORDER BY id DESC
			LIMIT $2
		) recent ORDER BY id`,
		customerID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Role, &t.Text, &t.Step); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
