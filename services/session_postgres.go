package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps drafts in the drafts table so a restart does not lose
// conversations in progress.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, customerID string) (*models.Draft, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT draft FROM drafts WHERE chat_id = $1`, customerID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d models.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) Put(ctx context.Context, d *models.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO drafts (chat_id, step, draft, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id) DO UPDATE SET
			step = $2,
			draft = $3,
			updated_at = now()`,
		d.CustomerID, string(d.Step), raw,
	)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, customerID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE chat_id = $1`, customerID)
	return err
}
