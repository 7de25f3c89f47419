package services

import (
	"context"
	"fmt"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger records finalized orders in the orders table.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) Append(ctx context.Context, o models.FinalizedOrder) error {
	_, err := CreateOrder(ctx, l.pool, o)
	return err
}

// CreateOrder inserts the order and returns its id.
func CreateOrder(ctx context.Context, pool *pgxpool.Pool, o models.FinalizedOrder) (int64, error) {
	if pool == nil {
		return 0, fmt.Errorf("%w: no database pool", ErrLedger)
	}
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO orders (
			chat_id, customer_name, address, neighborhood, zone, payment_method,
			items, items_total, delivery_fee, grand_total, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		o.CustomerID, o.CustomerName, o.Address, o.NeighborhoodRaw, o.Zone, o.PaymentMethod,
		o.Items, o.Subtotal, o.DeliveryFee, o.Total, o.Status, o.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert order: %v", ErrLedger, err)
	}
	return id, nil
}
