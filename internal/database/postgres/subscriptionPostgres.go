package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	_ "github.com/lib/pq"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepositoryInterface {
	return &SubscriptionRepository{db: db}
}

// Register inserts the subscription unless a record for the endpoint
// already exists. The conflict clause makes the insert-if-absent atomic,
// so concurrent registrations of the same endpoint cannot produce
// duplicates. Stored key material is never overwritten.
func (r *SubscriptionRepository) Register(ctx context.Context, sub *entity.Subscription) (bool, error) {
	query := `INSERT INTO subscriptions (endpoint, p256dh, auth)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (endpoint) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth)
	if err != nil {
		return false, fmt.Errorf("failed to register subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read register result: %w", err)
	}
	return rows == 1, nil
}

func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]entity.Subscription, error) {
	query := `SELECT endpoint, p256dh, auth FROM subscriptions ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []entity.Subscription
	for rows.Next() {
		var sub entity.Subscription
		if err := rows.Scan(&sub.Endpoint, &sub.Keys.P256dh, &sub.Keys.Auth); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// Remove deletes the subscription for the endpoint. Removing an endpoint
// that is already gone is a no-op.
func (r *SubscriptionRepository) Remove(ctx context.Context, endpoint string) error {
	query := `DELETE FROM subscriptions WHERE endpoint = $1`
	_, err := r.db.ExecContext(ctx, query, endpoint)
	if err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	return nil
}
