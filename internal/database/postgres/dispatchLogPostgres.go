package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type DispatchLogRepository struct {
	db *sql.DB
}

func NewDispatchLogRepository(db *sql.DB) DispatchLogRepositoryInterface {
	return &DispatchLogRepository{db: db}
}

// MarkDispatched claims the given calendar day for this process. It
// reports true when the day was not yet logged, so a restart around the
// trigger time cannot run the same day's cycle twice.
func (r *DispatchLogRepository) MarkDispatched(ctx context.Context, day string) (bool, error) {
	query := `INSERT INTO dispatch_log (day) VALUES ($1)
	          ON CONFLICT (day) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, day)
	if err != nil {
		return false, fmt.Errorf("failed to mark dispatch day: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read dispatch log result: %w", err)
	}
	return rows == 1, nil
}
