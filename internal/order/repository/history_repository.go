package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vincula/internal/domain"
)

// MySQLHistoryRepository appends to and reads the order status history.
// Entries are immutable: there is no update or delete path.
type MySQLHistoryRepository struct {
	db *sql.DB
}

func NewMySQLHistoryRepository(db *sql.DB) *MySQLHistoryRepository {
	return &MySQLHistoryRepository{db: db}
}

func (r *MySQLHistoryRepository) Insert(ctx context.Context, tx *sql.Tx, entry domain.StatusHistoryEntry) error {
	query := `
		INSERT INTO OrderStatusHistory (orderId, previousStatus, newStatus, actorId)
		VALUES (?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		entry.OrderID, entry.PreviousStatus, entry.NewStatus, entry.ActorID,
	)
	if err != nil {
		return fmt.Errorf("inserting status history entry: %w", err)
	}

	return nil
}

func (r *MySQLHistoryRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.StatusHistoryEntry, error) {
	query := `
		SELECT id, orderId, previousStatus, newStatus, actorId, createdAt
		FROM OrderStatusHistory
		WHERE orderId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying status history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		err := rows.Scan(
			&entry.ID, &entry.OrderID, &entry.PreviousStatus,
			&entry.NewStatus, &entry.ActorID, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning status history row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status history rows: %w", err)
	}

	return entries, nil
}
