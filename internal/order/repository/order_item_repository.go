package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vincula/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.OrderItem) error {
	query := `INSERT INTO OrderItems (orderId, productId, quantity, price) VALUES (?, ?, ?, ?)`

	for _, item := range items {
		_, err := tx.ExecContext(ctx, query, orderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	return nil
}

// DeleteByOrderID removes the order's whole item set. Items are owned by the
// order and replaced wholesale on edit, never patched in place.
func (r *MySQLOrderItemRepository) DeleteByOrderID(ctx context.Context, tx *sql.Tx, orderID uint) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM OrderItems WHERE orderId = ?`, orderID)
	if err != nil {
		return fmt.Errorf("deleting order items: %w", err)
	}

	return nil
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, productId, quantity, price
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
