package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vincula/internal/domain"
	"vincula/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, clientId, status, total, comment, assigneeId, createdAt, updatedAt, completedAt`

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.ClientID, &order.Status, &order.Total,
		&order.Comment, &order.AssigneeID,
		&order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (clientId, status, total, comment, assigneeId, completedAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.ClientID, order.Status, order.Total,
		order.Comment, order.AssigneeID, order.CompletedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate loads the order inside the given transaction with a row
// lock, so the committed status a concurrent writer left behind is what the
// transition guard re-evaluates against.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ? FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, completedAt *time.Time) error {
	query := `UPDATE Orders SET status = ?, completedAt = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return requireRowAffected(result, id)
}

func (r *MySQLOrderRepository) UpdateTotal(ctx context.Context, tx *sql.Tx, id uint, total decimal.Decimal) error {
	query := `UPDATE Orders SET total = ? WHERE id = ?`

	// No rows-affected check: MySQL reports zero affected rows when the new
	// total equals the stored one, and callers hold the row FOR UPDATE anyway.
	_, err := tx.ExecContext(ctx, query, total, id)
	if err != nil {
		return fmt.Errorf("updating order total: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) UpdateComment(ctx context.Context, tx *sql.Tx, id uint, comment *string) error {
	query := `UPDATE Orders SET comment = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, comment, id)
	if err != nil {
		return fmt.Errorf("updating order comment: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) UpdateAssignee(ctx context.Context, tx *sql.Tx, id uint, assigneeID *uint) error {
	query := `UPDATE Orders SET assigneeId = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, assigneeID, id)
	if err != nil {
		return fmt.Errorf("updating order assignee: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders ORDER BY createdAt DESC, id DESC LIMIT ? OFFSET ?`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.ClientID, &order.Status, &order.Total,
			&order.Comment, &order.AssigneeID,
			&order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

func requireRowAffected(result sql.Result, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}
