package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vincula/internal/domain"
	"vincula/internal/errors"
)

type MySQLClientRepository struct {
	db *sql.DB
}

func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

func (r *MySQLClientRepository) FindByID(ctx context.Context, id uint) (*domain.Client, error) {
	query := `
		SELECT id, firstName, lastName, email, phone, company, createdAt, updatedAt
		FROM Clients
		WHERE id = ?
	`

	var client domain.Client
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID, &client.FirstName, &client.LastName, &client.Email,
		&client.Phone, &client.Company, &client.CreatedAt, &client.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("client with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying client by id: %w", err)
	}

	return &client, nil
}

func (r *MySQLClientRepository) Exists(ctx context.Context, id uint) (bool, error) {
	query := `SELECT 1 FROM Clients WHERE id = ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking client existence: %w", err)
	}

	return true, nil
}
