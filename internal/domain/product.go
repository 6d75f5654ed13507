package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Orderable reports whether the product may appear on a new order line.
func (p Product) Orderable() bool {
	return p.IsActive && !p.IsDeleted
}
