package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDone       OrderStatus = "DONE"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// ParseOrderStatus maps a wire-level string onto the closed status enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusDone, OrderStatusCanceled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether the status admits no further transitions.
// Once an order is DONE or CANCELED its items and comment are frozen too.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDone || s == OrderStatusCanceled
}

type Order struct {
	ID          uint
	ClientID    uint
	Status      OrderStatus
	Total       decimal.Decimal
	Comment     *string
	AssigneeID  *uint
	Items       []OrderItem
	History     []StatusHistoryEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Quantity  int
	// Price is the unit price captured when the item was resolved. Catalog
	// price changes after that moment never rewrite existing lines.
	Price decimal.Decimal
}

// StatusHistoryEntry is one immutable record of a status change.
// PreviousStatus is nil only for the creation entry.
type StatusHistoryEntry struct {
	ID             uint
	OrderID        uint
	PreviousStatus *OrderStatus
	NewStatus      OrderStatus
	ActorID        *uint
	CreatedAt      time.Time
}

// OrderTotal computes the order total as the sum of quantity × unit price
// over the given items. It is recomputed on every create and every item
// replacement, never cached apart from its inputs.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
