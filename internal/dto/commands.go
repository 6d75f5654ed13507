package dto

import (
	"github.com/shopspring/decimal"

	"vincula/internal/domain"
)

// ItemRequest is one requested (product, quantity, price) line. The price is
// the one the caller displayed to the user; see ItemResolver for the pricing
// policy.
type ItemRequest struct {
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
}

type CreateOrderCommand struct {
	Actor    domain.Actor
	ClientID uint
	Items    []ItemRequest
	// Status overrides the NEW default, used for pre-seeded or imported
	// orders. Nil means NEW.
	Status     *domain.OrderStatus
	Comment    *string
	AssigneeID *uint
}

// ItemsReplacement is a tagged optional: Present=false leaves the existing
// item set untouched, Present=true replaces it wholesale. Items are never
// merged into the previous set.
type ItemsReplacement struct {
	Present bool
	Items   []ItemRequest
}

// FieldPatch marks a field as either untouched or set to Value.
type FieldPatch[T any] struct {
	Present bool
	Value   T
}

type UpdateOrderCommand struct {
	Actor    domain.Actor
	OrderID  uint
	Items    ItemsReplacement
	Comment  FieldPatch[*string]
	Assignee FieldPatch[*uint]
}

type ChangeStatusCommand struct {
	Actor   domain.Actor
	OrderID uint
	Status  domain.OrderStatus
}
