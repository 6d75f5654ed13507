package dto

import "github.com/shopspring/decimal"

type OrderItemRequest struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	ClientID   uint               `json:"clientId"`
	Items      []OrderItemRequest `json:"items"`
	Status     *string            `json:"status,omitempty"`
	Comment    *string            `json:"comment,omitempty"`
	AssigneeID *uint              `json:"assigneeId,omitempty"`
}

// UpdateOrderRequest uses pointer presence on the wire; the controller
// translates it into the tagged UpdateOrderCommand so replace-vs-leave is
// explicit past the HTTP boundary.
type UpdateOrderRequest struct {
	Items      *[]OrderItemRequest `json:"items,omitempty"`
	Comment    *string             `json:"comment,omitempty"`
	AssigneeID *uint               `json:"assigneeId,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}
