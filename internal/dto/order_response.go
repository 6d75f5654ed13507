package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"vincula/internal/domain"
	apperrors "vincula/internal/errors"
)

type OrderItemResponse struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type HistoryEntryResponse struct {
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ActorID        *uint     `json:"actor"`
	Timestamp      time.Time `json:"timestamp"`
}

type OrderResponse struct {
	ID          uint                   `json:"id"`
	ClientID    uint                   `json:"clientId"`
	Status      string                 `json:"status"`
	Total       decimal.Decimal        `json:"total"`
	Comment     *string                `json:"comment,omitempty"`
	AssigneeID  *uint                  `json:"assigneeId,omitempty"`
	Items       []OrderItemResponse    `json:"items"`
	History     []HistoryEntryResponse `json:"history,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func OrderToResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		ClientID:    order.ClientID,
		Status:      string(order.Status),
		Total:       order.Total,
		Comment:     order.Comment,
		AssigneeID:  order.AssigneeID,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		CompletedAt: order.CompletedAt,
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	for _, entry := range order.History {
		var prev *string
		if entry.PreviousStatus != nil {
			s := string(*entry.PreviousStatus)
			prev = &s
		}
		resp.History = append(resp.History, HistoryEntryResponse{
			PreviousStatus: prev,
			NewStatus:      string(entry.NewStatus),
			ActorID:        entry.ActorID,
			Timestamp:      entry.CreatedAt,
		})
	}

	return resp
}
