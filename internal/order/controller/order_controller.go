package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vincula/internal/auth"
	"vincula/internal/domain"
	"vincula/internal/dto"
	apperrors "vincula/internal/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type OrderUseCase interface {
	Create(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error)
	ChangeStatus(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error)
	Update(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated actor", nil, logger)
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body",
			[]apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}}, logger)
		return
	}

	cmd := dto.CreateOrderCommand{
		Actor:      actor,
		ClientID:   req.ClientID,
		Items:      itemRequests(req.Items),
		Comment:    req.Comment,
		AssigneeID: req.AssigneeID,
	}

	if req.Status != nil {
		status, ok := domain.ParseOrderStatus(*req.Status)
		if !ok {
			c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid status",
				[]apperrors.ValidationDetail{{Field: "status", Message: "status must be one of NEW, IN_PROGRESS, DONE, CANCELED"}}, logger)
			return
		}
		cmd.Status = &status
	}

	order, err := c.useCase.Create(r.Context(), cmd)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.OrderToResponse(order), logger)
}

func (c *OrderController) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, traceID, logger)
	if !ok {
		return
	}

	order, err := c.useCase.FindByID(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order), logger)
}

func (c *OrderController) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageLimit {
			c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid limit",
				[]apperrors.ValidationDetail{{Field: "limit", Message: "limit must be between 1 and 100"}}, logger)
			return
		}
		limit = parsed
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid offset",
				[]apperrors.ValidationDetail{{Field: "offset", Message: "offset must be non-negative"}}, logger)
			return
		}
		offset = parsed
	}

	orders, total, err := c.useCase.FindAll(r.Context(), limit, offset)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, dto.OrderToResponse(&orders[i]))
	}

	c.writeJSON(w, http.StatusOK, resp, logger)
}

func (c *OrderController) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated actor", nil, logger)
		return
	}

	orderID, ok := c.parseOrderID(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body",
			[]apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}}, logger)
		return
	}

	cmd := dto.UpdateOrderCommand{
		Actor:   actor,
		OrderID: orderID,
	}
	if req.Items != nil {
		cmd.Items = dto.ItemsReplacement{Present: true, Items: itemRequests(*req.Items)}
	}
	if req.Comment != nil {
		cmd.Comment = dto.FieldPatch[*string]{Present: true, Value: req.Comment}
	}
	if req.AssigneeID != nil {
		cmd.Assignee = dto.FieldPatch[*uint]{Present: true, Value: req.AssigneeID}
	}

	order, err := c.useCase.Update(r.Context(), cmd)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order), logger)
}

func (c *OrderController) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated actor", nil, logger)
		return
	}

	orderID, ok := c.parseOrderID(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body",
			[]apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}}, logger)
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid status",
			[]apperrors.ValidationDetail{{Field: "status", Message: "status must be one of NEW, IN_PROGRESS, DONE, CANCELED"}}, logger)
		return
	}

	order, err := c.useCase.ChangeStatus(r.Context(), dto.ChangeStatusCommand{
		Actor:   actor,
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order), logger)
}

func (c *OrderController) parseOrderID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (uint, bool) {
	raw := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid orderId",
			[]apperrors.ValidationDetail{{Field: "orderId", Message: "orderId must be a positive integer"}}, logger)
		return 0, false
	}
	return uint(orderID), true
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details, logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil, logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func (c *OrderController) writeError(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func itemRequests(items []dto.OrderItemRequest) []dto.ItemRequest {
	out := make([]dto.ItemRequest, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return out
}
