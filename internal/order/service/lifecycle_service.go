package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vincula/internal/audit"
	"vincula/internal/domain"
	"vincula/internal/dto"
	apperrors "vincula/internal/errors"
)

// TxRunner runs fn inside one all-or-nothing transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, completedAt *time.Time) error
	UpdateTotal(ctx context.Context, tx *sql.Tx, id uint, total decimal.Decimal) error
	UpdateComment(ctx context.Context, tx *sql.Tx, id uint, comment *string) error
	UpdateAssignee(ctx context.Context, tx *sql.Tx, id uint, assigneeID *uint) error
	FindAll(ctx context.Context, limit, offset int) ([]domain.Order, error)
	Count(ctx context.Context) (int, error)
}

type OrderItemRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.OrderItem) error
	DeleteByOrderID(ctx context.Context, tx *sql.Tx, orderID uint) error
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type HistoryRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, entry domain.StatusHistoryEntry) error
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.StatusHistoryEntry, error)
}

type ClientLookup interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type Resolver interface {
	Resolve(ctx context.Context, requests []dto.ItemRequest) ([]domain.OrderItem, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, record audit.Record) error
}

type Metrics interface {
	OrderCreated()
	OrderStatusChanged(status string)
	OrderUpdated()
}

// LifecycleService is the order lifecycle engine. Every mutation runs as one
// transaction covering the order row, its items and its status history, and
// emits an audit record once the transaction has committed.
type LifecycleService struct {
	tx          TxRunner
	orderRepo   OrderRepository
	itemRepo    OrderItemRepository
	historyRepo HistoryRepository
	clients     ClientLookup
	resolver    Resolver
	auditor     AuditRecorder
	metrics     Metrics
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewLifecycleService(
	tx TxRunner,
	orderRepo OrderRepository,
	itemRepo OrderItemRepository,
	historyRepo HistoryRepository,
	clients ClientLookup,
	resolver Resolver,
	auditor AuditRecorder,
	metrics Metrics,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LifecycleService {
	return &LifecycleService{
		tx:          tx,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		clients:     clients,
		resolver:    resolver,
		auditor:     auditor,
		metrics:     metrics,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

func (s *LifecycleService) Create(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
	exists, err := s.clients.Exists(ctx, cmd.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("client with id %d not found", cmd.ClientID))
	}

	items, err := s.resolver.Resolve(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	status := domain.OrderStatusNew
	if cmd.Status != nil {
		status = *cmd.Status
	}

	order := &domain.Order{
		ClientID:   cmd.ClientID,
		Status:     status,
		Total:      domain.OrderTotal(items),
		Comment:    cmd.Comment,
		AssigneeID: cmd.AssigneeID,
	}
	if status.IsTerminal() {
		now := time.Now()
		order.CompletedAt = &now
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var orderID uint
	actorID := cmd.Actor.ID
	err = s.tx.WithinTx(txCtx, func(tx *sql.Tx) error {
		var err error
		orderID, err = s.orderRepo.Insert(txCtx, tx, order)
		if err != nil {
			return err
		}

		if err := s.itemRepo.InsertBatch(txCtx, tx, orderID, items); err != nil {
			return err
		}

		return s.historyRepo.Insert(txCtx, tx, domain.StatusHistoryEntry{
			OrderID:   orderID,
			NewStatus: status,
			ActorID:   &actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.Uint("clientId", cmd.ClientID),
		zap.String("status", string(status)),
		zap.String("total", order.Total.String()),
	)

	s.emitAudit(ctx, cmd.Actor, audit.ActionOrderCreated, orderID, map[string]any{
		"clientId": cmd.ClientID,
		"status":   string(status),
		"total":    order.Total.String(),
	})
	s.metrics.OrderCreated()

	return s.FindByID(ctx, orderID)
}

func (s *LifecycleService) ChangeStatus(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var previous domain.OrderStatus
	actorID := cmd.Actor.ID
	err := s.tx.WithinTx(txCtx, func(tx *sql.Tx) error {
		// The guard runs against the committed current status under a row
		// lock, so the loser of a concurrent race fails here instead of
		// overwriting.
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, cmd.OrderID)
		if err != nil {
			return err
		}

		if err := domain.CanTransition(order.Status, cmd.Status, cmd.Actor.Role); err != nil {
			return err
		}

		var completedAt *time.Time
		if cmd.Status.IsTerminal() {
			now := time.Now()
			completedAt = &now
		}

		if err := s.orderRepo.UpdateStatus(txCtx, tx, cmd.OrderID, cmd.Status, completedAt); err != nil {
			return err
		}

		previous = order.Status
		return s.historyRepo.Insert(txCtx, tx, domain.StatusHistoryEntry{
			OrderID:        cmd.OrderID,
			PreviousStatus: &previous,
			NewStatus:      cmd.Status,
			ActorID:        &actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.Uint("orderId", cmd.OrderID),
		zap.String("from", string(previous)),
		zap.String("to", string(cmd.Status)),
		zap.Uint("actorId", cmd.Actor.ID),
	)

	s.emitAudit(ctx, cmd.Actor, audit.ActionOrderStatusChanged, cmd.OrderID, map[string]any{
		"previousStatus": string(previous),
		"newStatus":      string(cmd.Status),
	})
	s.metrics.OrderStatusChanged(string(cmd.Status))

	return s.FindByID(ctx, cmd.OrderID)
}

func (s *LifecycleService) Update(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
	if err := checkUpdateRights(cmd); err != nil {
		return nil, err
	}

	// Items are resolved before any write so a validation failure never
	// touches the stored order.
	var items []domain.OrderItem
	if cmd.Items.Present {
		var err error
		items, err = s.resolver.Resolve(ctx, cmd.Items.Items)
		if err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := s.tx.WithinTx(txCtx, func(tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, cmd.OrderID)
		if err != nil {
			return err
		}

		if order.Status.IsTerminal() {
			return apperrors.NewConflictError(
				fmt.Sprintf("order %d is %s and can no longer be edited", cmd.OrderID, order.Status))
		}

		if cmd.Items.Present {
			if err := s.itemRepo.DeleteByOrderID(txCtx, tx, cmd.OrderID); err != nil {
				return err
			}
			if err := s.itemRepo.InsertBatch(txCtx, tx, cmd.OrderID, items); err != nil {
				return err
			}
			if err := s.orderRepo.UpdateTotal(txCtx, tx, cmd.OrderID, domain.OrderTotal(items)); err != nil {
				return err
			}
		}

		if cmd.Comment.Present {
			if err := s.orderRepo.UpdateComment(txCtx, tx, cmd.OrderID, cmd.Comment.Value); err != nil {
				return err
			}
		}

		if cmd.Assignee.Present {
			if err := s.orderRepo.UpdateAssignee(txCtx, tx, cmd.OrderID, cmd.Assignee.Value); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		zap.Uint("orderId", cmd.OrderID),
		zap.Bool("itemsReplaced", cmd.Items.Present),
		zap.Uint("actorId", cmd.Actor.ID),
	)

	s.emitAudit(ctx, cmd.Actor, audit.ActionOrderUpdated, cmd.OrderID, map[string]any{
		"itemsReplaced":   cmd.Items.Present,
		"commentChanged":  cmd.Comment.Present,
		"assigneeChanged": cmd.Assignee.Present,
	})
	s.metrics.OrderUpdated()

	return s.FindByID(ctx, cmd.OrderID)
}

func (s *LifecycleService) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Items, err = s.itemRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.History, err = s.historyRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *LifecycleService) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	orders, err := s.orderRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// checkUpdateRights applies the role overlay for the update path: operators
// may only touch the assignee, analysts may not update at all.
func checkUpdateRights(cmd dto.UpdateOrderCommand) error {
	role := cmd.Actor.Role
	if role.CanManageOrders() {
		return nil
	}

	if role == domain.RoleOperator {
		if cmd.Items.Present || cmd.Comment.Present {
			return apperrors.NewForbiddenError("role operator may only change the order assignee")
		}
		return nil
	}

	return apperrors.NewForbiddenError(fmt.Sprintf("role %s may not update orders", role))
}

// emitAudit records the mutation for the audit trail. The order data is
// already committed at this point, so a sink failure is logged, not returned.
func (s *LifecycleService) emitAudit(ctx context.Context, actor domain.Actor, action string, orderID uint, metadata map[string]any) {
	actorID := actor.ID
	err := s.auditor.Record(ctx, audit.Record{
		ActorID:    &actorID,
		Action:     action,
		EntityType: audit.EntityTypeOrder,
		EntityID:   fmt.Sprintf("%d", orderID),
		Metadata:   metadata,
	})
	if err != nil {
		s.logger.Warn("audit record failed",
			zap.String("action", action),
			zap.Uint("orderId", orderID),
			zap.Error(err),
		)
	}
}
