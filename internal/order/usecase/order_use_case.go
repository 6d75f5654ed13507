package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"vincula/internal/domain"
	"vincula/internal/dto"
	apperrors "vincula/internal/errors"
)

type LifecycleService interface {
	Create(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error)
	ChangeStatus(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error)
	Update(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}

// OrderUseCase fronts the lifecycle engine: it rejects malformed commands
// before any write and retries transactions that lost a storage race.
type OrderUseCase struct {
	service          LifecycleService
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewOrderUseCase(service LifecycleService, logger *zap.Logger, maxRetryAttempts int) *OrderUseCase {
	return &OrderUseCase{
		service:          service,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *OrderUseCase) Create(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
	if cmd.ClientID == 0 {
		return nil, apperrors.NewValidationError("clientId is required", apperrors.ValidationDetail{
			Field:   "clientId",
			Message: "clientId must be a positive integer",
		})
	}

	uc.logger.Info("create order started",
		zap.Uint("clientId", cmd.ClientID),
		zap.Int("itemCount", len(cmd.Items)),
		zap.Uint("actorId", cmd.Actor.ID),
	)

	return uc.withRetry(ctx, "create", func() (*domain.Order, error) {
		return uc.service.Create(ctx, cmd)
	})
}

func (uc *OrderUseCase) ChangeStatus(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error) {
	if cmd.OrderID == 0 {
		return nil, apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
	}

	uc.logger.Info("change status started",
		zap.Uint("orderId", cmd.OrderID),
		zap.String("requestedStatus", string(cmd.Status)),
		zap.Uint("actorId", cmd.Actor.ID),
		zap.String("role", string(cmd.Actor.Role)),
	)

	return uc.withRetry(ctx, "changeStatus", func() (*domain.Order, error) {
		return uc.service.ChangeStatus(ctx, cmd)
	})
}

func (uc *OrderUseCase) Update(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
	if cmd.OrderID == 0 {
		return nil, apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
	}

	if !cmd.Items.Present && !cmd.Comment.Present && !cmd.Assignee.Present {
		return nil, apperrors.NewValidationError("nothing to update", apperrors.ValidationDetail{
			Field:   "body",
			Message: "at least one of items, comment or assigneeId must be supplied",
		})
	}

	uc.logger.Info("update order started",
		zap.Uint("orderId", cmd.OrderID),
		zap.Bool("itemsReplaced", cmd.Items.Present),
		zap.Uint("actorId", cmd.Actor.ID),
	)

	return uc.withRetry(ctx, "update", func() (*domain.Order, error) {
		return uc.service.Update(ctx, cmd)
	})
}

func (uc *OrderUseCase) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.service.FindByID(ctx, id)
}

func (uc *OrderUseCase) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	return uc.service.FindAll(ctx, limit, offset)
}

// withRetry re-runs the operation when MySQL reports a deadlock or lock wait
// timeout. Constraint violations and exhausted retries surface as conflicts:
// both mean someone else changed the data first.
func (uc *OrderUseCase) withRetry(ctx context.Context, op string, fn func() (*domain.Order, error)) (*domain.Order, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		order, err := fn()
		if err == nil {
			return order, nil
		}

		if isConstraintError(err) {
			uc.logger.Warn("constraint violation", zap.String("operation", op), zap.Error(err))
			return nil, apperrors.NewConflictError("the order was changed by a concurrent request")
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < uc.maxRetryAttempts {
			backoff := backoffs[min(attempt-1, len(backoffs)-1)]
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			uc.logger.Warn("deadlock detected, retrying",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", uc.maxRetryAttempts),
			)
			select {
			case <-time.After(jitter):
			case <-ctx.Done():
				return nil, fmt.Errorf("waiting for retry: %w", ctx.Err())
			}
		}
	}

	return nil, apperrors.NewConflictError("the order was changed by a concurrent request")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

func isConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062 || mysqlErr.Number == 1452
	}
	return false
}
