package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vincula/internal/domain"
	"vincula/internal/dto"
	apperrors "vincula/internal/errors"
)

// Helper to create a MySQL deadlock error for testing
func createDeadlockError() error {
	return &mysql.MySQLError{Number: 1213}
}

func newTestOrderUseCase(service LifecycleService) *OrderUseCase {
	return NewOrderUseCase(service, zap.NewNop(), 3)
}

type mockLifecycleService struct {
	CreateFunc       func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error)
	ChangeStatusFunc func(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error)
	UpdateFunc       func(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error)
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.Order, error)
	FindAllFunc      func(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}

func (m *mockLifecycleService) Create(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
	return m.CreateFunc(ctx, cmd)
}

func (m *mockLifecycleService) ChangeStatus(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error) {
	return m.ChangeStatusFunc(ctx, cmd)
}

func (m *mockLifecycleService) Update(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
	return m.UpdateFunc(ctx, cmd)
}

func (m *mockLifecycleService) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockLifecycleService) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	return m.FindAllFunc(ctx, limit, offset)
}

func validCreateCommand() dto.CreateOrderCommand {
	return dto.CreateOrderCommand{
		Actor:    domain.Actor{ID: 1, Role: domain.RoleManager},
		ClientID: 1,
		Items: []dto.ItemRequest{
			{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	}
}

func TestCreate_MissingClientID(t *testing.T) {
	ctx := context.Background()

	serviceCalled := false
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			serviceCalled = true
			return &domain.Order{ID: 1}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	cmd := validCreateCommand()
	cmd.ClientID = 0

	_, err := uc.Create(ctx, cmd)

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}

	if serviceCalled {
		t.Errorf("service must not run for an invalid command")
	}
}

func TestCreate_DeadlockRetry(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			attemptCount++
			if attemptCount == 1 {
				return nil, createDeadlockError()
			}
			return &domain.Order{ID: 1}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	order, err := uc.Create(ctx, validCreateCommand())

	if err != nil {
		t.Errorf("expected no error on retry success, got %v", err)
	}

	if order == nil {
		t.Errorf("expected non-nil order")
	}

	if attemptCount != 2 {
		t.Errorf("expected 2 attempts, got %d", attemptCount)
	}
}

func TestCreate_DeadlockMaxRetries(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			attemptCount++
			return nil, createDeadlockError()
		},
	}

	uc := newTestOrderUseCase(svc)

	_, err := uc.Create(ctx, validCreateCommand())

	if err == nil {
		t.Fatalf("expected error after max retries, got nil")
	}

	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}

	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

func TestCreate_LockWaitTimeoutIsRetried(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			attemptCount++
			if attemptCount == 1 {
				return nil, &mysql.MySQLError{Number: 1205}
			}
			return &domain.Order{ID: 1}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	_, err := uc.Create(ctx, validCreateCommand())

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if attemptCount != 2 {
		t.Errorf("expected 2 attempts, got %d", attemptCount)
	}
}

func TestCreate_ConstraintViolationIsConflict(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			attemptCount++
			return nil, &mysql.MySQLError{Number: 1452}
		},
	}

	uc := newTestOrderUseCase(svc)

	_, err := uc.Create(ctx, validCreateCommand())

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}

	if attemptCount != 1 {
		t.Errorf("constraint violations must not be retried, got %d attempts", attemptCount)
	}
}

func TestCreate_DomainErrorNotRetried(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		CreateFunc: func(ctx context.Context, cmd dto.CreateOrderCommand) (*domain.Order, error) {
			attemptCount++
			return nil, apperrors.NewNotFoundError("client not found")
		},
	}

	uc := newTestOrderUseCase(svc)

	_, err := uc.Create(ctx, validCreateCommand())

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}

	if attemptCount != 1 {
		t.Errorf("domain errors must not be retried, got %d attempts", attemptCount)
	}
}

func TestChangeStatus_MissingOrderID(t *testing.T) {
	ctx := context.Background()

	svc := &mockLifecycleService{}
	uc := newTestOrderUseCase(svc)

	_, err := uc.ChangeStatus(ctx, dto.ChangeStatusCommand{
		Actor:  domain.Actor{ID: 1, Role: domain.RoleManager},
		Status: domain.OrderStatusDone,
	})

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestChangeStatus_DeadlockRetry(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0
	svc := &mockLifecycleService{
		ChangeStatusFunc: func(ctx context.Context, cmd dto.ChangeStatusCommand) (*domain.Order, error) {
			attemptCount++
			if attemptCount < 3 {
				return nil, createDeadlockError()
			}
			return &domain.Order{ID: cmd.OrderID, Status: cmd.Status}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	order, err := uc.ChangeStatus(ctx, dto.ChangeStatusCommand{
		Actor:   domain.Actor{ID: 1, Role: domain.RoleManager},
		OrderID: 1,
		Status:  domain.OrderStatusDone,
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if order.Status != domain.OrderStatusDone {
		t.Errorf("expected DONE, got %s", order.Status)
	}

	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

func TestUpdate_MissingOrderID(t *testing.T) {
	ctx := context.Background()

	svc := &mockLifecycleService{}
	uc := newTestOrderUseCase(svc)

	comment := "note"
	_, err := uc.Update(ctx, dto.UpdateOrderCommand{
		Actor:   domain.Actor{ID: 1, Role: domain.RoleManager},
		Comment: dto.FieldPatch[*string]{Present: true, Value: &comment},
	})

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestUpdate_EmptyPatch(t *testing.T) {
	ctx := context.Background()

	serviceCalled := false
	svc := &mockLifecycleService{
		UpdateFunc: func(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
			serviceCalled = true
			return &domain.Order{ID: cmd.OrderID}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	_, err := uc.Update(ctx, dto.UpdateOrderCommand{
		Actor:   domain.Actor{ID: 1, Role: domain.RoleManager},
		OrderID: 1,
	})

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}

	if serviceCalled {
		t.Errorf("service must not run for an empty patch")
	}
}

func TestUpdate_PassesPatchThrough(t *testing.T) {
	ctx := context.Background()

	var gotCmd dto.UpdateOrderCommand
	svc := &mockLifecycleService{
		UpdateFunc: func(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
			gotCmd = cmd
			return &domain.Order{ID: cmd.OrderID}, nil
		},
	}

	uc := newTestOrderUseCase(svc)

	assignee := uint(5)
	_, err := uc.Update(ctx, dto.UpdateOrderCommand{
		Actor:    domain.Actor{ID: 1, Role: domain.RoleManager},
		OrderID:  3,
		Assignee: dto.FieldPatch[*uint]{Present: true, Value: &assignee},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !gotCmd.Assignee.Present || gotCmd.Assignee.Value == nil || *gotCmd.Assignee.Value != 5 {
		t.Errorf("expected assignee patch to reach the service, got %+v", gotCmd.Assignee)
	}

	if gotCmd.Items.Present || gotCmd.Comment.Present {
		t.Errorf("untouched fields must stay absent")
	}
}

func TestUpdate_NonMySQLErrorPropagates(t *testing.T) {
	ctx := context.Background()

	svc := &mockLifecycleService{
		UpdateFunc: func(ctx context.Context, cmd dto.UpdateOrderCommand) (*domain.Order, error) {
			return nil, errors.New("disk on fire")
		},
	}

	uc := newTestOrderUseCase(svc)

	comment := "note"
	_, err := uc.Update(ctx, dto.UpdateOrderCommand{
		Actor:   domain.Actor{ID: 1, Role: domain.RoleManager},
		OrderID: 1,
		Comment: dto.FieldPatch[*string]{Present: true, Value: &comment},
	})

	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		t.Errorf("plain errors must not be converted to conflicts")
	}
}
