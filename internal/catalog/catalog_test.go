package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"vincula/internal/domain"
)

type mockRepository struct {
	FindByIDsFunc func(ctx context.Context, ids []uint) ([]domain.Product, error)
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	return m.FindByIDsFunc(ctx, ids)
}

func TestGetProductsByIDs_SplitsFoundAndMissing(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Product, error) {
			return []domain.Product{
				{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("499.99"), IsActive: true},
				{ID: 3, Name: "Mouse", Price: decimal.RequireFromString("9.99"), IsActive: true},
			}, nil
		},
	}

	svc := NewService(repo)

	found, notFound, err := svc.GetProductsByIDs(ctx, []uint{1, 2, 3, 4})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(found) != 2 {
		t.Errorf("expected 2 found products, got %d", len(found))
	}

	if len(notFound) != 2 || notFound[0] != 2 || notFound[1] != 4 {
		t.Errorf("expected missing ids [2 4], got %v", notFound)
	}
}

func TestGetProductsByIDs_RepositoryError(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := NewService(repo)

	_, _, err := svc.GetProductsByIDs(ctx, []uint{1})

	if err == nil {
		t.Errorf("expected error, got nil")
	}
}

type mockService struct {
	GetProductsByIDsFunc func(ctx context.Context, ids []uint) ([]domain.Product, []uint, error)
}

func (m *mockService) GetProductsByIDs(ctx context.Context, ids []uint) ([]domain.Product, []uint, error) {
	return m.GetProductsByIDsFunc(ctx, ids)
}

func TestSearchProducts_MarksOrderability(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		GetProductsByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Product, []uint, error) {
			return []domain.Product{
				{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("499.99"), IsActive: true},
				{ID: 2, Name: "Legacy cable", Price: decimal.RequireFromString("1.00"), IsActive: false},
			}, nil, nil
		},
	}

	uc := NewSearchUseCase(svc)

	resp, err := uc.SearchProducts(ctx, SearchProductsRequest{ProductIDs: []uint{1, 2}})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(resp.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(resp.Products))
	}

	if !resp.Products[0].Orderable {
		t.Errorf("active product must be orderable")
	}

	if resp.Products[1].Orderable {
		t.Errorf("inactive product must not be orderable")
	}
}

func TestSearchProducts_EmptyNotFoundIsNotNull(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		GetProductsByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Product, []uint, error) {
			return []domain.Product{{ID: 1, IsActive: true}}, nil, nil
		},
	}

	uc := NewSearchUseCase(svc)

	resp, err := uc.SearchProducts(ctx, SearchProductsRequest{ProductIDs: []uint{1}})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.NotFound == nil {
		t.Errorf("notFound must serialize as an empty array, not null")
	}
}
