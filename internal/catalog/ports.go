package catalog

import (
	"context"

	"vincula/internal/domain"
)

type SearchUseCase interface {
	SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error)
}

type Service interface {
	GetProductsByIDs(ctx context.Context, ids []uint) (found []domain.Product, notFoundIDs []uint, err error)
}

type Repository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
}
