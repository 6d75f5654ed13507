package service

import (
	"context"
	"fmt"

	"vincula/internal/domain"
	"vincula/internal/dto"
	apperrors "vincula/internal/errors"
)

// CatalogLookup is the catalog collaborator: availability and identity only,
// the resolver never trusts it for the line price (see Resolve).
type CatalogLookup interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
}

// ItemResolver validates and prices a set of requested (product, quantity)
// pairs against the current catalog snapshot. It has no side effects.
type ItemResolver struct {
	catalog CatalogLookup
}

func NewItemResolver(catalog CatalogLookup) *ItemResolver {
	return &ItemResolver{catalog: catalog}
}

// Resolve turns item requests into order lines or fails without partial
// application. The caller-supplied price becomes the line's unit price even
// when it differs from the catalog's current price: the routing layer quotes
// the price it displayed, and later catalog changes must not reprice lines
// already written. Whether callers should be trusted this far is a pricing
// policy decision; the check lives here if it ever changes.
func (r *ItemResolver) Resolve(ctx context.Context, requests []dto.ItemRequest) ([]domain.OrderItem, error) {
	if len(requests) == 0 {
		return nil, apperrors.NewValidationError("order items must not be empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "at least one item is required",
		})
	}

	ids := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("invalid quantity for product %d", req.ProductID),
				apperrors.ValidationDetail{
					Field:   "items",
					Message: fmt.Sprintf("quantity for product %d must be greater than zero", req.ProductID),
				})
		}
		if req.Price.IsNegative() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("invalid price for product %d", req.ProductID),
				apperrors.ValidationDetail{
					Field:   "items",
					Message: fmt.Sprintf("price for product %d must not be negative", req.ProductID),
				})
		}
		ids = append(ids, req.ProductID)
	}

	products, err := r.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("looking up products: %w", err)
	}

	byID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(requests))
	for _, req := range requests {
		product, ok := byID[req.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", req.ProductID))
		}
		if !product.Orderable() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("product %d is not available", req.ProductID),
				apperrors.ValidationDetail{
					Field:   "items",
					Message: fmt.Sprintf("product %d cannot be ordered", req.ProductID),
				})
		}

		items = append(items, domain.OrderItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     req.Price,
		})
	}

	return items, nil
}
