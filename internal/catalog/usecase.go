package catalog

import "context"

type ProductSearchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) *ProductSearchUseCase {
	return &ProductSearchUseCase{service: service}
}

func (uc *ProductSearchUseCase) SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	products := make([]ProductDTO, 0, len(found))
	for _, p := range found {
		products = append(products, ProductDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			IsActive:    p.IsActive,
			Orderable:   p.Orderable(),
		})
	}

	if notFoundIDs == nil {
		notFoundIDs = []uint{}
	}

	return &SearchProductsResponse{
		Products: products,
		NotFound: notFoundIDs,
	}, nil
}
