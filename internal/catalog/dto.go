package catalog

import "github.com/shopspring/decimal"

type SearchProductsRequest struct {
	ProductIDs []uint `json:"productIds"`
}

type SearchProductsResponse struct {
	Products []ProductDTO `json:"products"`
	NotFound []uint       `json:"notFound"`
}

type ProductDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"isActive"`
	Orderable   bool            `json:"orderable"`
}
