package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// ProductCatalog answers which seller owns a product.
type ProductCatalog interface {
	// SellerOf returns errs.ObjectNotFoundError for unknown products.
	SellerOf(ctx context.Context, productID kernel.UUID) (kernel.UUID, error)
}

// ProductRegistry records which seller owns a product.
type ProductRegistry interface {
	// Register creates the product or hands it to sellerID when it already exists.
	Register(ctx context.Context, productID, sellerID kernel.UUID, name string) error
}
