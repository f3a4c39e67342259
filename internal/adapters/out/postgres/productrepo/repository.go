// Package productrepo answers product ownership lookups from the products table.
package productrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID uuid.UUID `gorm:"type:uuid;column:seller_id"`
	Name     string    `gorm:"column:name"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormProductCatalog implements ports.ProductCatalog.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

func (c *GormProductCatalog) SellerOf(ctx context.Context, productID kernel.UUID) (kernel.UUID, error) {
	if err := productID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).Select("seller_id").First(&dto, "id = ?", productID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("productID", productID.String())
		}
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromGoogle(dto.SellerID)
}

// Register upserts a product so that orders for it can be placed.
func (c *GormProductCatalog) Register(ctx context.Context, productID, sellerID kernel.UUID, name string) error {
	if err := errors.Join(productID.Validate(), sellerID.Validate()); err != nil {
		return err
	}
	dto := ProductDTO{ID: productID.Bytes(), SellerID: sellerID.Bytes(), Name: name}
	return c.db.WithContext(ctx).Save(&dto).Error
}
