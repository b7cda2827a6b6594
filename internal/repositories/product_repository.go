package repositories

import (
	"context"
	"fmt"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, product *models.VirtualProduct) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.VirtualProduct, error) {
	var product models.VirtualProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.VirtualProduct, error) {
	var product models.VirtualProduct
	if err := forUpdate(r.db.WithContext(ctx)).First(&product, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]models.VirtualProduct, error) {
	var products []models.VirtualProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListByType(ctx context.Context, productType string) ([]models.VirtualProduct, error) {
	var products []models.VirtualProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND product_type = ?", true, productType).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VirtualProduct{}).
		Where("id = ? AND stock_quantity IS NOT NULL AND stock_quantity > 0", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
