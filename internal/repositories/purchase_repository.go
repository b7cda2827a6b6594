package repositories

import (
	"context"
	"fmt"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

type purchaseRepository struct {
	db *gorm.DB
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.ProductPurchase) error {
	if err := r.db.WithContext(ctx).Omit("Product", "User").Create(purchase).Error; err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *models.ProductPurchase) error {
	if err := r.db.WithContext(ctx).Omit("Product", "User").Save(purchase).Error; err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.ProductPurchase, error) {
	var purchase models.ProductPurchase
	if err := forUpdate(r.db.WithContext(ctx)).First(&purchase, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) CountByUserAndProduct(ctx context.Context, userID, productID uint, statuses []models.PurchaseStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductPurchase{}).
		Where("user_id = ? AND product_id = ? AND status IN ?", userID, productID, statuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return count, nil
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint) ([]models.ProductPurchase, error) {
	var purchases []models.ProductPurchase
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("purchased_at DESC, id DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}
