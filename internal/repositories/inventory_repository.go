package repositories

import (
	"context"
	"fmt"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

type inventoryRepository struct {
	db *gorm.DB
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.UserInventory) error {
	if err := r.db.WithContext(ctx).Omit("Product", "Purchase", "User").Create(item).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *models.UserInventory) error {
	if err := r.db.WithContext(ctx).Omit("Product", "Purchase", "User").Save(item).Error; err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*models.UserInventory, error) {
	var item models.UserInventory
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// GetByIDForUpdate locks only the inventory row; the product is not loaded.
func (r *inventoryRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.UserInventory, error) {
	var item models.UserInventory
	if err := forUpdate(r.db.WithContext(ctx)).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *inventoryRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserInventory, error) {
	var items []models.UserInventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("acquired_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) ListEquipped(ctx context.Context, userID uint) ([]models.UserInventory, error) {
	var items []models.UserInventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND is_equipped = ? AND is_active = ?", userID, true, true).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list equipped items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) ListByPurchase(ctx context.Context, purchaseID uint) ([]models.UserInventory, error) {
	var items []models.UserInventory
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase items: %w", err)
	}
	return items, nil
}
