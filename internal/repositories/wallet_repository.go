package repositories

import (
	"context"
	"fmt"
	"time"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, notFound(err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := forUpdate(r.db.WithContext(ctx)).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, notFound(err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) ResetDailyEarnings(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("last_earning_reset < ?", cutoff).
		Updates(map[string]interface{}{
			"daily_earnings":     0,
			"last_earning_reset": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset daily earnings: %w", result.Error)
	}
	return result.RowsAffected, nil
}
