package repositories

import (
	"context"
	"fmt"

	"sfstore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type eventTokenRepository struct {
	db *gorm.DB
}

func (r *eventTokenRepository) GetForUpdate(ctx context.Context, userID uint, eventID string) (*models.EventTokenBalance, error) {
	var balance models.EventTokenBalance
	err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&balance).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &balance, nil
}

func (r *eventTokenRepository) CreateIfAbsent(ctx context.Context, balance *models.EventTokenBalance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(balance).Error
	if err != nil {
		return fmt.Errorf("failed to create event token balance: %w", err)
	}
	return nil
}

func (r *eventTokenRepository) Update(ctx context.Context, balance *models.EventTokenBalance) error {
	if err := r.db.WithContext(ctx).Save(balance).Error; err != nil {
		return fmt.Errorf("failed to update event token balance: %w", err)
	}
	return nil
}

func (r *eventTokenRepository) ListByUser(ctx context.Context, userID uint) ([]models.EventTokenBalance, error) {
	var balances []models.EventTokenBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("event_id ASC").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list event token balances: %w", err)
	}
	return balances, nil
}
