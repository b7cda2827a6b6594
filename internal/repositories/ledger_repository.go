package repositories

import (
	"context"
	"fmt"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

func (r *ledgerRepository) Append(ctx context.Context, entry *models.WalletTransaction) error {
	if entry.ID != 0 {
		return fmt.Errorf("ledger entry %d already recorded", entry.ID)
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uint) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *ledgerRepository) ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	var entries []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return entries, total, nil
}

func (r *ledgerRepository) ListChronological(ctx context.Context, walletID uint) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) SumRefundsAgainst(ctx context.Context, walletID, transactionID uint) (int64, error) {
	db := r.db.WithContext(ctx)
	purchases := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ProductPurchase{}).
		Select("id").
		Where("transaction_id = ?", transactionID)

	var total int64
	err := db.Model(&models.WalletTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("wallet_id = ? AND transaction_type = ?", walletID, models.TransactionRefund).
		Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("reference_type = ? AND reference_id = ?", models.ReferenceWalletTransaction, transactionID).
				Or("reference_type = ? AND reference_id IN (?)", models.ReferencePurchase, purchases),
		).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum refunds: %w", err)
	}
	return total, nil
}
